package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenDBConfiguresPools(t *testing.T) {
	// A path that does not exist yet forces the bootstrap reopen of the read
	// handle; the pool settings must survive it.
	db, err := OpenDB(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if got := db.WriteSQL.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("write pool max conns = %d, want 1", got)
	}
	if got := db.ReadSQL.Stats().MaxOpenConnections; got != 8 {
		t.Errorf("read pool max conns = %d, want 8", got)
	}

	if err := ApplyMigrations(context.Background(), db, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	var n int
	if err := db.ReadSQL.QueryRow("SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		t.Fatalf("read after bootstrap: %v", err)
	}
	if n != 0 {
		t.Fatalf("users = %d, want 0", n)
	}
}

func TestOpenDBRequiresPath(t *testing.T) {
	if _, err := OpenDB(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
