package login

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"sevabook/infrastructure/sqlite"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "login-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyMigrations(context.Background(), db, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestCreateAccountNormalizesEmail(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	user, err := CreateAccount(ctx, db, "  Devotee@Example.ORG ", " Devotee ", "seva1234pass", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if user.ID == 0 {
		t.Error("id not assigned")
	}
	if user.Email != "devotee@example.org" {
		t.Errorf("email = %q, want lowercased and trimmed", user.Email)
	}
	if user.Name != "Devotee" {
		t.Errorf("name = %q", user.Name)
	}
	if user.PasswordHash == "" || user.PasswordHash == "seva1234pass" {
		t.Error("password stored without hashing")
	}
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := CreateAccount(ctx, db, "devotee@example.org", "A", "seva1234pass", time.Now()); err != nil {
		t.Fatal(err)
	}
	// Case differences collapse onto the same account.
	_, err := CreateAccount(ctx, db, "DEVOTEE@example.org", "B", "otherpass123", time.Now())
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestAuthenticate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	created, err := CreateAccount(ctx, db, "devotee@example.org", "Devotee", "seva1234pass", time.Now())
	if err != nil {
		t.Fatal(err)
	}

	user, err := Authenticate(ctx, db, "Devotee@Example.org", "seva1234pass")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != created.ID {
		t.Errorf("id = %d, want %d", user.ID, created.ID)
	}

	if _, err := Authenticate(ctx, db, "devotee@example.org", "wrong-password"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, err := Authenticate(ctx, db, "nobody@example.org", "seva1234pass"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("unknown email err = %v", err)
	}
}

func TestPasswordPolicy(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"seva1234pass", true},
		{"a1b2c3d4", true},
		{"short1", false},
		{"onlyletters", false},
		{"12345678", false},
		{"", false},
	}
	for _, tc := range cases {
		err := ValidatePasswordPolicy(tc.password)
		if (err == nil) != tc.ok {
			t.Errorf("ValidatePasswordPolicy(%q) = %v, want ok=%v", tc.password, err, tc.ok)
		}
	}
}
