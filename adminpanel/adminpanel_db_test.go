package adminpanel

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"sevabook/infrastructure/sqlite"
	"sevabook/models"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "seva.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := sqlite.ApplyMigrations(context.Background(), db, ""); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedAnnadanam(t *testing.T, db *sqlite.DB, date, session, name string, createdAt time.Time) {
	t.Helper()
	b := models.AnnadanamBooking{
		ID:        uuid.NewString(),
		CreatedAt: createdAt,
		Date:      date,
		Session:   session,
		UserID:    1,
		Name:      name,
		Email:     "seed@example.org",
		Qty:       1,
		Status:    "confirmed",
		QRToken:   uuid.NewString() + uuid.NewString(),
	}
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&b).Exec(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
}

func TestListAnnadanamFiltersAndOrders(t *testing.T) {
	db := openTestDB(t)
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		user := models.User{Email: "seed@example.org", Name: "Seed", PasswordHash: "x"}
		_, err := tx.NewInsert().Model(&user).Exec(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	base := time.Date(2025, time.November, 20, 12, 0, 0, 0, time.UTC)
	seedAnnadanam(t, db, "2025-11-20", "1:00 PM - 1:30 PM", "First", base)
	seedAnnadanam(t, db, "2025-11-20", "1:30 PM - 2:00 PM", "Second", base.Add(time.Minute))
	seedAnnadanam(t, db, "2025-11-21", "1:00 PM - 1:30 PM", "OtherDay", base)

	rows, err := ListAnnadanam(context.Background(), db, "2025-11-20", "all")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("all sessions = %d rows, want 2", len(rows))
	}
	if rows[0].Name != "Second" {
		t.Fatalf("rows not newest first: %s", rows[0].Name)
	}

	rows, err = ListAnnadanam(context.Background(), db, "2025-11-20", "1:00 PM - 1:30 PM")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Name != "First" {
		t.Fatalf("session filter rows = %v", rows)
	}
}

func TestLoadExportPayloadShape(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2025, time.November, 20, 10, 0, 0, 0, time.UTC)
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		user := models.User{Email: "devotee@example.org", Name: "Devotee", PasswordHash: "x", CreatedAt: now, UpdatedAt: now}
		if _, err := tx.NewInsert().Model(&user).Exec(ctx); err != nil {
			return err
		}
		p := models.Profile{UserID: user.ID, Phone: "9876543210", AadhaarNumber: "123412341234"}
		if _, err := tx.NewInsert().Model(&p).Exec(ctx); err != nil {
			return err
		}
		d := models.Donation{CreatedAt: now, Name: "Donor", Email: "donor@example.org", Amount: 1000}
		_, err := tx.NewInsert().Model(&d).Exec(ctx)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	seedAnnadanam(t, db, "2025-11-20", "1:00 PM - 1:30 PM", "InRange", now)
	seedAnnadanam(t, db, "2025-12-20", "1:00 PM - 1:30 PM", "OutOfRange", now)

	payload, err := LoadExport(context.Background(), db, nil, 0, "2025-11-19", "2025-11-21")
	if err != nil {
		t.Fatal(err)
	}
	if payload.DateRange != [2]string{"2025-11-19", "2025-11-21"} {
		t.Fatalf("date_range = %v", payload.DateRange)
	}
	if payload.ExportedAt.IsZero() {
		t.Fatal("exported_at not set")
	}
	if len(payload.Users) != 1 || len(payload.Profiles) != 1 || len(payload.Donations) != 1 {
		t.Fatalf("users/profiles/donations = %d/%d/%d", len(payload.Users), len(payload.Profiles), len(payload.Donations))
	}
	if len(payload.AnnadanamBookings) != 1 || payload.AnnadanamBookings[0].Name != "InRange" {
		t.Fatalf("annadanam bookings = %v", payload.AnnadanamBookings)
	}
	// Empty tables serialize as empty arrays, not null.
	if payload.PoojaBookings == nil || payload.ContactMessages == nil || payload.VolunteerBookings == nil {
		t.Fatal("empty tables must be non-nil")
	}
}

func TestExportCSVQuotingRoundTrips(t *testing.T) {
	payload := ExportPayload{
		ContactMessages: []models.ContactMessage{{
			ID:      1,
			Name:    `Quote "Me"`,
			Email:   "a@example.org",
			Subject: "commas, everywhere",
			Message: "line one\nline two",
		}},
	}
	var buf bytes.Buffer
	if err := writeExportCSV(&buf, payload, "contact_messages"); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("csv does not round-trip: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("record count = %d", len(records))
	}
	row := records[1]
	if row[2] != `Quote "Me"` {
		t.Errorf("quoted name = %q", row[2])
	}
	if row[4] != "commas, everywhere" {
		t.Errorf("comma subject = %q", row[4])
	}
	if row[5] != "line one\nline two" {
		t.Errorf("newline message = %q", row[5])
	}

	if err := writeExportCSV(&buf, payload, "no_such_table"); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestRenderListPDFs(t *testing.T) {
	rows := make([]models.AnnadanamBooking, 0, 60)
	for i := 0; i < 60; i++ {
		rows = append(rows, models.AnnadanamBooking{
			ID: uuid.NewString(), Date: "2025-11-20", Session: "1:00 PM - 1:30 PM",
			Name: "A very long devotee name that needs clipping to fit its column",
			Qty:  1, Status: "confirmed",
		})
	}
	pdfBytes, err := renderAnnadanamListPDF("2025-11-20", "all", rows)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatal("not a pdf document")
	}

	pdfBytes, err = renderPoojaListPDF("2025-11-20", "all", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatal("not a pdf document")
	}
}
