package pooja

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"sevabook/calendar"
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

func seedUser(t *testing.T, db *sqlite.DB, email string) int64 {
	t.Helper()
	user := models.User{Email: email, Name: "Test Devotee", PasswordHash: "x"}
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&user).Exec(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.ID
}

const testDate = "2025-11-20"

// 9:00 IST, before both pooja sessions start.
func morningNow() time.Time {
	return time.Date(2025, time.November, 20, 9, 0, 0, 0, calendar.IST)
}

func reserveReq(session string) ReserveRequest {
	return ReserveRequest{
		Date:       testDate,
		Session:    session,
		Name:       "Devotee One",
		Phone:      "9876543210",
		Nakshatram: "Rohini",
		Gothram:    "Bharadwaja",
	}
}

func TestReserveHappyPath(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db, "devotee@example.org")

	booking, err := Reserve(context.Background(), db, nil, userID, "devotee@example.org", reserveReq("10:30 AM"), morningNow())
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if booking.ID == "" || len(booking.QRToken) != 48 {
		t.Fatalf("booking = %+v", booking)
	}
	if booking.Nakshatram != "Rohini" || booking.Gothram != "Bharadwaja" {
		t.Fatalf("devotee details not stored: %+v", booking)
	}
}

func TestReserveRejectsAfterSessionStart(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db, "devotee@example.org")
	atStart := time.Date(2025, time.November, 20, 10, 30, 0, 0, calendar.IST)
	_, err := Reserve(context.Background(), db, nil, userID, "devotee@example.org", reserveReq("10:30 AM"), atStart)
	if !errors.Is(err, calendar.ErrWindowClosed) {
		t.Fatalf("err = %v, want ErrWindowClosed", err)
	}
	// The evening session remains open.
	if _, err := Reserve(context.Background(), db, nil, userID, "devotee@example.org", reserveReq("6:30 PM"), atStart); err != nil {
		t.Fatalf("evening reserve: %v", err)
	}
}

func TestReserveRejectsUnknownSessionAndOffSeason(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db, "devotee@example.org")

	_, err := Reserve(context.Background(), db, nil, userID, "devotee@example.org", reserveReq("11:30 AM"), morningNow())
	if !errors.Is(err, calendar.ErrInvalidSession) {
		t.Fatalf("err = %v, want ErrInvalidSession", err)
	}

	in := reserveReq("10:30 AM")
	in.Date = "2025-03-20"
	_, err = Reserve(context.Background(), db, nil, userID, "devotee@example.org", in, time.Date(2025, time.March, 20, 9, 0, 0, 0, calendar.IST))
	if !errors.Is(err, calendar.ErrOutOfSeason) {
		t.Fatalf("err = %v, want ErrOutOfSeason", err)
	}
}

func TestReserveDuplicateRejected(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db, "devotee@example.org")
	if _, err := Reserve(context.Background(), db, nil, userID, "devotee@example.org", reserveReq("10:30 AM"), morningNow()); err != nil {
		t.Fatal(err)
	}
	_, err := Reserve(context.Background(), db, nil, userID, "devotee@example.org", reserveReq("10:30 AM"), morningNow())
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestReserveRejectsBlockedSession(t *testing.T) {
	db := openTestDB(t)
	admin := seedUser(t, db, "admin@example.org")
	if _, err := SaveBlocked(context.Background(), db, nil, admin, []BlockedSession{{Date: testDate, Session: "10:30 AM"}}); err != nil {
		t.Fatal(err)
	}

	userID := seedUser(t, db, "devotee@example.org")
	_, err := Reserve(context.Background(), db, nil, userID, "devotee@example.org", reserveReq("10:30 AM"), morningNow())
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("err = %v, want ErrBlocked", err)
	}
	// The other session on the same date is unaffected.
	if _, err := Reserve(context.Background(), db, nil, userID, "devotee@example.org", reserveReq("6:30 PM"), morningNow()); err != nil {
		t.Fatalf("unblocked session reserve: %v", err)
	}
}

func TestDecodeBlockedLegacyAndObjectEntries(t *testing.T) {
	blocked, err := decodeBlocked(`["2025-11-20", {"date":"2025-11-21","session":"6:30 PM"}, {"date":"2025-11-20","session":"10:30 AM"}]`)
	if err != nil {
		t.Fatal(err)
	}
	// The bare date expands to both sessions; the duplicate object entry
	// collapses into it.
	want := []BlockedSession{
		{Date: "2025-11-20", Session: "10:30 AM"},
		{Date: "2025-11-20", Session: "6:30 PM"},
		{Date: "2025-11-21", Session: "6:30 PM"},
	}
	if len(blocked) != len(want) {
		t.Fatalf("blocked = %v, want %v", blocked, want)
	}
	for i := range want {
		if blocked[i] != want[i] {
			t.Fatalf("blocked[%d] = %v, want %v", i, blocked[i], want[i])
		}
	}

	if got, err := decodeBlocked(""); err != nil || len(got) != 0 {
		t.Fatalf("empty registry = %v, %v", got, err)
	}
	if _, err := decodeBlocked("not json"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSaveBlockedRoundTrips(t *testing.T) {
	db := openTestDB(t)
	admin := seedUser(t, db, "admin@example.org")

	saved, err := SaveBlocked(context.Background(), db, nil, admin, []BlockedSession{
		{Date: "2025-11-22", Session: "6:30 PM"},
		{Date: "2025-11-21", Session: "10:30 AM"},
		{Date: "2025-11-21", Session: "10:30 AM"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 2 || saved[0].Date != "2025-11-21" {
		t.Fatalf("saved = %v", saved)
	}

	loaded, err := LoadBlocked(context.Background(), db)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded = %v", loaded)
	}

	// Replacing shrinks the registry.
	saved, err = SaveBlocked(context.Background(), db, nil, admin, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 0 {
		t.Fatalf("saved after clear = %v", saved)
	}
}

func TestLookupPassRequiresIDAndToken(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db, "devotee@example.org")
	booking, err := Reserve(context.Background(), db, nil, userID, "devotee@example.org", reserveReq("10:30 AM"), morningNow())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := LookupPass(context.Background(), db, booking.ID, booking.QRToken); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, err := LookupPass(context.Background(), db, booking.ID, "wrong"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("wrong token err = %v, want ErrNotFound", err)
	}
	if _, err := LookupPass(context.Background(), db, booking.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("id alone err = %v, want ErrNotFound", err)
	}
}

func TestMarkAttendedExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db, "devotee@example.org")
	admin := seedUser(t, db, "admin@example.org")
	booking, err := Reserve(context.Background(), db, nil, userID, "devotee@example.org", reserveReq("10:30 AM"), morningNow())
	if err != nil {
		t.Fatal(err)
	}

	first := time.Date(2025, time.November, 20, 10, 35, 0, 0, calendar.IST)
	view, err := MarkAttended(context.Background(), db, nil, admin, booking.ID, booking.QRToken, first)
	if err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if view.AttendedAt == nil {
		t.Fatal("attended_at not set")
	}

	_, err = MarkAttended(context.Background(), db, nil, admin, booking.ID, booking.QRToken, first.Add(time.Minute))
	if !errors.Is(err, ErrAlreadyMarked) {
		t.Fatalf("second mark err = %v, want ErrAlreadyMarked", err)
	}
	_, err = MarkAttended(context.Background(), db, nil, admin, booking.ID, "wrong", first)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("wrong token err = %v, want ErrNotFound", err)
	}
}
