package annadanam

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"

	"sevabook/calendar"
	"sevabook/infrastructure/audit"
	"sevabook/infrastructure/sqlite"
	"sevabook/models"
)

var (
	ErrDuplicate     = errors.New("already booked for this session")
	ErrCapacity      = errors.New("slot full or closed")
	ErrNotFound      = errors.New("pass not found")
	ErrAlreadyMarked = errors.New("attendance already marked")
)

// newQRToken returns a 48-hex-char opaque credential. The token, not the
// booking id, is what authorizes pass lookup and attendance marking.
func newQRToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate qr token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// LoadSlots aggregates the availability snapshot for a date in one read
// transaction. Every catalog session appears exactly once.
func LoadSlots(ctx context.Context, db *sqlite.DB, date string) ([]SlotView, error) {
	type slotRow struct {
		Session  string `bun:"session"`
		Capacity int64  `bun:"capacity"`
		Status   string `bun:"status"`
	}
	type countRow struct {
		Session string `bun:"session"`
		Booked  int64  `bun:"booked"`
	}
	var slotRows []slotRow
	var countRows []countRow

	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewRaw(`
SELECT session, capacity, status
FROM annadanam_slots
WHERE date = ?`, date).Scan(ctx, &slotRows); err != nil {
			return err
		}
		return tx.NewRaw(`
SELECT session, COALESCE(SUM(qty), 0) AS booked
FROM annadanam_bookings
WHERE date = ? AND status = 'confirmed'
GROUP BY session`, date).Scan(ctx, &countRows)
	})
	if err != nil {
		return nil, fmt.Errorf("load slots for %s: %w", date, err)
	}

	stored := make(map[string]slotRow, len(slotRows))
	for _, row := range slotRows {
		stored[row.Session] = row
	}
	booked := make(map[string]int64, len(countRows))
	for _, row := range countRows {
		booked[row.Session] = row.Booked
	}

	sessions := calendar.AnnadanamSessions()
	out := make([]SlotView, 0, len(sessions))
	for _, session := range sessions {
		view := SlotView{
			Date:        date,
			Session:     session,
			Capacity:    DefaultCapacity,
			BookedCount: booked[session],
			Status:      "open",
		}
		if row, ok := stored[session]; ok {
			view.Capacity = row.Capacity
			view.Status = row.Status
		}
		out = append(out, view)
	}
	return out, nil
}

// Reserve runs the whole reservation procedure in one write transaction:
// window re-check, slot status, per-session capacity, group ceiling, duplicate
// guard, then the insert. The partial unique index on
// (user_id, date, session) WHERE status='confirmed' backstops the duplicate
// check against concurrent submissions.
func Reserve(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, email string, in ReserveRequest, now time.Time) (models.AnnadanamBooking, error) {
	if err := calendar.BookableNow(in.Session, in.Date, now); err != nil {
		return models.AnnadanamBooking{}, err
	}
	period, _ := calendar.SessionPeriod(in.Session)
	groupSessions := calendar.AfternoonSessions
	if period == calendar.PeriodEvening {
		groupSessions = calendar.EveningSessions
	}

	token, err := newQRToken()
	if err != nil {
		return models.AnnadanamBooking{}, err
	}
	booking := models.AnnadanamBooking{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Date:      in.Date,
		Session:   in.Session,
		UserID:    userID,
		Name:      in.Name,
		Email:     email,
		Phone:     in.Phone,
		Qty:       1,
		Status:    "confirmed",
		QRToken:   token,
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		capacity := int64(DefaultCapacity)
		status := "open"
		var slot models.AnnadanamSlot
		err := tx.NewSelect().Model(&slot).
			Where("date = ?", in.Date).
			Where("session = ?", in.Session).
			Limit(1).
			Scan(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err == nil {
			capacity = slot.Capacity
			status = slot.Status
		}
		if status != "open" {
			return ErrCapacity
		}

		var sessionCount int64
		if err := tx.NewRaw(`
SELECT COALESCE(SUM(qty), 0)
FROM annadanam_bookings
WHERE date = ? AND session = ? AND status = 'confirmed'`, in.Date, in.Session).Scan(ctx, &sessionCount); err != nil {
			return err
		}
		if sessionCount+booking.Qty > capacity {
			return ErrCapacity
		}

		var groupCount int64
		if err := tx.NewRaw(`
SELECT COALESCE(SUM(qty), 0)
FROM annadanam_bookings
WHERE date = ? AND session IN (?) AND status = 'confirmed'`, in.Date, bun.In(groupSessions)).Scan(ctx, &groupCount); err != nil {
			return err
		}
		if groupCount+booking.Qty > GroupCeiling {
			return ErrCapacity
		}

		exists, err := tx.NewSelect().
			Model((*models.AnnadanamBooking)(nil)).
			Where("user_id = ?", userID).
			Where("date = ?", in.Date).
			Where("session = ?", in.Session).
			Where("status = 'confirmed'").
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicate
		}

		if _, err := tx.NewInsert().Model(&booking).Exec(ctx); err != nil {
			return err
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, userID, "annadanam.reserve", "annadanam_bookings", booking.ID, nil, booking)
		}
		return nil
	})
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && errors.Is(sqliteErr.ExtendedCode, sqlite3.ErrConstraintUnique) {
			return models.AnnadanamBooking{}, ErrDuplicate
		}
		return models.AnnadanamBooking{}, err
	}
	return booking, nil
}

// LookupPass retrieves a booking by its QR token. The id alone retrieves
// nothing; a valid id with the wrong token is still not found.
func LookupPass(ctx context.Context, db *sqlite.DB, token string) (PassView, error) {
	if token == "" {
		return PassView{}, ErrNotFound
	}
	var b models.AnnadanamBooking
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&b).Where("qr_token = ?", token).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return PassView{}, ErrNotFound
	}
	if err != nil {
		return PassView{}, fmt.Errorf("lookup pass: %w", err)
	}
	return passView(b), nil
}

// MarkAttended is check-and-set: attended_at transitions from NULL exactly
// once. A second scan of the same pass reports already marked.
func MarkAttended(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, adminUserID int64, token string, now time.Time) (PassView, error) {
	if token == "" {
		return PassView{}, ErrNotFound
	}
	var b models.AnnadanamBooking
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewRaw(`
UPDATE annadanam_bookings
SET attended_at = ?
WHERE qr_token = ? AND attended_at IS NULL AND status = 'confirmed'`, now, token).Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if err := tx.NewSelect().Model(&b).Where("qr_token = ?", token).Limit(1).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if affected == 0 {
			if b.AttendedAt != nil {
				return ErrAlreadyMarked
			}
			return ErrNotFound
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, adminUserID, "annadanam.attend", "annadanam_bookings", b.ID, nil, b)
		}
		return nil
	})
	if err != nil {
		return passView(b), err
	}
	return passView(b), nil
}

func passView(b models.AnnadanamBooking) PassView {
	return PassView{
		ID:         b.ID,
		Name:       b.Name,
		Email:      b.Email,
		Phone:      b.Phone,
		Date:       b.Date,
		Session:    b.Session,
		Qty:        b.Qty,
		Status:     b.Status,
		AttendedAt: b.AttendedAt,
	}
}
