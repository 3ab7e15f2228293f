package pooja

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
	ErrBlocked       = errors.New("session is blocked on this date")
	ErrNotFound      = errors.New("pass not found")
	ErrAlreadyMarked = errors.New("attendance already marked")
)

func newQRToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate qr token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Reserve books a pooja. Pooja sessions carry no capacity counter; the gates
// are the season window, the session-start cutoff, the blocked registry and
// the one-per-(user, date, session) duplicate rule.
func Reserve(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, email string, in ReserveRequest, now time.Time) (models.PoojaBooking, error) {
	if !calendar.IsPoojaSession(in.Session) {
		return models.PoojaBooking{}, calendar.ErrInvalidSession
	}
	n := now.In(calendar.IST)
	if !calendar.InSeason(in.Date, n) {
		return models.PoojaBooking{}, calendar.ErrOutOfSeason
	}
	start, err := calendar.SessionStart(in.Date, in.Session)
	if err != nil || !n.Before(start) {
		return models.PoojaBooking{}, calendar.ErrWindowClosed
	}

	token, err := newQRToken()
	if err != nil {
		return models.PoojaBooking{}, err
	}
	booking := models.PoojaBooking{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		Date:       in.Date,
		Session:    in.Session,
		UserID:     userID,
		Name:       in.Name,
		Email:      email,
		Phone:      in.Phone,
		Nakshatram: in.Nakshatram,
		Gothram:    in.Gothram,
		Status:     "confirmed",
		QRToken:    token,
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var cfg models.AdminConfig
		selErr := tx.NewSelect().Model(&cfg).Where("key = ?", blockedConfigKey).Limit(1).Scan(ctx)
		if selErr != nil && !errors.Is(selErr, sql.ErrNoRows) {
			return selErr
		}
		if selErr == nil {
			blocked, decErr := decodeBlocked(cfg.Value)
			if decErr != nil {
				return decErr
			}
			if isBlocked(blocked, in.Date, in.Session) {
				return ErrBlocked
			}
		}

		exists, err := tx.NewSelect().
			Model((*models.PoojaBooking)(nil)).
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
			return auditSvc.Write(ctx, tx, userID, "pooja.reserve", "pooja_bookings", booking.ID, nil, booking)
		}
		return nil
	})
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && errors.Is(sqliteErr.ExtendedCode, sqlite3.ErrConstraintUnique) {
			return models.PoojaBooking{}, ErrDuplicate
		}
		return models.PoojaBooking{}, err
	}
	return booking, nil
}

// LookupPass retrieves a booking by id and token together. Either alone is
// not found.
func LookupPass(ctx context.Context, db *sqlite.DB, id, token string) (PassView, error) {
	if id == "" || token == "" {
		return PassView{}, ErrNotFound
	}
	var b models.PoojaBooking
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&b).
			Where("id = ?", id).
			Where("qr_token = ?", token).
			Limit(1).
			Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return PassView{}, ErrNotFound
	}
	if err != nil {
		return PassView{}, fmt.Errorf("lookup pooja pass: %w", err)
	}
	return passView(b), nil
}

// MarkAttended is check-and-set on (id, token): attended_at transitions from
// NULL exactly once.
func MarkAttended(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, adminUserID int64, id, token string, now time.Time) (PassView, error) {
	if id == "" || token == "" {
		return PassView{}, ErrNotFound
	}
	var b models.PoojaBooking
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewRaw(`
UPDATE pooja_bookings
SET attended_at = ?
WHERE id = ? AND qr_token = ? AND attended_at IS NULL AND status = 'confirmed'`, now, id, token).Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if err := tx.NewSelect().Model(&b).
			Where("id = ?", id).
			Where("qr_token = ?", token).
			Limit(1).
			Scan(ctx); err != nil {
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
			return auditSvc.Write(ctx, tx, adminUserID, "pooja.attend", "pooja_bookings", b.ID, nil, b)
		}
		return nil
	})
	if err != nil {
		return passView(b), err
	}
	return passView(b), nil
}

func passView(b models.PoojaBooking) PassView {
	return PassView{
		ID:         b.ID,
		Name:       b.Name,
		Email:      b.Email,
		Phone:      b.Phone,
		Date:       b.Date,
		Session:    b.Session,
		Nakshatram: b.Nakshatram,
		Gothram:    b.Gothram,
		Status:     b.Status,
		AttendedAt: b.AttendedAt,
	}
}
