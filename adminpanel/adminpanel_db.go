package adminpanel

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"sevabook/infrastructure/audit"
	"sevabook/infrastructure/sqlite"
	"sevabook/models"
)

// ListAnnadanam returns bookings for a date, newest first. Session "all"
// matches every session.
func ListAnnadanam(ctx context.Context, db *sqlite.DB, date, session string) ([]models.AnnadanamBooking, error) {
	rows := make([]models.AnnadanamBooking, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().Model(&rows).
			Where("date = ?", date).
			OrderExpr("created_at DESC")
		if session != "" && session != "all" {
			q = q.Where("session = ?", session)
		}
		return q.Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list annadanam bookings: %w", err)
	}
	return rows, nil
}

func ListPooja(ctx context.Context, db *sqlite.DB, date, session string) ([]models.PoojaBooking, error) {
	rows := make([]models.PoojaBooking, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().Model(&rows).
			Where("date = ?", date).
			OrderExpr("created_at DESC")
		if session != "" && session != "all" {
			q = q.Where("session = ?", session)
		}
		return q.Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list pooja bookings: %w", err)
	}
	return rows, nil
}

// LoadExport assembles the full snapshot for [start, end]. Booking tables
// filter on the booking date; timestamped tables on created_at inside
// [start 00:00:00Z, end 23:59:59Z].
func LoadExport(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, adminUserID int64, start, end string) (ExportPayload, error) {
	startTS, err := time.Parse("2006-01-02", start)
	if err != nil {
		return ExportPayload{}, fmt.Errorf("parse start: %w", err)
	}
	endTS, err := time.Parse("2006-01-02", end)
	if err != nil {
		return ExportPayload{}, fmt.Errorf("parse end: %w", err)
	}
	endTS = endTS.Add(24*time.Hour - time.Second)

	payload := ExportPayload{
		ExportedAt:        time.Now().UTC(),
		DateRange:         [2]string{start, end},
		Users:             make([]UserRow, 0),
		Profiles:          make([]ProfileRow, 0),
		PoojaBookings:     make([]models.PoojaBooking, 0),
		AnnadanamBookings: make([]models.AnnadanamBooking, 0),
		Donations:         make([]models.Donation, 0),
		ContactMessages:   make([]models.ContactMessage, 0),
		VolunteerBookings: make([]models.VolunteerBooking, 0),
	}

	err = db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewRaw(`
SELECT id, email, name, created_at
FROM users
WHERE created_at BETWEEN ? AND ?
ORDER BY id`, startTS, endTS).Scan(ctx, &payload.Users); err != nil {
			return err
		}
		if err := tx.NewRaw(`
SELECT pf.user_id, COALESCE(pf.phone, '') AS phone,
       COALESCE(pf.aadhaar_number, '') AS aadhaar_number,
       COALESCE(pf.pan_number, '') AS pan_number
FROM profiles pf
JOIN users u ON u.id = pf.user_id
WHERE u.created_at BETWEEN ? AND ?
ORDER BY pf.user_id`, startTS, endTS).Scan(ctx, &payload.Profiles); err != nil {
			return err
		}
		if err := tx.NewSelect().Model(&payload.AnnadanamBookings).
			Where("date BETWEEN ? AND ?", start, end).
			OrderExpr("date ASC, created_at ASC").
			Scan(ctx); err != nil {
			return err
		}
		if err := tx.NewSelect().Model(&payload.PoojaBookings).
			Where("date BETWEEN ? AND ?", start, end).
			OrderExpr("date ASC, created_at ASC").
			Scan(ctx); err != nil {
			return err
		}
		if err := tx.NewSelect().Model(&payload.VolunteerBookings).
			Where("date BETWEEN ? AND ?", start, end).
			OrderExpr("date ASC, created_at ASC").
			Scan(ctx); err != nil {
			return err
		}
		if err := tx.NewSelect().Model(&payload.Donations).
			Where("created_at BETWEEN ? AND ?", startTS, endTS).
			OrderExpr("created_at ASC").
			Scan(ctx); err != nil {
			return err
		}
		return tx.NewSelect().Model(&payload.ContactMessages).
			Where("created_at BETWEEN ? AND ?", startTS, endTS).
			OrderExpr("created_at ASC").
			Scan(ctx)
	})
	if err != nil {
		return ExportPayload{}, fmt.Errorf("load export: %w", err)
	}

	if auditSvc != nil {
		err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
			return auditSvc.Write(ctx, tx, adminUserID, "admin.export", "export", start+".."+end, nil, map[string]any{
				"users":              len(payload.Users),
				"annadanam_bookings": len(payload.AnnadanamBookings),
				"pooja_bookings":     len(payload.PoojaBookings),
				"volunteer_bookings": len(payload.VolunteerBookings),
				"donations":          len(payload.Donations),
				"contact_messages":   len(payload.ContactMessages),
			})
		})
		if err != nil {
			return ExportPayload{}, fmt.Errorf("audit export: %w", err)
		}
	}
	return payload, nil
}
