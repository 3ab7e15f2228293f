package volunteer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"sevabook/infrastructure/audit"
	"sevabook/infrastructure/sqlite"
	"sevabook/models"
)

// Signup records a volunteer sign-up. Multiple sign-ups per user are allowed;
// volunteering carries no capacity or duplicate rules.
func Signup(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, email string, in SignupRequest, now time.Time) (models.VolunteerBooking, error) {
	booking := models.VolunteerBooking{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Date:      in.Date,
		Session:   in.Session,
		Role:      in.Role,
		Note:      in.Note,
		UserID:    userID,
		Name:      in.Name,
		Email:     email,
		Phone:     in.Phone,
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&booking).Exec(ctx); err != nil {
			return err
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, userID, "volunteer.signup", "volunteer_bookings", booking.ID, nil, booking)
		}
		return nil
	})
	if err != nil {
		return models.VolunteerBooking{}, fmt.Errorf("save volunteer signup: %w", err)
	}
	return booking, nil
}

// List returns sign-ups matching the filter, newest first. Empty or "all"
// filter fields match everything.
func List(ctx context.Context, db *sqlite.DB, filter ListFilter) ([]BookingRow, error) {
	rows := make([]BookingRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().
			Model((*models.VolunteerBooking)(nil)).
			Column("id", "created_at", "date", "session", "role", "note", "name", "email", "phone").
			OrderExpr("created_at DESC")
		if filter.StartDate != "" {
			q = q.Where("date >= ?", filter.StartDate)
		}
		if filter.EndDate != "" {
			q = q.Where("date <= ?", filter.EndDate)
		}
		if filter.Session != "" && filter.Session != "all" {
			q = q.Where("session = ?", filter.Session)
		}
		return q.Scan(ctx, &rows)
	})
	if err != nil {
		return nil, fmt.Errorf("list volunteer signups: %w", err)
	}
	return rows, nil
}
