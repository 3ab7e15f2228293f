package outreach

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"sevabook/infrastructure/sqlite"
	"sevabook/models"
)

func SaveDonation(ctx context.Context, db *sqlite.DB, in DonationRequest, now time.Time) (models.Donation, error) {
	d := models.Donation{
		CreatedAt: now,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Amount:    in.Amount,
		Purpose:   in.Purpose,
		Note:      in.Note,
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&d).Exec(ctx)
		return err
	})
	if err != nil {
		return models.Donation{}, fmt.Errorf("save donation: %w", err)
	}
	return d, nil
}

func SaveContactMessage(ctx context.Context, db *sqlite.DB, in ContactRequest, now time.Time) (models.ContactMessage, error) {
	m := models.ContactMessage{
		CreatedAt: now,
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&m).Exec(ctx)
		return err
	})
	if err != nil {
		return models.ContactMessage{}, fmt.Errorf("save contact message: %w", err)
	}
	return m, nil
}
