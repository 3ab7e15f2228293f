package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"sevabook/infrastructure/audit"
	"sevabook/infrastructure/sqlite"
	"sevabook/models"
)

// HasIdentityDocument reports whether the user has recorded an Aadhaar or PAN
// reference. No profile row counts as no document.
func HasIdentityDocument(ctx context.Context, db *sqlite.DB, userID int64) (bool, error) {
	var p models.Profile
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&p).Where("user_id = ?", userID).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load profile: %w", err)
	}
	return p.HasIdentityDocument(), nil
}

// Load returns the user's profile joined with the account row.
func Load(ctx context.Context, db *sqlite.DB, userID int64) (ProfileView, error) {
	var view ProfileView
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var user models.User
		if err := tx.NewSelect().Model(&user).Where("id = ?", userID).Limit(1).Scan(ctx); err != nil {
			return err
		}
		view.Email = user.Email
		view.Name = user.Name

		var p models.Profile
		err := tx.NewSelect().Model(&p).Where("user_id = ?", userID).Limit(1).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		view.Phone = p.Phone
		view.AadhaarNumber = p.AadhaarNumber
		view.PANNumber = p.PANNumber
		view.HasIdentity = p.HasIdentityDocument()
		return nil
	})
	if err != nil {
		return ProfileView{}, fmt.Errorf("load profile view: %w", err)
	}
	return view, nil
}

// UpsertIdentity records identity-document references for the user. Empty
// fields in the input leave the stored value untouched.
func UpsertIdentity(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, in IdentityInput) error {
	in.AadhaarNumber = strings.TrimSpace(in.AadhaarNumber)
	in.PANNumber = strings.ToUpper(strings.TrimSpace(in.PANNumber))
	in.Phone = strings.TrimSpace(in.Phone)

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var existing models.Profile
		err := tx.NewSelect().Model(&existing).Where("user_id = ?", userID).Limit(1).Scan(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		if errors.Is(err, sql.ErrNoRows) {
			p := models.Profile{
				UserID:        userID,
				Phone:         in.Phone,
				AadhaarNumber: in.AadhaarNumber,
				PANNumber:     in.PANNumber,
			}
			if _, err := tx.NewInsert().Model(&p).Exec(ctx); err != nil {
				return err
			}
			if auditSvc != nil {
				return auditSvc.Write(ctx, tx, userID, "profile.create", "profiles", fmt.Sprintf("%d", userID), nil, p)
			}
			return nil
		}

		before := existing
		if in.Phone != "" {
			existing.Phone = in.Phone
		}
		if in.AadhaarNumber != "" {
			existing.AadhaarNumber = in.AadhaarNumber
		}
		if in.PANNumber != "" {
			existing.PANNumber = in.PANNumber
		}
		existing.UpdatedAt = time.Now()
		if _, err := tx.NewUpdate().Model(&existing).Where("user_id = ?", userID).Exec(ctx); err != nil {
			return err
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, userID, "profile.update", "profiles", fmt.Sprintf("%d", userID), before, existing)
		}
		return nil
	})
}
