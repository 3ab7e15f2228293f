package login

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"

	"sevabook/infrastructure/argon"
	"sevabook/infrastructure/sqlite"
	"sevabook/models"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
)

// CreateAccount registers a new devotee account with an argon2id hash.
func CreateAccount(ctx context.Context, db *sqlite.DB, email, name, password string, now time.Time) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := argon.CreateHash(password, argon.DefaultParams)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&user).Exec(ctx)
		return err
	})
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && errors.Is(sqliteErr.ExtendedCode, sqlite3.ErrConstraintUnique) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("create account: %w", err)
	}
	return user, nil
}

// Authenticate verifies credentials and returns the account. Unknown email
// and wrong password are indistinguishable to the caller.
func Authenticate(ctx context.Context, db *sqlite.DB, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&user).Where("email = ?", email).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrBadCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load account: %w", err)
	}
	match, err := argon.ComparePasswordAndHash(password, user.PasswordHash)
	if err != nil {
		return models.User{}, fmt.Errorf("compare password: %w", err)
	}
	if !match {
		return models.User{}, ErrBadCredentials
	}
	return user, nil
}
