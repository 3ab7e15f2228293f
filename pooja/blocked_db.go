package pooja

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/uptrace/bun"

	"sevabook/calendar"
	"sevabook/infrastructure/audit"
	"sevabook/infrastructure/sqlite"
	"sevabook/models"
)

const blockedConfigKey = "pooja_blocked_dates"

// decodeBlocked parses the stored registry value. Two encodings are live: an
// object entry {date, session}, and the legacy bare date string which blocks
// both sessions. The result is deduplicated and sorted.
func decodeBlocked(value string) ([]BlockedSession, error) {
	if value == "" {
		return []BlockedSession{}, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("decode blocked registry: %w", err)
	}
	seen := make(map[BlockedSession]struct{})
	for _, entry := range raw {
		var dateOnly string
		if err := json.Unmarshal(entry, &dateOnly); err == nil {
			for _, session := range calendar.PoojaSessions {
				seen[BlockedSession{Date: dateOnly, Session: session}] = struct{}{}
			}
			continue
		}
		var b BlockedSession
		if err := json.Unmarshal(entry, &b); err != nil {
			return nil, fmt.Errorf("decode blocked entry %s: %w", entry, err)
		}
		seen[b] = struct{}{}
	}
	out := make([]BlockedSession, 0, len(seen))
	for b := range seen {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Session < out[j].Session
	})
	return out, nil
}

// LoadBlocked returns the blocked-sessions registry. A missing config row is
// an empty registry.
func LoadBlocked(ctx context.Context, db *sqlite.DB) ([]BlockedSession, error) {
	var row models.AdminConfig
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&row).Where("key = ?", blockedConfigKey).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return []BlockedSession{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load blocked registry: %w", err)
	}
	return decodeBlocked(row.Value)
}

// SaveBlocked replaces the registry. The write is audited.
func SaveBlocked(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, adminUserID int64, blocked []BlockedSession) ([]BlockedSession, error) {
	// Normalize through the decoder so storage holds one canonical shape.
	encoded, err := json.Marshal(blocked)
	if err != nil {
		return nil, fmt.Errorf("encode blocked registry: %w", err)
	}
	canonical, err := decodeBlocked(string(encoded))
	if err != nil {
		return nil, err
	}
	value, err := json.Marshal(canonical)
	if err != nil {
		return nil, fmt.Errorf("encode blocked registry: %w", err)
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before models.AdminConfig
		selErr := tx.NewSelect().Model(&before).Where("key = ?", blockedConfigKey).Limit(1).Scan(ctx)
		if selErr != nil && !errors.Is(selErr, sql.ErrNoRows) {
			return selErr
		}
		row := models.AdminConfig{Key: blockedConfigKey, Value: string(value), UpdatedAt: time.Now()}
		if _, err := tx.NewInsert().
			Model(&row).
			On("CONFLICT (key) DO UPDATE").
			Set("value = EXCLUDED.value").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx); err != nil {
			return err
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, adminUserID, "pooja.blocked.update", "admin_config", blockedConfigKey, before.Value, row.Value)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save blocked registry: %w", err)
	}
	return canonical, nil
}

func isBlocked(blocked []BlockedSession, date, session string) bool {
	for _, b := range blocked {
		if b.Date == date && b.Session == session {
			return true
		}
	}
	return false
}
