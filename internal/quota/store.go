package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Decision is the outcome of a daily quota check. The store is authoritative;
// the gateway never second-guesses it.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Store checks and consumes the per-user daily allowance. The check must be
// atomic: read-and-increment happens in one round trip, with all locking
// delegated to the store.
type Store interface {
	Check(ctx context.Context, userID string, limit int) (Decision, error)
}

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// Check atomically increments the user's counter for the current UTC day if
// it is under the limit. The conditional upsert either returns the new count
// (allowed) or no row (denied).
func (s *PGStore) Check(ctx context.Context, userID string, limit int) (Decision, error) {
	resetAt := nextUTCMidnight(time.Now())

	var used int
	err := s.db.QueryRow(ctx, `
		INSERT INTO ai_usage (user_id, day, used)
		VALUES ($1, CURRENT_DATE, 1)
		ON CONFLICT (user_id, day)
		DO UPDATE SET used = ai_usage.used + 1, updated_at = NOW()
		WHERE ai_usage.used < $2
		RETURNING used
	`, userID, limit).Scan(&used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Decision{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
		}
		return Decision{}, fmt.Errorf("quota check for user %s: %w", userID, err)
	}

	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Remaining: remaining, ResetAt: resetAt}, nil
}

func nextUTCMidnight(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
}
