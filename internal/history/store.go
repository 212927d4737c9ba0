package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/code-yaar/assistant-gateway/internal/types"
)

// Record is one persisted interaction: the audit row the chat-history screens
// read. Blocked requests are recorded with a redacted payload.
type Record struct {
	UserID   string
	Title    string
	Language string
	Model    string
	Messages []types.Message
}

// Store appends interaction records. The history itself is owned by the
// course platform; the gateway only writes.
type Store interface {
	Record(ctx context.Context, rec Record) error
}

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Record(ctx context.Context, rec Record) error {
	messages, err := json.Marshal(rec.Messages)
	if err != nil {
		return fmt.Errorf("marshal interaction messages: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO interactions (id, user_id, title, language, model, messages, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.NewString(), rec.UserID, rec.Title, rec.Language, rec.Model, messages, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}
