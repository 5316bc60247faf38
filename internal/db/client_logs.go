package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/types"
)

// MaxClientLogField caps stored text fields so a misbehaving client cannot
// write unbounded rows.
const MaxClientLogField = 8 << 10

// InsertClientLog stores one browser error report.
func (db *DB) InsertClientLog(ctx context.Context, entry types.ClientLogEntry) (uuid.UUID, error) {
	contextJSON := []byte("{}")
	if len(entry.Context) > 0 {
		b, err := json.Marshal(entry.Context)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to encode log context: %w", err)
		}
		contextJSON = b
	}

	id := uuid.New()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO client_logs (id, message, stack, url, user_agent, context)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id,
		truncate(entry.Message, MaxClientLogField),
		truncate(entry.Stack, MaxClientLogField),
		truncate(entry.URL, MaxClientLogField),
		truncate(entry.UserAgent, MaxClientLogField),
		contextJSON,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert client log: %w", err)
	}
	return id, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// back up to a rune boundary
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
