package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DefaultLanguage is returned before any preference has been saved.
const DefaultLanguage = "en"

// globalSettingsID is the single settings document shared by all clients.
const globalSettingsID = "global"

// Settings is the application settings document.
type Settings struct {
	Language string `json:"language"`
}

// GetSettings loads the settings document, returning defaults when absent.
func (db *DB) GetSettings(ctx context.Context) (*Settings, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx, `SELECT doc FROM settings WHERE id = $1`, globalSettingsID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &Settings{Language: DefaultLanguage}, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	s := &Settings{}
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	return s, nil
}

// GetLanguage returns the saved language preference.
func (db *DB) GetLanguage(ctx context.Context) (string, error) {
	s, err := db.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	return s.Language, nil
}

// SetLanguage merges the language into the settings document.
func (db *DB) SetLanguage(ctx context.Context, language string) error {
	patch, err := json.Marshal(Settings{Language: language})
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO settings (id, doc) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET doc = settings.doc || EXCLUDED.doc, updated_at = NOW()`,
		globalSettingsID, patch,
	)
	if err != nil {
		return fmt.Errorf("failed to save language: %w", err)
	}
	return nil
}
