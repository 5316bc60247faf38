package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/require"
)

// fakeDB is an in-memory DBClient.
type fakeDB struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*db.User
	language string
	logs     []types.ClientLogEntry

	failLanguage error
	failLogs     error
}

func newFakeDB() *fakeDB {
	return &fakeDB{users: make(map[uuid.UUID]*db.User)}
}

func (f *fakeDB) findByEmail(email string) *db.User {
	email = db.NormalizeEmail(email)
	for _, u := range f.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (f *fakeDB) CheckEmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findByEmail(email) != nil, nil
}

func (f *fakeDB) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findByEmail(email) != nil {
		return uuid.Nil, db.ErrEmailTaken
	}
	u := &db.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        db.NormalizeEmail(email),
		PasswordHash: passwordHash,
		PasswordSet:  passwordHash != "",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	return u.ID, nil
}

func (f *fakeDB) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u := f.findByEmail(email); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeDB) UpsertGoogleUser(_ context.Context, email, name, picture string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.findByEmail(email)
	if u == nil {
		u = &db.User{ID: uuid.New(), Email: db.NormalizeEmail(email), CreatedAt: time.Now()}
		f.users[u.ID] = u
	}
	u.Name = name
	u.Picture = picture
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (f *fakeDB) GetLanguage(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLanguage != nil {
		return "", f.failLanguage
	}
	if f.language == "" {
		return db.DefaultLanguage, nil
	}
	return f.language, nil
}

func (f *fakeDB) SetLanguage(_ context.Context, language string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLanguage != nil {
		return f.failLanguage
	}
	f.language = language
	return nil
}

func (f *fakeDB) InsertClientLog(_ context.Context, entry types.ClientLogEntry) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLogs != nil {
		return uuid.Nil, f.failLogs
	}
	f.logs = append(f.logs, entry)
	return uuid.New(), nil
}

// fakeLLM returns canned text or an error and records prompts.
type fakeLLM struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
	models  []string
}

func (f *fakeLLM) GenerateText(_ context.Context, prompt, model string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.models = append(f.models, model)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeLLM) Close() error { return nil }

var _ llm.Client = (*fakeLLM)(nil)

// fakeVerifier accepts a fixed set of credentials.
type fakeVerifier map[string]*GoogleProfile

func (v fakeVerifier) Verify(_ context.Context, credential string) (*GoogleProfile, error) {
	if p, ok := v[credential]; ok {
		return p, nil
	}
	return nil, &ErrInvalidGoogleToken{Err: errors.New("unknown credential")}
}

func testOptions(database DBClient, client llm.Client) Options {
	return Options{
		DB:  database,
		LLM: client,
		Verifier: fakeVerifier{
			"good-credential": {Email: "Ada@Example.com", Name: "Ada Lovelace", Picture: "https://example.com/ada.png"},
		},
		Passwords: &config.PasswordConfig{BcryptCost: config.MinBcryptCost},
		JWT:       &config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 1},
		RateLimit: &ratelimit.Config{Enabled: false},
	}
}

func newTestServer(t *testing.T, database DBClient, client llm.Client) *Server {
	t.Helper()
	return newTestServerWithOptions(t, testOptions(database, client))
}

func newTestServerWithOptions(t *testing.T, opts Options) *Server {
	t.Helper()
	s, err := NewWithOptions(&config.Config{Port: config.DefaultPort, CORSOrigin: config.DefaultCORSOrigin}, opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}
