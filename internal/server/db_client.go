package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/types"
)

// DBClient is the subset of *db.DB the HTTP handlers use.
type DBClient interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	UpsertGoogleUser(ctx context.Context, email, name, picture string) (*db.User, error)

	GetLanguage(ctx context.Context) (string, error)
	SetLanguage(ctx context.Context, language string) error

	InsertClientLog(ctx context.Context, entry types.ClientLogEntry) (uuid.UUID, error)
}

var _ DBClient = (*db.DB)(nil)
