package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Vinay400/chat-buddy/internal/models"
)

// ErrUserExists is returned when registering a username that is already taken.
var ErrUserExists = errors.New("username already exists")

// UserStore defines the interface for persistent storage of user accounts.
// Both PostgresStore and SQLiteStore implement this interface.
type UserStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// User operations
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}
