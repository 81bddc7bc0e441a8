// Package archive provides time-bounded storage of chat messages.
// Records older than the retention horizon are not retrievable.
package archive

import (
	"context"
	"time"

	"github.com/Vinay400/chat-buddy/internal/models"
)

// Retention is how long messages stay readable after being appended.
const Retention = 24 * time.Hour

// Archive is an append-only message store queried by room and time range.
// Both RedisArchive and MemoryArchive implement this interface.
type Archive interface {
	// Append stores a message. The message's ID and Timestamp are
	// assigned if unset.
	Append(ctx context.Context, msg *models.Message) error

	// Recent returns the room's messages with timestamp >= since, in
	// ascending timestamp order. Messages past the retention horizon
	// are not guaranteed to be returned.
	Recent(ctx context.Context, room string, since time.Time) ([]models.Message, error)

	// Connection management
	Ping(ctx context.Context) error
	Close() error
}
