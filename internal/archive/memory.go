package archive

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Vinay400/chat-buddy/internal/models"
)

// MemoryArchive is an in-process archive used in development and tests.
// It applies the same retention horizon as the Redis backend.
type MemoryArchive struct {
	mu    sync.Mutex
	rooms map[string][]models.Message
	now   func() time.Time
}

// NewMemoryArchive creates an empty in-memory archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{
		rooms: make(map[string][]models.Message),
		now:   time.Now,
	}
}

// Close is a no-op for the in-memory archive.
func (a *MemoryArchive) Close() error { return nil }

// Ping is a no-op for the in-memory archive.
func (a *MemoryArchive) Ping(ctx context.Context) error { return nil }

// Append stores a message, pruning entries past the retention horizon.
func (a *MemoryArchive) Append(ctx context.Context, msg *models.Message) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if msg.ID == "" {
		msg.ID = ulid.Make().String()
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = a.now().UnixMilli()
	}

	a.rooms[msg.Room] = a.prune(append(a.rooms[msg.Room], *msg))
	return nil
}

// Recent returns the room's messages with timestamp >= since, ascending.
func (a *MemoryArchive) Recent(ctx context.Context, room string, since time.Time) ([]models.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sinceMs := since.UnixMilli()
	var out []models.Message
	if cur, ok := a.rooms[room]; ok {
		cur = a.prune(cur)
		a.rooms[room] = cur
		for _, msg := range cur {
			if msg.Timestamp >= sinceMs {
				out = append(out, msg)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

// prune drops messages past the retention horizon.
func (a *MemoryArchive) prune(msgs []models.Message) []models.Message {
	horizon := a.now().Add(-Retention).UnixMilli()
	kept := msgs[:0]
	for _, msg := range msgs {
		if msg.Timestamp >= horizon {
			kept = append(kept, msg)
		}
	}
	return kept
}
