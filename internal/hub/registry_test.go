package hub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryStartsWithDefaultRoom(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()

	req.True(r.Exists(DefaultRoom))
	req.Equal([]string{DefaultRoom}, r.Names())
	req.Equal(1, r.NumRooms())
}

func TestRegistryEnsureCreatesOnce(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()

	req.True(r.Ensure("dev"))
	req.False(r.Ensure("dev"))
	req.Equal([]string{"dev", DefaultRoom}, r.Names())
}

func TestRegistryRemoveDestroysEmptyEphemeralRoom(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	r.Ensure("dev")
	r.Add("dev", "c1")
	r.Add("dev", "c2")

	req.False(r.Remove("dev", "c1"))
	req.True(r.Exists("dev"))

	req.True(r.Remove("dev", "c2"))
	req.False(r.Exists("dev"))
}

func TestRegistryNeverDestroysDefaultRoom(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	r.Add(DefaultRoom, "c1")

	req.False(r.Remove(DefaultRoom, "c1"))
	req.True(r.Exists(DefaultRoom))
	req.Equal(0, r.Size(DefaultRoom))
}

func TestRegistryMembersSorted(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	r.Add(DefaultRoom, "c2")
	r.Add(DefaultRoom, "c1")
	r.Add(DefaultRoom, "c3")

	req.Equal([]string{"c1", "c2", "c3"}, r.Members(DefaultRoom))
}

func TestRegistryRemoveFromUnknownRoom(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()

	req.False(r.Remove("ghost", "c1"))
}

func TestTrackerExclusiveEdge(t *testing.T) {
	req := require.New(t)
	tr := NewTracker()

	_, ok := tr.Room("c1")
	req.False(ok)

	tr.Set("c1", "dev")
	room, ok := tr.Room("c1")
	req.True(ok)
	req.Equal("dev", room)

	// a new join supersedes the previous edge
	tr.Set("c1", "ops")
	room, _ = tr.Room("c1")
	req.Equal("ops", room)
	req.Equal(1, tr.Len())

	tr.Clear("c1")
	_, ok = tr.Room("c1")
	req.False(ok)
	req.Equal(0, tr.Len())
}
