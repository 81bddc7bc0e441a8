package hub

// Tracker maps each connection id to its current room, enforcing the
// exclusive-membership invariant: a connection is in at most one room.
// Like Registry, it is guarded by the Coordinator's mutex.
type Tracker struct {
	current map[string]string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{current: make(map[string]string)}
}

// Room returns the connection's current room, if it has one.
func (t *Tracker) Room(connID string) (string, bool) {
	room, ok := t.current[connID]
	return room, ok
}

// Set records the connection's current room, superseding any previous edge.
func (t *Tracker) Set(connID, room string) {
	t.current[connID] = room
}

// Clear removes the connection's membership edge.
func (t *Tracker) Clear(connID string) {
	delete(t.current, connID)
}

// Len returns the number of tracked connections.
func (t *Tracker) Len() int {
	return len(t.current)
}
