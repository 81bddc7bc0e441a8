// Package hub implements the room-membership state machine: every
// connection belongs to exactly one room, rooms are created on first join
// and destroyed on last departure (except the default room), and all
// chat/roster/lifecycle events fan out to the affected room's members.
package hub

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Vinay400/chat-buddy/internal/archive"
	"github.com/Vinay400/chat-buddy/internal/metrics"
	"github.com/Vinay400/chat-buddy/internal/models"
)

// archiveOpTimeout bounds the fire-and-forget archive reads and writes.
const archiveOpTimeout = 5 * time.Second

// Coordinator orchestrates join/leave/delete transitions over the Registry
// and Tracker and fans events out to room members. All room-state mutations
// run under a single mutex, so no observer can see a half-updated roster.
// Archive reads and writes happen in goroutines outside the lock and never
// block or fail a room transition.
type Coordinator struct {
	mu       sync.Mutex
	log      zerolog.Logger
	archive  archive.Archive
	registry *Registry
	tracker  *Tracker
	sessions map[string]Session
}

// NewCoordinator creates a coordinator with an empty default room.
func NewCoordinator(logger zerolog.Logger, arch archive.Archive) *Coordinator {
	return &Coordinator{
		log:      logger,
		archive:  arch,
		registry: NewRegistry(),
		tracker:  NewTracker(),
		sessions: make(map[string]Session),
	}
}

// Connect registers an authenticated session, places it in the default
// room, and broadcasts the updated connection count to everyone.
func (c *Coordinator) Connect(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessions[s.ID()] = s
	metrics.ConnectionsActive.Set(float64(len(c.sessions)))
	c.log.Info().
		Str("conn_id", s.ID()).
		Str("username", s.Username()).
		Msg("client connected")

	c.joinLocked(s, DefaultRoom)
	c.broadcastAllLocked(Event{Name: EventClientTotal, Data: len(c.sessions)})
}

// Disconnect removes the session and its membership edge, destroying the
// vacated room if it became empty, and broadcasts the updated connection
// count. Unknown connection ids are a no-op.
func (c *Coordinator) Disconnect(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[connID]
	if !ok {
		c.log.Debug().Str("conn_id", connID).Msg("disconnect for unknown connection")
		return
	}
	delete(c.sessions, connID)
	metrics.ConnectionsActive.Set(float64(len(c.sessions)))
	c.log.Info().
		Str("conn_id", connID).
		Str("username", s.Username()).
		Msg("client disconnected")

	c.broadcastAllLocked(Event{Name: EventClientTotal, Data: len(c.sessions)})

	if room, placed := c.tracker.Room(connID); placed {
		c.vacateLocked(connID, s.Username(), room)
	}
}

// Join moves the connection into the named room, running the full join
// protocol: leave the previous room, create the target if needed, update
// membership, acknowledge the join, replay history, refresh rosters.
// Unknown connection ids are a no-op.
func (c *Coordinator) Join(connID, room string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[connID]
	if !ok {
		c.log.Debug().Str("conn_id", connID).Str("room", room).Msg("join for unknown connection")
		return
	}
	c.joinLocked(s, room)
}

// DeleteRoom destroys the named room after force-joining every member into
// the default room. Deleting the default room or a nonexistent room is a
// no-op. All clients are notified of the deletion and the new room list.
func (c *Coordinator) DeleteRoom(connID, room string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sessions[connID]; !ok {
		c.log.Debug().Str("conn_id", connID).Str("room", room).Msg("delete-room for unknown connection")
		return
	}
	if room == DefaultRoom {
		c.log.Warn().Str("conn_id", connID).Msg("refusing to delete the default room")
		return
	}
	if !c.registry.Exists(room) {
		c.log.Debug().Str("conn_id", connID).Str("room", room).Msg("delete of nonexistent room")
		return
	}

	// Moving the last member destroys the room via the normal leave path.
	for _, memberID := range c.registry.Members(room) {
		if member, ok := c.sessions[memberID]; ok {
			c.joinLocked(member, DefaultRoom)
		}
	}

	c.log.Info().Str("room", room).Str("requested_by", connID).Msg("room deleted")
	c.broadcastAllLocked(Event{Name: EventRoomDeleted, Data: room})
	c.broadcastAllLocked(Event{Name: EventAvailableRooms, Data: c.registry.Names()})
}

// ListRooms sends the current room list to the requesting connection.
func (c *Coordinator) ListRooms(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[connID]
	if !ok {
		return
	}
	s.Send(Event{Name: EventAvailableRooms, Data: c.registry.Names()})
}

// Chat stamps the message with the sender's username, fans it out to every
// member of the sender's current room, and persists it to the archive in
// the background. Messages from unplaced senders are dropped.
func (c *Coordinator) Chat(connID, content string) {
	c.mu.Lock()

	s, ok := c.sessions[connID]
	if !ok {
		c.mu.Unlock()
		return
	}
	room, placed := c.tracker.Room(connID)
	if !placed {
		c.mu.Unlock()
		metrics.ProtocolViolations.Inc()
		c.log.Warn().Str("conn_id", connID).Msg("chat message from connection not in any room")
		return
	}

	sender := s.Username()
	c.fanoutLocked(room, Event{Name: EventChatMessage, Data: ChatPayload{Sender: sender, Content: content}}, "")
	metrics.MessagesBroadcast.WithLabelValues("chat").Inc()
	c.mu.Unlock()

	// Fire-and-forget persistence: failure is logged, never surfaced.
	msg := &models.Message{
		Room:      room,
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveOpTimeout)
		defer cancel()
		if err := c.archive.Append(ctx, msg); err != nil {
			metrics.ArchiveFailures.WithLabelValues("append").Inc()
			c.log.Error().Err(err).Str("room", msg.Room).Msg("failed to archive message")
		}
	}()
}

// Feedback stamps the payload with the sender's username and fans it out to
// every member of the sender's current room except the sender itself.
// Nothing is persisted. Feedback from unplaced senders is dropped.
func (c *Coordinator) Feedback(connID, payload string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[connID]
	if !ok {
		return
	}
	room, placed := c.tracker.Room(connID)
	if !placed {
		metrics.ProtocolViolations.Inc()
		c.log.Warn().Str("conn_id", connID).Msg("feedback from connection not in any room")
		return
	}

	c.fanoutLocked(room, Event{Name: EventFeedback, Data: FeedbackPayload{Sender: s.Username(), Payload: payload}}, connID)
	metrics.MessagesBroadcast.WithLabelValues("feedback").Inc()
}

// RoomInfo describes one room for external listings.
type RoomInfo struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// Snapshot returns every room with its current roster.
func (c *Coordinator) Snapshot() []RoomInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := c.registry.Names()
	infos := make([]RoomInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, RoomInfo{Name: name, Members: c.rosterLocked(name)})
	}
	return infos
}

// Shutdown closes every live session.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	sessions := make([]Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		sessions = append(sessions, s)
	}
	c.mu.Unlock()

	for _, s := range sessions {
		if err := s.Close(); err != nil {
			c.log.Debug().Err(err).Str("conn_id", s.ID()).Msg("error closing session")
		}
	}
	c.log.Info().Int("sessions", len(sessions)).Msg("coordinator shut down")
}

// joinLocked runs the join protocol for s into room. Re-joining the current
// room skips the membership change but still re-sends the acknowledgment,
// history, roster, and clear directive.
func (c *Coordinator) joinLocked(s Session, room string) {
	connID := s.ID()

	if prev, placed := c.tracker.Room(connID); placed {
		if prev == room {
			c.resyncLocked(s, room)
			return
		}
		c.vacateLocked(connID, s.Username(), prev)
	}

	if c.registry.Ensure(room) {
		metrics.RoomsActive.Set(float64(c.registry.NumRooms()))
		c.log.Info().Str("room", room).Msg("room created")
		c.broadcastAllLocked(Event{Name: EventAvailableRooms, Data: c.registry.Names()})
	}

	c.registry.Add(room, connID)
	c.tracker.Set(connID, room)
	c.log.Info().
		Str("conn_id", connID).
		Str("username", s.Username()).
		Str("room", room).
		Msg("joined room")

	c.resyncLocked(s, room)
}

// resyncLocked sends the joiner its acknowledgment and history, refreshes
// the room's roster for all members, and tells the joiner to clear its
// display. These are steps 5-8 of the join protocol.
func (c *Coordinator) resyncLocked(s Session, room string) {
	s.Send(Event{Name: EventJoinedRoom, Data: room})
	c.replayHistory(s, room)
	c.fanoutLocked(room, Event{Name: EventRoomUsers, Data: c.rosterLocked(room)}, "")
	s.Send(Event{Name: EventClearMessages, Data: nil})
}

// vacateLocked removes the connection from room. If the room became empty
// it is destroyed and the new room list is broadcast; otherwise the
// remaining members get the updated roster and a user-left notice.
func (c *Coordinator) vacateLocked(connID, username, room string) {
	destroyed := c.registry.Remove(room, connID)
	c.tracker.Clear(connID)

	if destroyed {
		metrics.RoomsActive.Set(float64(c.registry.NumRooms()))
		c.log.Info().Str("room", room).Msg("room destroyed")
		c.broadcastAllLocked(Event{Name: EventAvailableRooms, Data: c.registry.Names()})
		return
	}

	c.fanoutLocked(room, Event{Name: EventRoomUsers, Data: c.rosterLocked(room)}, "")
	c.fanoutLocked(room, Event{Name: EventUserLeft, Data: username}, "")
}

// replayHistory queries the archive for the room's retained messages and
// delivers them to s only. The fetch runs outside the coordinator lock and
// its failure never aborts the join.
func (c *Coordinator) replayHistory(s Session, room string) {
	since := time.Now().Add(-archive.Retention)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveOpTimeout)
		defer cancel()

		msgs, err := c.archive.Recent(ctx, room, since)
		if err != nil {
			metrics.ArchiveFailures.WithLabelValues("fetch").Inc()
			c.log.Error().Err(err).Str("room", room).Msg("failed to fetch room history")
			return
		}

		entries := make([]HistoryEntry, len(msgs))
		for i, msg := range msgs {
			entries[i] = HistoryEntry{Sender: msg.Sender, Content: msg.Content, Timestamp: msg.Timestamp}
		}
		s.Send(Event{Name: EventRoomHistory, Data: entries})
		metrics.HistoryReplays.Inc()
	}()
}

// rosterLocked returns the usernames of the room's members, sorted.
func (c *Coordinator) rosterLocked(room string) []string {
	members := c.registry.Members(room)
	usernames := make([]string, 0, len(members))
	for _, id := range members {
		if s, ok := c.sessions[id]; ok {
			usernames = append(usernames, s.Username())
		}
	}
	sort.Strings(usernames)
	return usernames
}

// fanoutLocked sends ev to every member of room, skipping exceptID when set.
func (c *Coordinator) fanoutLocked(room string, ev Event, exceptID string) {
	for _, id := range c.registry.Members(room) {
		if id == exceptID {
			continue
		}
		if s, ok := c.sessions[id]; ok {
			s.Send(ev)
		}
	}
}

// broadcastAllLocked sends ev to every connected session.
func (c *Coordinator) broadcastAllLocked(ev Event) {
	for _, s := range c.sessions {
		s.Send(ev)
	}
}
