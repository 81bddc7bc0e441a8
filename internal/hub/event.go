package hub

// Outbound event names on the realtime channel.
const (
	EventClientTotal    = "client-total"
	EventChatMessage    = "chat-message"
	EventFeedback       = "feedback"
	EventAvailableRooms = "available-rooms"
	EventRoomUsers      = "room-users"
	EventJoinedRoom     = "joined-room"
	EventRoomDeleted    = "room-deleted"
	EventUserLeft       = "user-left"
	EventRoomHistory    = "room-history"
	EventClearMessages  = "clear-messages"
)

// Event is one outbound message to a connected client.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// ChatPayload is the body of a chat-message event.
type ChatPayload struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// FeedbackPayload is the body of a feedback event.
type FeedbackPayload struct {
	Sender  string `json:"sender"`
	Payload string `json:"payload"`
}

// HistoryEntry is one archived message in a room-history event.
type HistoryEntry struct {
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// Session is one live client connection as seen by the coordinator.
// Send must never block; delivery to a closed connection is dropped.
type Session interface {
	ID() string
	Username() string
	Send(ev Event)
	Close() error
}
