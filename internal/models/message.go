package models

// Message represents an archived chat message.
type Message struct {
	ID        string `json:"id"` // ULID
	Room      string `json:"room"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // Unix ms
}
