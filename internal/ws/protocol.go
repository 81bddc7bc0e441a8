package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Inbound event names on the realtime channel.
const (
	cmdSendMessage  = "send-message"
	cmdSendFeedback = "send-feedback"
	cmdListRooms    = "list-rooms"
	cmdJoinRoom     = "join-room"
	cmdDeleteRoom   = "delete-room"
)

// Room name validation: alphanumeric, hyphens, underscores, 1-50 chars
var roomNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,50}$`)

var (
	// ErrUnknownEvent is returned for inbound events with no handler.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrMissingField is returned when a required payload field is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidRoomName is returned when a room name fails validation.
	ErrInvalidRoomName = errors.New("invalid room name")
)

// Command is one validated inbound client request.
type Command interface{ isCommand() }

// SendMessage asks for a chat message broadcast to the sender's room.
type SendMessage struct {
	Content string `json:"content"`
}

// SendFeedback asks for a feedback broadcast to the sender's room.
type SendFeedback struct {
	Payload string `json:"payload"`
}

// ListRooms asks for the current room list.
type ListRooms struct{}

// JoinRoom asks to move the sender into the named room.
type JoinRoom struct {
	Name string `json:"name"`
}

// DeleteRoom asks to destroy the named room.
type DeleteRoom struct {
	Name string `json:"name"`
}

func (SendMessage) isCommand()  {}
func (SendFeedback) isCommand() {}
func (ListRooms) isCommand()    {}
func (JoinRoom) isCommand()     {}
func (DeleteRoom) isCommand()   {}

type inboundEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ParseCommand decodes and validates one inbound frame.
func ParseCommand(raw []byte) (Command, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch env.Event {
	case cmdSendMessage:
		var cmd SendMessage
		if err := unmarshalData(env.Data, &cmd); err != nil {
			return nil, err
		}
		if cmd.Content == "" {
			return nil, fmt.Errorf("%w: content", ErrMissingField)
		}
		return cmd, nil

	case cmdSendFeedback:
		var cmd SendFeedback
		if err := unmarshalData(env.Data, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil

	case cmdListRooms:
		return ListRooms{}, nil

	case cmdJoinRoom:
		var cmd JoinRoom
		if err := unmarshalData(env.Data, &cmd); err != nil {
			return nil, err
		}
		if cmd.Name == "" {
			return nil, fmt.Errorf("%w: name", ErrMissingField)
		}
		if !roomNameRegex.MatchString(cmd.Name) {
			return nil, ErrInvalidRoomName
		}
		return cmd, nil

	case cmdDeleteRoom:
		var cmd DeleteRoom
		if err := unmarshalData(env.Data, &cmd); err != nil {
			return nil, err
		}
		if cmd.Name == "" {
			return nil, fmt.Errorf("%w: name", ErrMissingField)
		}
		if !roomNameRegex.MatchString(cmd.Name) {
			return nil, ErrInvalidRoomName
		}
		return cmd, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
}

func unmarshalData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	return nil
}
