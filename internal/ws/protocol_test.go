package ws

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommandSendMessage(t *testing.T) {
	req := require.New(t)

	cmd, err := ParseCommand([]byte(`{"event":"send-message","data":{"content":"hello"}}`))
	req.NoError(err)
	req.Equal(SendMessage{Content: "hello"}, cmd)
}

func TestParseCommandRequiresContent(t *testing.T) {
	req := require.New(t)

	_, err := ParseCommand([]byte(`{"event":"send-message","data":{}}`))
	req.ErrorIs(err, ErrMissingField)
}

func TestParseCommandFeedback(t *testing.T) {
	req := require.New(t)

	cmd, err := ParseCommand([]byte(`{"event":"send-feedback","data":{"payload":"typing"}}`))
	req.NoError(err)
	req.Equal(SendFeedback{Payload: "typing"}, cmd)
}

func TestParseCommandListRooms(t *testing.T) {
	req := require.New(t)

	cmd, err := ParseCommand([]byte(`{"event":"list-rooms"}`))
	req.NoError(err)
	req.Equal(ListRooms{}, cmd)
}

func TestParseCommandJoinRoom(t *testing.T) {
	req := require.New(t)

	cmd, err := ParseCommand([]byte(`{"event":"join-room","data":{"name":"dev-chat_1"}}`))
	req.NoError(err)
	req.Equal(JoinRoom{Name: "dev-chat_1"}, cmd)
}

func TestParseCommandRejectsBadRoomNames(t *testing.T) {
	req := require.New(t)

	for _, name := range []string{"has space", "slash/room", "émoji", "way-toooooooooooooooooooooooooooooooooooooooo-long-room-name"} {
		_, err := ParseCommand([]byte(`{"event":"join-room","data":{"name":"` + name + `"}}`))
		req.ErrorIs(err, ErrInvalidRoomName, "name %q should be rejected", name)
	}

	_, err := ParseCommand([]byte(`{"event":"delete-room","data":{}}`))
	req.ErrorIs(err, ErrMissingField)
}

func TestParseCommandUnknownEvent(t *testing.T) {
	req := require.New(t)

	_, err := ParseCommand([]byte(`{"event":"self-destruct"}`))
	req.ErrorIs(err, ErrUnknownEvent)
}

func TestParseCommandMalformedFrame(t *testing.T) {
	req := require.New(t)

	_, err := ParseCommand([]byte(`not json`))
	req.Error(err)
}
