// Package ws carries the realtime channel: one WebSocket connection per
// client, with read/write pumps bridging frames to the room coordinator.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Vinay400/chat-buddy/internal/hub"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size in bytes.
	maxMessageSize = 4096

	// Outbound buffer; sends to a full buffer are dropped.
	sendBufferSize = 256

	// Inbound frames allowed per second per connection.
	inboundBurst = 20
)

// Client is one live WebSocket session. It implements hub.Session.
type Client struct {
	id          string
	username    string
	conn        *websocket.Conn
	coordinator *hub.Coordinator
	log         zerolog.Logger
	limiter     *rateLimiter

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient wraps an upgraded connection for the given verified username.
func NewClient(id, username string, conn *websocket.Conn, coordinator *hub.Coordinator, logger zerolog.Logger) *Client {
	conn.SetReadLimit(maxMessageSize)
	return &Client{
		id:          id,
		username:    username,
		conn:        conn,
		coordinator: coordinator,
		log:         logger.With().Str("conn_id", id).Str("username", username).Logger(),
		limiter:     newRateLimiter(inboundBurst, time.Second),
		send:        make(chan []byte, sendBufferSize),
		done:        make(chan struct{}),
	}
}

// ID returns the connection id.
func (c *Client) ID() string { return c.id }

// Username returns the verified username attached at the handshake.
func (c *Client) Username() string { return c.username }

// Send queues an event for delivery. It never blocks: events for a closed
// connection or a full buffer are dropped, so a late history replay to a
// gone client is harmless.
func (c *Client) Send(ev hub.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		c.log.Error().Err(err).Str("event", ev.Name).Msg("failed to encode event")
		return
	}

	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.log.Warn().Str("event", ev.Name).Msg("send buffer full, dropping event")
	}
}

// Close shuts the connection down. Safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// Run starts the read and write pumps. It returns when the connection is
// gone and the client has been detached from the coordinator.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.coordinator.Disconnect(c.id)
		c.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug().Err(err).Msg("unexpected close")
			}
			return
		}

		if !c.limiter.allow() {
			c.log.Warn().Msg("rate limit exceeded, dropping frame")
			continue
		}

		c.dispatch(raw)
	}
}

// dispatch routes one validated inbound frame to the coordinator.
func (c *Client) dispatch(raw []byte) {
	cmd, err := ParseCommand(raw)
	if err != nil {
		c.log.Warn().Err(err).Msg("dropping invalid frame")
		return
	}

	switch cmd := cmd.(type) {
	case SendMessage:
		c.coordinator.Chat(c.id, cmd.Content)
	case SendFeedback:
		c.coordinator.Feedback(c.id, cmd.Payload)
	case ListRooms:
		c.coordinator.ListRooms(c.id)
	case JoinRoom:
		c.coordinator.Join(c.id, cmd.Name)
	case DeleteRoom:
		c.coordinator.DeleteRoom(c.id, cmd.Name)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return

		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
