/*
Package chat contains the presence and delivery-synchronization core.

This file defines the Conn struct, one live WebSocket connection bound to an
identity. It runs the read/write pumps, routes inbound commands into the Hub,
and implements the presence.Handle the registry hands out for delivery.
*/
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"syncwire/internal/pkg/errs"
	"syncwire/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// sendQueueSize is the outbound queue capacity per connection.
	sendQueueSize = 256

	// WsCloseCodeSessionKicked is a custom WebSocket Close Code (4000-4999
	// range) signalling that the session was replaced by a new connection.
	WsCloseCodeSessionKicked = 4001
)

// Conn is an active WebSocket connection for one identity.
type Conn struct {
	hub      *Hub
	ws       *websocket.Conn
	identity string

	// send queues marshaled events waiting to go out on the socket.
	send chan []byte

	closeOnce sync.Once

	logger zerolog.Logger
}

// NewConn wraps an upgraded WebSocket connection for identity.
func NewConn(hub *Hub, ws *websocket.Conn, identity string) *Conn {
	return &Conn{
		hub:      hub,
		ws:       ws,
		identity: identity,
		send:     make(chan []byte, sendQueueSize),
		logger: logx.Logger().With().
			Str("component", "Conn").
			Str("identity", identity).
			Logger(),
	}
}

// Identity returns the identity bound to this connection.
func (c *Conn) Identity() string {
	return c.identity
}

// Enqueue implements presence.Handle. It offers data to the outbound queue and
// reports false instead of blocking when the queue is full.
func (c *Conn) Enqueue(data []byte) bool {
	defer func() {
		// Losing the race against closeSend is equivalent to a full queue.
		recover()
	}()

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Kick implements presence.Handle. It tells the client the session was
// replaced and shuts the outbound queue down.
func (c *Conn) Kick(reason string) {
	c.logger.Warn().
		Int("close_code", WsCloseCodeSessionKicked).
		Str("reason", reason).
		Msg("Kicking replaced connection.")

	closeMessage := websocket.FormatCloseMessage(WsCloseCodeSessionKicked, reason)

	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to send kick close frame.")
	}

	c.closeSend()
}

func (c *Conn) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// ReadPump reads inbound frames until the connection drops, routing each
// command into the Hub. It handles heartbeats and performs the conditional
// unregister on exit, so a kick that already replaced this connection does not
// evict its successor.
func (c *Conn) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Disconnect(c.identity, c)
		if err := c.ws.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error")
		}
	}()

	c.ws.SetReadLimit(maxMessageSize)

	if err := c.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Read error (client close/going away)")
			}
			break
		}

		c.handleInbound(ctx, frame)
	}
}

// WritePump drains the send queue onto the socket and keeps the heartbeat going.
func (c *Conn) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		if err := c.ws.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in WritePump")
		}
	}()

	for {
		select {
		case data, ok := <-c.send:
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Error().Err(err).Msg("Error writing message")
				return
			}

		case <-ticker.C:
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// inboundCommand is the envelope clients send over the socket.
type inboundCommand struct {
	Type    CommandType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (c *Conn) handleInbound(ctx context.Context, frame []byte) {
	var cmd inboundCommand
	if err := json.Unmarshal(frame, &cmd); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON")
		c.sendError(errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	switch cmd.Type {
	case CmdSendMessage:
		var p struct {
			Recipient string `json:"recipient"`
			ContentInput
		}
		if !c.bind(cmd.Payload, &p) {
			return
		}
		if _, err := c.hub.SendDirect(ctx, c.identity, p.Recipient, p.ContentInput); err != nil {
			c.sendError(err)
		}

	case CmdSendChannelMessage:
		var p struct {
			ChannelID string `json:"channelId"`
			ContentInput
		}
		if !c.bind(cmd.Payload, &p) {
			return
		}
		if _, err := c.hub.SendChannel(ctx, c.identity, p.ChannelID, p.ContentInput); err != nil {
			c.sendError(err)
		}

	case CmdTyping:
		var p struct {
			Recipient string `json:"recipient"`
		}
		if !c.bind(cmd.Payload, &p) {
			return
		}
		c.hub.TypingStart(c.identity, p.Recipient)

	case CmdStopTyping:
		var p struct {
			Recipient string `json:"recipient"`
		}
		if !c.bind(cmd.Payload, &p) {
			return
		}
		c.hub.TypingStop(c.identity, p.Recipient)

	case CmdChannelTyping:
		var p struct {
			ChannelID string `json:"channelId"`
		}
		if !c.bind(cmd.Payload, &p) {
			return
		}
		if err := c.hub.ChannelTypingStart(ctx, c.identity, p.ChannelID); err != nil {
			c.sendError(err)
		}

	case CmdStopChannelTyping:
		var p struct {
			ChannelID string `json:"channelId"`
		}
		if !c.bind(cmd.Payload, &p) {
			return
		}
		if err := c.hub.ChannelTypingStop(ctx, c.identity, p.ChannelID); err != nil {
			c.sendError(err)
		}

	case CmdMessageRead:
		var p struct {
			MessageID string `json:"messageId"`
		}
		if !c.bind(cmd.Payload, &p) {
			return
		}
		if err := c.hub.MarkRead(ctx, p.MessageID, c.identity); err != nil {
			c.sendError(err)
		}

	case CmdJoinConversation:
		var p struct {
			Counterpart string `json:"counterpart"`
		}
		if !c.bind(cmd.Payload, &p) {
			return
		}
		if err := c.hub.JoinConversation(ctx, c.identity, p.Counterpart); err != nil {
			c.sendError(err)
		}

	case CmdLeaveConversation:
		var p struct {
			Counterpart string `json:"counterpart"`
		}
		if !c.bind(cmd.Payload, &p) {
			return
		}
		c.hub.LeaveConversation(c.identity, p.Counterpart)

	case CmdUnreadSnapshot:
		c.hub.UnreadSnapshot(c.identity)

	default:
		c.logger.Warn().Str("command", string(cmd.Type)).Msg("Client sent unsupported command type")
		c.sendError(errs.NewError(errs.ErrInvalidParams))
	}
}

func (c *Conn) bind(payload json.RawMessage, dst any) bool {
	if err := json.Unmarshal(payload, dst); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid command payload")
		c.sendError(errs.NewError(errs.ErrInvalidParams))
		return false
	}
	return true
}

// sendError reports an operation failure to this connection only; failures are
// never broadcast.
func (c *Conn) sendError(err error) {
	var customErr *errs.CustomError
	if !errors.As(err, &customErr) {
		customErr = errs.NewError(errs.ErrUnknown, err)
	}

	ev := Event{
		Type: EventError,
		Payload: ErrorPayload{
			Code:    customErr.Code,
			Message: customErr.Message,
		},
	}

	data, merr := json.Marshal(ev)
	if merr != nil {
		c.logger.Error().Err(merr).Msg("Failed to marshal error event")
		return
	}
	if !c.Enqueue(data) {
		c.logger.Warn().Msg("Send queue full, dropping error event")
	}
}
