package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"support-chat-be/internal/dto"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // widget frames can carry attachments metadata
)

// InboundHandler processes one raw frame read from a client connection.
type InboundHandler func(c *Client, raw []byte)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// SessionID is the room this connection belongs to. Set by the init
	// handshake; a client with an empty SessionID is not yet in a room.
	SessionID string

	// UserID is nil for anonymous widget visitors.
	UserID *uuid.UUID

	// Buffered channel of outbound messages. Closed by the hub via closeSend
	// once the client left its room; all sends go through trySend so a close
	// can never race an in-flight delivery.
	Send chan []byte

	sendMu sync.Mutex
	closed bool

	onInbound InboundHandler
}

// trySend queues one frame for the write pump. Returns false when the buffer
// is full or the hub already closed the channel.
func (c *Client) trySend(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// closeSend closes the outbound channel exactly once. Called by the hub only
// after the client is out of its room and unreachable by broadcasters.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// Join registers the client into its session room. Safe to call once per
// connection, after the init handshake assigned SessionID.
func (c *Client) Join(sessionID string) {
	c.SessionID = sessionID
	c.Hub.register <- c
}

// SendEvent pushes an event to this one connection, bypassing the room. Used
// for handshake acks and per-connection errors.
func (c *Client) SendEvent(event dto.OutboundEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	c.trySend(data)
}

// readPump pumps frames from the websocket connection to the inbound handler.
func (c *Client) readPump() {
	defer func() {
		if c.SessionID != "" {
			c.Hub.unregister <- c
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("readPump error for session %s: %v", c.SessionID, err)
			}
			break
		}
		if c.onInbound != nil {
			c.onInbound(c, raw)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket frame.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs wires one upgraded connection into the hub and blocks until the
// connection drops. The client joins a room only after the init handshake,
// handled by the inbound handler.
func ServeWs(hub *Hub, conn *websocket.Conn, userID *uuid.UUID, onInbound InboundHandler) {
	client := &Client{
		Hub:       hub,
		Conn:      conn,
		UserID:    userID,
		Send:      make(chan []byte, 256),
		onInbound: onInbound,
	}

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
