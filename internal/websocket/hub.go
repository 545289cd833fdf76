package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// redisChannel carries room events between instances. Every instance
// subscribes and delivers to whichever clients of that room it holds locally.
const redisChannel = "chat_room_events"

// Hub fans chat events out to the websocket clients of a session room. A room
// is keyed by session id; multiple clients per room covers the same visitor
// with the widget open in several tabs.
type Hub struct {
	rooms map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out, nil in single-instance mode.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.rooms[client.SessionID] = append(h.rooms[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client joined room", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.rooms[client.SessionID] = append(clients[:i], clients[i+1:]...)
						client.closeSend()
						break
					}
				}
				if len(h.rooms[client.SessionID]) == 0 {
					delete(h.rooms, client.SessionID)
					h.logger.Info("Hub", "Room emptied", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToSession delivers an event to every client in the session room,
// locally and through Redis to the other instances.
func (h *Hub) BroadcastToSession(sessionID string, event dto.OutboundEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal event", map[string]interface{}{
			"session_id": sessionID,
			"type":       event.Type,
			"error":      err.Error(),
		})
		return
	}

	h.deliverLocal(sessionID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"session_id": sessionID,
			"message":    json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), redisChannel, payload)
	}
}

func (h *Hub) deliverLocal(sessionID string, data []byte) {
	h.mu.RLock()
	clients := h.rooms[sessionID]
	h.mu.RUnlock()

	for _, client := range clients {
		if client.trySend(data) {
			continue
		}
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{
			"session_id": sessionID,
		})
		h.unregister <- client
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			SessionID string          `json:"session_id"`
			Message   json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}
		h.deliverLocal(payload.SessionID, payload.Message)
	}
}
