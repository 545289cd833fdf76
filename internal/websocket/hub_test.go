package websocket

import (
	"encoding/json"
	"sync"
	"testing"

	"support-chat-be/internal/dto"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{}) {}
func (nopLogger) Warn(module, message string, details map[string]interface{}) {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestClient(hub *Hub, sessionID string, buffer int) *Client {
	return &Client{
		Hub:       hub,
		SessionID: sessionID,
		Send:      make(chan []byte, buffer),
	}
}

func drain(client *Client, done chan<- struct{}) {
	for range client.Send {
	}
	close(done)
}

func TestHubBroadcastReachesEveryRoomMember(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	first := newTestClient(hub, "room-1", 4)
	second := newTestClient(hub, "room-1", 4)
	other := newTestClient(hub, "room-2", 4)
	hub.register <- first
	hub.register <- second
	hub.register <- other

	hub.BroadcastToSession("room-1", dto.OutboundEvent{
		Type: dto.EventTyping,
		Data: dto.TypingData{SessionId: "room-1", IsTyping: true},
	})

	for _, client := range []*Client{first, second} {
		raw := <-client.Send
		var evt struct {
			Type string         `json:"type"`
			Data dto.TypingData `json:"data"`
		}
		if err := json.Unmarshal(raw, &evt); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		if evt.Type != dto.EventTyping || !evt.Data.IsTyping {
			t.Errorf("unexpected frame %s", raw)
		}
	}
	if len(other.Send) != 0 {
		t.Error("event leaked into another room")
	}
}

func TestHubBroadcastDuringUnregisterDoesNotPanic(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	client := newTestClient(hub, "room-1", 1)
	hub.register <- client

	drained := make(chan struct{})
	go drain(client, drained)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.BroadcastToSession("room-1", dto.OutboundEvent{
				Type: dto.EventTyping,
				Data: dto.TypingData{SessionId: "room-1", IsTyping: i%2 == 0},
			})
		}
	}()

	hub.unregister <- client
	wg.Wait()
	<-drained

	if client.trySend([]byte("late")) {
		t.Error("send succeeded after the hub closed the client")
	}
}
