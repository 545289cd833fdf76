package handler

import (
	"context"
	"encoding/json"
	"testing"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	internalWS "support-chat-be/internal/websocket"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{}) {}
func (nopLogger) Warn(module, message string, details map[string]interface{}) {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type panickyChatService struct{}

func (panickyChatService) HandleMessage(ctx context.Context, sessionID string, content string, attachments []entity.Attachment) error {
	panic("runtime error: index out of range")
}

func (panickyChatService) GetChatHistory(ctx context.Context, sessionID uuid.UUID) ([]*dto.ChatHistoryItem, error) {
	return nil, nil
}

func (panickyChatService) ReleaseSession(sessionID string) {}

func TestDispatchMessageRecoversPipelinePanic(t *testing.T) {
	h := NewChatHandler(panickyChatService{}, nil, nil, "", nopLogger{})
	client := &internalWS.Client{SessionID: "room-1", Send: make(chan []byte, 4)}

	// Must not propagate the panic out of the dispatch.
	h.dispatchMessage(client, "room-1", "hello", nil)

	select {
	case raw := <-client.Send:
		var evt struct {
			Type string        `json:"type"`
			Data dto.ErrorData `json:"data"`
		}
		if err := json.Unmarshal(raw, &evt); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		if evt.Type != dto.EventError {
			t.Errorf("expected %q event, got %q", dto.EventError, evt.Type)
		}
		if evt.Data.Code != "internal_error" {
			t.Errorf("expected internal_error code, got %q", evt.Data.Code)
		}
	default:
		t.Fatal("expected an error event after the pipeline panicked")
	}
}
