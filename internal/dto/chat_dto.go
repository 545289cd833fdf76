package dto

import (
	"encoding/json"
	"time"

	"support-chat-be/internal/entity"

	"github.com/google/uuid"
)

// Websocket event names shared with the embedded widget client.
const (
	EventInitChat       = "init_chat"
	EventChatMessage    = "message"
	EventSessionStarted = "session_started"
	EventTyping         = "typing"
	EventError          = "error"
)

// InboundEvent is the raw frame envelope sent by the widget.
type InboundEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// OutboundEvent is the frame envelope pushed to the widget.
type OutboundEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type InitChatRequest struct {
	SessionId string `json:"session_id"`
	WidgetId  string `json:"widget_id"`
}

type ChatMessageRequest struct {
	Content     string          `json:"content" validate:"required"`
	Attachments []AttachmentDTO `json:"attachments" validate:"dive"`
}

type AttachmentDTO struct {
	Name     string `json:"name" validate:"required"`
	URL      string `json:"url" validate:"required,url"`
	MimeType string `json:"mime_type"`
}

type SessionStartedData struct {
	SessionId       string `json:"session_id"`
	IsAuthenticated bool   `json:"is_authenticated"`
	IsNew           bool   `json:"is_new"`
}

type ChatMessageData struct {
	Id        uuid.UUID `json:"id"`
	SessionId string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ModelUsed string    `json:"model_used,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type TypingData struct {
	SessionId string `json:"session_id"`
	IsTyping  bool   `json:"is_typing"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ChatHistoryItem struct {
	Id          uuid.UUID           `json:"id"`
	Role        string              `json:"role"`
	Content     string              `json:"content"`
	Attachments []entity.Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

type WidgetResponse struct {
	Id             uuid.UUID              `json:"id"`
	Name           string                 `json:"name"`
	WelcomeMessage string                 `json:"welcome_message"`
	Appearance     map[string]interface{} `json:"appearance"`
	IsActive       bool                   `json:"is_active"`
}

// PublishInteractionLogMessage crosses the in-process bus to the audit consumer.
type PublishInteractionLogMessage struct {
	UserId        *uuid.UUID             `json:"user_id"`
	ChatSessionId uuid.UUID              `json:"chat_session_id"`
	Query         string                 `json:"query"`
	Response      string                 `json:"response"`
	ModelUsed     string                 `json:"model_used"`
	ContextRuleId *uuid.UUID             `json:"context_rule_id"`
	Metadata      map[string]interface{} `json:"metadata"`
}
