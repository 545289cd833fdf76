package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/pkg/serverutils"
	"support-chat-be/internal/service"
	"support-chat-be/internal/session"
	internalWS "support-chat-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ChatHandler owns the widget websocket endpoint: handshake, session
// initialization, and dispatch of inbound frames to the chat pipeline.
type ChatHandler struct {
	chatService    service.IChatService
	sessionManager *session.Manager
	hub            *internalWS.Hub
	jwtSecret      string
	logger         logger.ILogger
}

func NewChatHandler(
	chatService service.IChatService,
	sessionManager *session.Manager,
	hub *internalWS.Hub,
	jwtSecret string,
	log logger.ILogger,
) *ChatHandler {
	return &ChatHandler{
		chatService:    chatService,
		sessionManager: sessionManager,
		hub:            hub,
		jwtSecret:      jwtSecret,
		logger:         log,
	}
}

// ServeWs upgrades the connection. Auth is optional: an absent or invalid
// token means an anonymous visitor, never a rejected handshake.
func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	userID := serverutils.ParseOptionalUser(tokenStr, h.jwtSecret)

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			internalWS.ServeWs(h.hub, conn, userID, h.onInbound)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *ChatHandler) onInbound(c *internalWS.Client, raw []byte) {
	var evt dto.InboundEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		c.SendEvent(dto.OutboundEvent{
			Type: dto.EventError,
			Data: dto.ErrorData{Code: "bad_frame", Message: "Malformed event"},
		})
		return
	}

	switch evt.Type {
	case dto.EventInitChat:
		h.handleInit(c, evt.Data)
	case dto.EventChatMessage:
		h.handleMessage(c, evt.Data)
	default:
		c.SendEvent(dto.OutboundEvent{
			Type: dto.EventError,
			Data: dto.ErrorData{Code: "unknown_event", Message: "Unknown event type: " + evt.Type},
		})
	}
}

// handleInit resumes or creates the session, joins this connection into the
// room, and acks with the session identity. A freshly created session also
// gets its welcome message replayed so the widget renders it immediately.
func (h *ChatHandler) handleInit(c *internalWS.Client, data json.RawMessage) {
	var req dto.InitChatRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			c.SendEvent(dto.OutboundEvent{
				Type: dto.EventError,
				Data: dto.ErrorData{Code: "bad_request", Message: "Malformed init payload"},
			})
			return
		}
	}

	var widgetID *uuid.UUID
	if req.WidgetId != "" {
		if id, err := uuid.Parse(req.WidgetId); err == nil {
			widgetID = &id
		}
	}

	sess, created, err := h.sessionManager.Resume(context.Background(), req.SessionId, widgetID, c.UserID)
	if err != nil {
		h.logger.Error("ChatHandler", "Failed to resume session", map[string]interface{}{
			"session_id": req.SessionId,
			"error":      err.Error(),
		})
		c.SendEvent(dto.OutboundEvent{
			Type: dto.EventError,
			Data: dto.ErrorData{Code: "init_failed", Message: "Could not start the chat session"},
		})
		return
	}

	c.Join(sess.ID)

	c.SendEvent(dto.OutboundEvent{
		Type: dto.EventSessionStarted,
		Data: dto.SessionStartedData{
			SessionId:       sess.ID,
			IsAuthenticated: c.UserID != nil,
			IsNew:           created,
		},
	})

	if created {
		h.replayHistory(c, sess.ID)
	}
}

// replayHistory pushes the persisted messages of the session to this one
// connection. On creation that is just the welcome message.
func (h *ChatHandler) replayHistory(c *internalWS.Client, sessionID string) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return
	}
	items, err := h.chatService.GetChatHistory(context.Background(), id)
	if err != nil {
		h.logger.Warn("ChatHandler", "Failed to replay history", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}
	for _, item := range items {
		c.SendEvent(dto.OutboundEvent{
			Type: dto.EventChatMessage,
			Data: dto.ChatMessageData{
				Id:        item.Id,
				SessionId: sessionID,
				Role:      item.Role,
				Content:   item.Content,
				CreatedAt: item.CreatedAt,
			},
		})
	}
}

func (h *ChatHandler) handleMessage(c *internalWS.Client, data json.RawMessage) {
	if c.SessionID == "" {
		c.SendEvent(dto.OutboundEvent{
			Type: dto.EventError,
			Data: dto.ErrorData{Code: "not_initialized", Message: "Send init_chat before messages"},
		})
		return
	}

	var req dto.ChatMessageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.SendEvent(dto.OutboundEvent{
			Type: dto.EventError,
			Data: dto.ErrorData{Code: "bad_request", Message: "Malformed message payload"},
		})
		return
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		c.SendEvent(dto.OutboundEvent{
			Type: dto.EventError,
			Data: dto.ErrorData{Code: "validation_failed", Message: err.Error()},
		})
		return
	}

	attachments := make([]entity.Attachment, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		attachments = append(attachments, entity.Attachment{
			Name:     a.Name,
			URL:      a.URL,
			MimeType: a.MimeType,
		})
	}

	// Run the pipeline off the read pump so a slow model does not block
	// further frames. The service serializes messages per session.
	go h.dispatchMessage(c, c.SessionID, req.Content, attachments)
}

// dispatchMessage runs one message through the pipeline. The deferred recover
// is the last-resort guard: a panic anywhere in orchestration must cost at
// most this one message, never the process.
func (h *ChatHandler) dispatchMessage(c *internalWS.Client, sessionID, content string, attachments []entity.Attachment) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("ChatHandler", "Recovered panic in chat pipeline", map[string]interface{}{
				"session_id": sessionID,
				"panic":      fmt.Sprintf("%v", r),
			})
			c.SendEvent(dto.OutboundEvent{
				Type: dto.EventError,
				Data: dto.ErrorData{Code: "internal_error", Message: "Something went wrong processing your message"},
			})
		}
	}()

	if err := h.chatService.HandleMessage(context.Background(), sessionID, content, attachments); err != nil {
		h.logger.Error("ChatHandler", "Pipeline failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

// RegisterRoutes registers the widget websocket endpoint.
func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
