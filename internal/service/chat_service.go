package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"support-chat-be/internal/constant"
	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/filter"
	"support-chat-be/internal/gateway"
	"support-chat-be/internal/knowledge"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/policy"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/internal/session"
	"support-chat-be/pkg/events"
	"support-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Notifier pushes events to the clients of a session room. Implemented by the
// websocket hub.
type Notifier interface {
	BroadcastToSession(sessionID string, event dto.OutboundEvent)
}

// IChatService defines the chat orchestration interface.
type IChatService interface {
	HandleMessage(ctx context.Context, sessionID string, content string, attachments []entity.Attachment) error
	GetChatHistory(ctx context.Context, sessionID uuid.UUID) ([]*dto.ChatHistoryItem, error)
	ReleaseSession(sessionID string)
}

// chatService runs each user message through the full pipeline: rule
// resolution, knowledge retrieval, model invocation, response filtering,
// persistence, then broadcast. Messages of one session are processed strictly
// one at a time; different sessions run concurrently.
type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessionManager *session.Manager
	policyStore    *policy.Store
	retriever      *knowledge.Retriever
	gateway        *gateway.Gateway
	notifier       Notifier
	pubSub         *gochannel.GoChannel
	eventPublisher *nats.Publisher
	logger         logger.ILogger
	retrievalLimit int

	// locks serializes the pipeline per session id.
	locks sync.Map
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessionManager *session.Manager,
	policyStore *policy.Store,
	retriever *knowledge.Retriever,
	gw *gateway.Gateway,
	notifier Notifier,
	pubSub *gochannel.GoChannel,
	eventPublisher *nats.Publisher,
	log logger.ILogger,
	retrievalLimit int,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		sessionManager: sessionManager,
		policyStore:    policyStore,
		retriever:      retriever,
		gateway:        gw,
		notifier:       notifier,
		pubSub:         pubSub,
		eventPublisher: eventPublisher,
		logger:         log,
		retrievalLimit: retrievalLimit,
	}
}

func (cs *chatService) sessionLock(sessionID string) *sync.Mutex {
	lock, _ := cs.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// ReleaseSession drops the per-session lock entry. Called by the session
// manager's eviction sweep; a later message recreates the entry on demand.
func (cs *chatService) ReleaseSession(sessionID string) {
	cs.locks.Delete(sessionID)
}

// HandleMessage runs the pipeline for one user message. A model failure never
// reaches the caller; the gateway degrades to the apology response. A
// persistence failure sends an error event to the room and keeps the session
// alive so the visitor can retry.
func (cs *chatService) HandleMessage(ctx context.Context, sessionID string, content string, attachments []entity.Attachment) error {
	lock := cs.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, found := cs.sessionManager.Get(sessionID)
	if !found {
		return fmt.Errorf("session %s is not initialized", sessionID)
	}
	sessionUUID, err := uuid.Parse(sessionID)
	if err != nil {
		return fmt.Errorf("invalid session id %s: %w", sessionID, err)
	}

	started := time.Now()

	rule, err := cs.resolveRule(ctx, sess.WidgetID)
	if err != nil {
		cs.logger.Warn("ChatService", "Rule resolution failed, continuing without a rule", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		rule = nil
	}

	snippets := cs.retrieve(ctx, content, rule)
	prompt := buildPrompt(content, rule, snippets)
	history := cs.sessionManager.History(sessionID)

	cs.notifier.BroadcastToSession(sessionID, dto.OutboundEvent{
		Type: dto.EventTyping,
		Data: dto.TypingData{SessionId: sessionID, IsTyping: true},
	})
	defer cs.notifier.BroadcastToSession(sessionID, dto.OutboundEvent{
		Type: dto.EventTyping,
		Data: dto.TypingData{SessionId: sessionID, IsTyping: false},
	})

	result := cs.gateway.Generate(ctx, prompt, history, preferredModel(rule))

	response := result.Content
	refused := false
	if rule != nil {
		if filter.MatchesExcludedTopic(response, rule.ExcludedTopics) {
			response = constant.RefusalResponse
			refused = true
		} else {
			response = filter.Apply(response, rule.ResponseFilters, cs.logger)
		}
	}

	now := time.Now()
	userMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionUUID,
		Content:       content,
		Role:          constant.ChatMessageRoleUser,
		Attachments:   attachments,
		CreatedAt:     now,
	}
	assistantMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionUUID,
		Content:       response,
		Role:          constant.ChatMessageRoleAssistant,
		CreatedAt:     now,
	}

	if err := cs.persistTurn(ctx, sessionUUID, userMessage, assistantMessage); err != nil {
		cs.logger.Error("ChatService", "Failed to persist chat turn", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		cs.notifier.BroadcastToSession(sessionID, dto.OutboundEvent{
			Type: dto.EventError,
			Data: dto.ErrorData{Code: "persistence_failed", Message: "Your message could not be saved. Please try again."},
		})
		return err
	}

	cs.sessionManager.AppendLocal(sessionID, constant.ChatMessageRoleUser, content)
	cs.sessionManager.AppendLocal(sessionID, constant.ChatMessageRoleAssistant, response)

	// Broadcast only after the durable write so clients never see a message
	// the log does not have.
	cs.notifier.BroadcastToSession(sessionID, dto.OutboundEvent{
		Type: dto.EventChatMessage,
		Data: dto.ChatMessageData{
			Id:        assistantMessage.Id,
			SessionId: sessionID,
			Role:      assistantMessage.Role,
			Content:   assistantMessage.Content,
			ModelUsed: result.ModelUsed,
			CreatedAt: assistantMessage.CreatedAt,
		},
	})

	cs.audit(sess.UserID, sessionUUID, rule, content, response, result.ModelUsed, map[string]interface{}{
		"processing_ms":   time.Since(started).Milliseconds(),
		"refused":         refused,
		"snippets_used":   len(snippets),
		"history_length":  len(history),
		"has_attachments": len(attachments) > 0,
	})

	eventType := events.TypeChatMessageProcessed
	if result.ModelUsed == constant.ModelFallback {
		eventType = events.TypeChatResponseFallback
	}
	if err := cs.eventPublisher.Publish(ctx, events.NewChatEvent(eventType, sessionID, map[string]interface{}{
		"model_used": result.ModelUsed,
	})); err != nil {
		cs.logger.Warn("ChatService", "Failed to publish chat event", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	return nil
}

// resolveRule follows widget -> context rule. A widget without a rule binding,
// an unknown widget, or an inactive rule all yield nil.
func (cs *chatService) resolveRule(ctx context.Context, widgetID *uuid.UUID) (*entity.ContextRule, error) {
	if widgetID == nil {
		return nil, nil
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	widget, err := uow.WidgetRepository().FindOne(ctx, specification.ByID{ID: *widgetID})
	if err != nil {
		return nil, err
	}
	if widget == nil || widget.ContextRuleId == nil {
		return nil, nil
	}

	return cs.policyStore.Resolve(ctx, *widget.ContextRuleId)
}

// retrieve is best-effort: a retrieval failure costs context, not the message.
func (cs *chatService) retrieve(ctx context.Context, query string, rule *entity.ContextRule) []knowledge.Snippet {
	if rule == nil || len(rule.KnowledgeBaseIds) == 0 {
		return nil
	}
	snippets, err := cs.retriever.Retrieve(ctx, query, rule.KnowledgeBaseIds, cs.retrievalLimit)
	if err != nil {
		cs.logger.Warn("ChatService", "Knowledge retrieval failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return snippets
}

// persistTurn writes the user message and the assistant reply in one
// transaction and refreshes the session row's activity stamp.
func (cs *chatService) persistTurn(ctx context.Context, sessionID uuid.UUID, userMessage, assistantMessage *entity.ChatMessage) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		return err
	}

	row, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionID})
	if err != nil {
		return err
	}
	if row != nil {
		row.LastActivityAt = assistantMessage.CreatedAt
		if err := uow.ChatSessionRepository().Update(ctx, row); err != nil {
			return err
		}
	}

	return uow.Commit()
}

// audit hands the interaction row to the in-process bus. Best-effort by
// contract; the consumer does the durable write.
func (cs *chatService) audit(userID *uuid.UUID, sessionID uuid.UUID, rule *entity.ContextRule, query, response, modelUsed string, metadata map[string]interface{}) {
	if cs.pubSub == nil {
		return
	}

	var ruleID *uuid.UUID
	if rule != nil {
		ruleID = &rule.Id
	}
	payload, err := json.Marshal(dto.PublishInteractionLogMessage{
		UserId:        userID,
		ChatSessionId: sessionID,
		Query:         query,
		Response:      response,
		ModelUsed:     modelUsed,
		ContextRuleId: ruleID,
		Metadata:      metadata,
	})
	if err != nil {
		return
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	if err := cs.pubSub.Publish(constant.TopicInteractionLogs, msg); err != nil {
		cs.logger.Warn("ChatService", "Failed to publish interaction log", map[string]interface{}{
			"session_id": sessionID.String(),
			"error":      err.Error(),
		})
	}
}

// GetChatHistory returns the full durable message log, oldest first.
func (cs *chatService) GetChatHistory(ctx context.Context, sessionID uuid.UUID) ([]*dto.ChatHistoryItem, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionID})
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session not found")
	}

	rows, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionID},
		specification.OrderBy{Field: "seq", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ChatHistoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, &dto.ChatHistoryItem{
			Id:          row.Id,
			Role:        row.Role,
			Content:     row.Content,
			Attachments: row.Attachments,
			CreatedAt:   row.CreatedAt,
		})
	}
	return items, nil
}

// buildPrompt composes the model prompt from the rule template, retrieved
// context, and the user message. Template placeholders: {{message}} is
// replaced by the user message; a template without it acts as a preamble.
func buildPrompt(message string, rule *entity.ContextRule, snippets []knowledge.Snippet) string {
	var sections []string

	if len(snippets) > 0 {
		var b strings.Builder
		b.WriteString("Context information:\n")
		for _, snippet := range snippets {
			b.WriteString(fmt.Sprintf("[%s] %s\n", snippet.Source, snippet.Content))
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	if rule != nil && len(rule.ExcludedTopics) > 0 {
		sections = append(sections, "Do not discuss the following topics: "+strings.Join(rule.ExcludedTopics, ", ")+".")
	}

	body := message
	if rule != nil && rule.PromptTemplate != "" {
		if strings.Contains(rule.PromptTemplate, "{{message}}") {
			body = strings.ReplaceAll(rule.PromptTemplate, "{{message}}", message)
		} else {
			body = rule.PromptTemplate + "\n\n" + message
		}
	}
	sections = append(sections, body)

	return strings.Join(sections, "\n\n")
}

func preferredModel(rule *entity.ContextRule) string {
	if rule == nil {
		return ""
	}
	return rule.PreferredModel
}
