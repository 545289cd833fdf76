package unitofwork

import (
	"context"

	"support-chat-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation. Begin/Commit
// wrap the two-row message write so a user message is never persisted without
// its assistant reply.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ContextRuleRepository() contract.ContextRuleRepository
	WidgetRepository() contract.WidgetRepository
	KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository
	InteractionLogRepository() contract.InteractionLogRepository
}
