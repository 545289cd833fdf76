package contract

import (
	"context"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/specification"
)

type ContextRuleRepository interface {
	Create(ctx context.Context, rule *entity.ContextRule) error
	// Update bumps Version; the version column only ever increases.
	Update(ctx context.Context, rule *entity.ContextRule) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContextRule, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContextRule, error)
}
