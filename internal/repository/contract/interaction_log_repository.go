package contract

import (
	"context"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/specification"
)

type InteractionLogRepository interface {
	Create(ctx context.Context, log *entity.AIInteractionLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AIInteractionLog, error)
}
