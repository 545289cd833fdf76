package contract

import (
	"context"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/specification"
)

type WidgetRepository interface {
	Create(ctx context.Context, widget *entity.Widget) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Widget, error)
}
