package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id             uuid.UUID
	UserId         *uuid.UUID // nil for anonymous widget visitors
	WidgetId       *uuid.UUID
	CreatedAt      time.Time
	LastActivityAt time.Time
}
