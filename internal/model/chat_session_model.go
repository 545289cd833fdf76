package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId         *uuid.UUID `gorm:"type:uuid;index"`
	WidgetId       *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	LastActivityAt time.Time  `gorm:"index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
