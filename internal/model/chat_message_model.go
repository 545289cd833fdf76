package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMessage struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ChatSessionId uuid.UUID      `gorm:"type:uuid;not null;index:idx_chat_messages_session_created,priority:1"`
	Content       string         `gorm:"type:text;not null"`
	Role          string         `gorm:"type:varchar(20);not null"`
	Attachments   datatypes.JSON `gorm:"type:jsonb"`
	Seq           int64          `gorm:"autoIncrement;uniqueIndex"` // insertion-order tie break
	CreatedAt     time.Time      `gorm:"index:idx_chat_messages_session_created,priority:2"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
