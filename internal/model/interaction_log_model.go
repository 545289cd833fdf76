package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AIInteractionLog struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId        *uuid.UUID     `gorm:"type:uuid;index"`
	ChatSessionId uuid.UUID      `gorm:"type:uuid;index"`
	Query         string         `gorm:"type:text;not null"`
	Response      string         `gorm:"type:text;not null"`
	ModelUsed     string         `gorm:"type:varchar(100)"`
	ContextRuleId *uuid.UUID     `gorm:"type:uuid"`
	Metadata      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index"`
}

func (AIInteractionLog) TableName() string {
	return "ai_interaction_logs"
}
