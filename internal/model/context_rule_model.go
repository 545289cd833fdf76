package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContextRule struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name             string         `gorm:"type:varchar(200);not null"`
	IsActive         bool           `gorm:"default:true;index"`
	Keywords         datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	ExcludedTopics   datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	PromptTemplate   string         `gorm:"type:text"`
	ResponseFilters  datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	KnowledgeBaseIds datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	PreferredModel   string         `gorm:"type:varchar(100)"`
	Version          int            `gorm:"not null;default:1"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
}

func (ContextRule) TableName() string {
	return "context_rules"
}
