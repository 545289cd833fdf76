package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Widget struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name           string         `gorm:"type:varchar(200);not null"`
	ContextRuleId  *uuid.UUID     `gorm:"type:uuid;index"`
	WelcomeMessage string         `gorm:"type:text"`
	Appearance     datatypes.JSON `gorm:"type:jsonb"`
	IsActive       bool           `gorm:"default:true"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
}

func (Widget) TableName() string {
	return "widgets"
}
