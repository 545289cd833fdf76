package entity

import (
	"time"

	"github.com/google/uuid"
)

// Widget is an embeddable chat client configuration. Appearance is an opaque
// blob for the frontend; the pipeline only cares about the rule binding and
// the welcome message.
type Widget struct {
	Id             uuid.UUID
	Name           string
	ContextRuleId  *uuid.UUID
	WelcomeMessage string
	Appearance     map[string]interface{}
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
