package entity

import (
	"time"

	"github.com/google/uuid"
)

// ResponseFilter is one step of a rule's ordered post-processing chain.
type ResponseFilter struct {
	Type    string `json:"type"`              // replace | append | prepend
	Pattern string `json:"pattern,omitempty"` // replace only, matched case-insensitively
	Value   string `json:"value"`
}

// ContextRule is the operator-defined behavioral policy bound to a widget.
// Version only ever increases; every update bumps it.
type ContextRule struct {
	Id               uuid.UUID
	Name             string
	IsActive         bool
	Keywords         []string
	ExcludedTopics   []string
	PromptTemplate   string // may contain {{message}} and {{variable}} placeholders
	ResponseFilters  []ResponseFilter
	KnowledgeBaseIds []uuid.UUID
	PreferredModel   string
	Version          int
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}
