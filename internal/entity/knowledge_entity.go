package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeDocument is read-only from the retriever's perspective.
type KnowledgeDocument struct {
	Id              uuid.UUID
	KnowledgeBaseId uuid.UUID
	Title           string
	Content         string
	Metadata        map[string]interface{}
	CreatedAt       time.Time
}
