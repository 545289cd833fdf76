package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// ByKnowledgeBaseIDs filters documents to a set of knowledge bases.
type ByKnowledgeBaseIDs struct {
	KnowledgeBaseIDs []uuid.UUID
}

func (s ByKnowledgeBaseIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("knowledge_base_id IN ?", s.KnowledgeBaseIDs)
}
