package entity

import (
	"time"

	"github.com/google/uuid"
)

// AIInteractionLog is an append-only audit row per pipeline run. Writes are
// best-effort; a failed insert never fails the user-visible flow.
type AIInteractionLog struct {
	Id            uuid.UUID
	UserId        *uuid.UUID
	ChatSessionId uuid.UUID
	Query         string
	Response      string
	ModelUsed     string
	ContextRuleId *uuid.UUID
	Metadata      map[string]interface{} // token counts, processing time
	CreatedAt     time.Time
}
