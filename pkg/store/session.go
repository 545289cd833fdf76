package store

import (
	"time"

	"support-chat-be/pkg/llm"

	"github.com/google/uuid"
)

// Session is the live in-memory state for one chat session. It mirrors the
// durable chat_sessions row plus a bounded recent-message window used to build
// model context. The durable log stays the source of truth; losing this state
// only costs the window, which is reloaded on resume.
type Session struct {
	ID           string
	UserID       *uuid.UUID
	WidgetID     *uuid.UUID
	CreatedAt    time.Time
	LastActivity time.Time

	// History holds the most recent messages, oldest first.
	History []llm.Message
}

// Touch refreshes LastActivity, keeping it monotonically non-decreasing.
func (s *Session) Touch(now time.Time) {
	if now.After(s.LastActivity) {
		s.LastActivity = now
	}
}

// Append adds a message and drops the oldest entries beyond limit.
func (s *Session) Append(msg llm.Message, limit int) {
	s.History = append(s.History, msg)
	if limit > 0 && len(s.History) > limit {
		s.History = s.History[len(s.History)-limit:]
	}
}
