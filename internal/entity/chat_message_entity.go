package entity

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is a file reference carried on a message. Upload handling itself
// lives outside this service; we only persist what the client sent.
type Attachment struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	MimeType string `json:"mime_type,omitempty"`
}

// ChatMessage is immutable once written. Ordering is by CreatedAt with Seq
// breaking ties (Seq is assigned by the database on insert).
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Content       string
	Role          string // user | assistant | system
	Attachments   []Attachment
	Seq           int64
	CreatedAt     time.Time
}
