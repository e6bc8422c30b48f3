package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

// ChatMessage is one turn of a session. Metadata carries the pipeline's
// diagnostic fields for model turns (intent, confidence, source chunks).
type ChatMessage struct {
	Id            uuid.UUID
	Content       string
	Role          string
	Metadata      map[string]interface{}
	ChatSessionId uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
