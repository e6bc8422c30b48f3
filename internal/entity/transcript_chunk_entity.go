package entity

import (
	"time"

	"github.com/google/uuid"
)

type TranscriptChunk struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	VideoId    uuid.UUID
	VideoTitle string
	ChunkText  string
	ChunkIndex int
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
