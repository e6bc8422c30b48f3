package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// TranscriptChunk is the retrieval unit. UserId and VideoTitle are
// denormalized onto the row so a similarity hit carries everything the
// pipeline needs without a join.
type TranscriptChunk struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID       `gorm:"type:uuid;not null;index"`
	VideoId    uuid.UUID       `gorm:"type:uuid;not null;index"`
	VideoTitle string          `gorm:"type:varchar(255)"`
	ChunkText  string          `gorm:"type:text;not null"`
	ChunkIndex int             `gorm:"default:0"` // 0-based index for ordering
	Embedding  pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt  `gorm:"index"`
}

func (TranscriptChunk) TableName() string {
	return "transcript_chunks"
}
