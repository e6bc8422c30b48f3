package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitVideoRequest struct {
	YoutubeUrl      string `json:"youtube_url" validate:"required,url"`
	Title           string `json:"title" validate:"required,min=1,max=255"`
	ChannelTitle    string `json:"channel_title,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty" validate:"omitempty,min=0"`
	Transcript      string `json:"transcript" validate:"required,min=1"`
}

type VideoResponse struct {
	Id              uuid.UUID  `json:"id"`
	YoutubeId       string     `json:"youtube_id"`
	Title           string     `json:"title"`
	ChannelTitle    string     `json:"channel_title,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	Status          string     `json:"status"`
	ChunkCount      int        `json:"chunk_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// PublishIngestVideoMessage is the payload queued for the ingestion worker.
type PublishIngestVideoMessage struct {
	VideoId uuid.UUID `json:"video_id"`
}
