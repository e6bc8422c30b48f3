package entity

import (
	"time"

	"github.com/google/uuid"
)

type VideoStatus string

const (
	VideoStatusPending    VideoStatus = "pending"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusFailed     VideoStatus = "failed"
)

type Video struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	YoutubeId       string
	Title           string
	ChannelTitle    string
	DurationSeconds int
	Transcript      string
	Status          VideoStatus
	ChunkCount      int
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
