package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Video struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	YoutubeId       string         `gorm:"type:varchar(20);not null;index"`
	Title           string         `gorm:"type:varchar(255);not null"`
	ChannelTitle    string         `gorm:"type:varchar(255)"`
	DurationSeconds int            `gorm:"default:0"`
	Transcript      string         `gorm:"type:text"`
	Status          string         `gorm:"type:varchar(20);not null;default:'pending';index"`
	ChunkCount      int            `gorm:"default:0"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Video) TableName() string {
	return "videos"
}
