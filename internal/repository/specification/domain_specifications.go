package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByUserId filters rows owned by a user
type ByUserId struct {
	UserId uuid.UUID
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

// ByEmail filters users by email
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByYoutubeId filters videos by their YouTube id
type ByYoutubeId struct {
	YoutubeId string
}

func (s ByYoutubeId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("youtube_id = ?", s.YoutubeId)
}

// ByStatus filters videos by ingestion status
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ByChatSessionId filters messages belonging to a session
type ByChatSessionId struct {
	ChatSessionId uuid.UUID
}

func (s ByChatSessionId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionId)
}

// ByVideoId filters chunks belonging to a video
type ByVideoId struct {
	VideoId uuid.UUID
}

func (s ByVideoId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("video_id = ?", s.VideoId)
}

// Unread filters notifications that have not been read
type Unread struct{}

func (s Unread) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_read = ?", false)
}
