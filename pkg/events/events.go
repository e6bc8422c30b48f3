package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "VIDEO_INGESTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used on both ends of the bus.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes published by the backend.
const (
	TypeVideoIngested     = "VIDEO_INGESTED"
	TypeVideoIngestFailed = "VIDEO_INGEST_FAILED"
	TypeUserLogin         = "USER_LOGIN"
)

// NewVideoIngested builds the event emitted when a video's transcript has
// been chunked, embedded and stored.
func NewVideoIngested(videoID, userID, title string, chunkCount int) BaseEvent {
	return BaseEvent{
		Type: TypeVideoIngested,
		Data: map[string]interface{}{
			"video_id":    videoID,
			"user_id":     userID,
			"title":       title,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewVideoIngestFailed is emitted when ingestion gives up on a video.
func NewVideoIngestFailed(videoID, userID, reason string) BaseEvent {
	return BaseEvent{
		Type: TypeVideoIngestFailed,
		Data: map[string]interface{}{
			"video_id": videoID,
			"user_id":  userID,
			"reason":   reason,
		},
		OccurredAt: time.Now(),
	}
}
