package store

// Session is the active conversation state kept in memory between turns.
// It survives only as long as the cache entry; the database remains the
// source of truth for the transcript itself.
type Session struct {
	ID     string `json:"id"` // ChatSessionID
	UserID string `json:"user_id"`

	// ActiveVideoID is set when the user loads a video into the
	// conversation, and scopes follow-up questions to it.
	ActiveVideoID string `json:"active_video_id"`

	LastIntent string `json:"last_intent"`
	LastQuery  string `json:"last_query"`
}
