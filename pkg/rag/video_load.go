package rag

import (
	"context"
	"log"
	"regexp"
)

// videoIDPatterns cover the YouTube URL shapes users paste. The capture
// group is always the 11-character video id.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/watch\?v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
}

// ExtractVideoID returns the first YouTube video id found in text.
func ExtractVideoID(text string) (string, bool) {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// VideoLoadNode turns a pasted YouTube URL into a load request the transport
// layer fulfills out of band. The pipeline itself never downloads anything.
type VideoLoadNode struct {
	logger *log.Logger
}

func NewVideoLoadNode(logger *log.Logger) *VideoLoadNode {
	return &VideoLoadNode{logger: logger}
}

func (n *VideoLoadNode) Name() string { return "video_load" }

func (n *VideoLoadNode) Run(ctx context.Context, state *GraphState) (*GraphState, error) {
	videoID, ok := ExtractVideoID(state.UserQuery)
	if !ok {
		state.Response = "<p>I could not find a YouTube link in your message. " +
			"Paste a full video URL, for example <i>https://youtu.be/VIDEO_ID</i>, and I will load it.</p>"
		state.MergeMetadata(Metadata{"error": "NO_URL_FOUND"})
		return state, nil
	}

	n.logger.Printf("[video_load] user=%s video=%s", state.UserID, videoID)
	state.Response = "VIDEO_LOAD_REQUEST:" + videoID
	state.MergeMetadata(Metadata{
		"requires_external_handling": true,
		"video_id":                   videoID,
		"response_type":              "video_load",
	})
	return state, nil
}
