package rag

import (
	"context"
	"strings"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		text   string
		wantID string
		found  bool
	}{
		{"https://youtu.be/abc12345678", "abc12345678", true},
		{"check https://www.youtube.com/watch?v=dQw4w9WgXcQ out", "dQw4w9WgXcQ", true},
		{"https://youtube.com/shorts/xyz98765432", "xyz98765432", true},
		{"https://www.youtube.com/embed/AAAAAAAAAAA", "AAAAAAAAAAA", true},
		{"load https://youtu.be/short", "", false},
		{"what's up", "", false},
	}

	for _, tt := range tests {
		id, found := ExtractVideoID(tt.text)
		if found != tt.found || id != tt.wantID {
			t.Errorf("ExtractVideoID(%q) = (%q, %v), want (%q, %v)", tt.text, id, found, tt.wantID, tt.found)
		}
	}
}

func TestVideoLoadProducesLoadRequest(t *testing.T) {
	node := NewVideoLoadNode(testLogger)

	state, err := node.Run(context.Background(), NewGraphState("https://youtu.be/abc12345678", "u1", nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Response != "VIDEO_LOAD_REQUEST:abc12345678" {
		t.Errorf("response = %q", state.Response)
	}
	if state.Metadata["requires_external_handling"] != true {
		t.Error("requires_external_handling not set")
	}
	if state.Metadata["video_id"] != "abc12345678" {
		t.Errorf("video_id = %v", state.Metadata["video_id"])
	}
}

func TestVideoLoadWithoutURLGivesUsageHint(t *testing.T) {
	node := NewVideoLoadNode(testLogger)

	state, err := node.Run(context.Background(), NewGraphState("what's up", "u1", nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Metadata["error"] != "NO_URL_FOUND" {
		t.Errorf("error = %v", state.Metadata["error"])
	}
	if !strings.Contains(state.Response, "youtu.be") {
		t.Errorf("response lacks a usage hint: %q", state.Response)
	}
}
