package rag

import (
	"context"
	"testing"

	"ai-videochat-be/pkg/search"
)

func TestRetrieverShortCircuitsOnMissingInputs(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		userID string
	}{
		{"empty query", "", "u1"},
		{"empty user id", "what is go", ""},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := &fakeEmbedder{}
			node := NewRetrieverNode(embedder, &fakeSearcher{}, 12, testLogger)

			state, err := node.Run(context.Background(), NewGraphState(tt.query, tt.userID, nil, nil))
			if err != nil {
				t.Fatalf("missing inputs must not raise: %v", err)
			}
			if len(state.RetrievedChunks) != 0 {
				t.Errorf("retrieved_chunks = %v, want empty", state.RetrievedChunks)
			}
			if state.Metadata["retrieval_count"] != 0 {
				t.Errorf("retrieval_count = %v, want 0", state.Metadata["retrieval_count"])
			}
			if embedder.calls != 0 {
				t.Error("embedding called despite short circuit")
			}
		})
	}
}

func TestRetrieverMapsHitsInOrder(t *testing.T) {
	searcher := &fakeSearcher{chunkHits: []search.ChunkHit{
		{ChunkID: "c1", ChunkText: "first", ChunkIndex: 4, VideoID: "v1", VideoTitle: "Talk", Score: 0.91},
		{ChunkID: "c2", ChunkText: "second", ChunkIndex: 7, VideoID: "v2", VideoTitle: "Demo", Score: 0.84},
	}}
	node := NewRetrieverNode(&fakeEmbedder{}, searcher, 12, testLogger)

	state, err := node.Run(context.Background(), NewGraphState("what is go", "u1", nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.RetrievedChunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(state.RetrievedChunks))
	}
	first := state.RetrievedChunks[0]
	if first.ChunkID != "c1" || first.ChunkText != "first" || first.ChunkIndex != 4 || first.VideoID != "v1" || first.Score != 0.91 {
		t.Errorf("hit payload not mapped: %+v", first)
	}
	if state.Metadata["retrieval_count"] != 2 {
		t.Errorf("retrieval_count = %v, want 2", state.Metadata["retrieval_count"])
	}
}

func TestRetrieverPropagatesSearchFailure(t *testing.T) {
	searcher := &fakeSearcher{err: context.DeadlineExceeded}
	node := NewRetrieverNode(&fakeEmbedder{}, searcher, 12, testLogger)

	if _, err := node.Run(context.Background(), NewGraphState("q", "u1", nil, nil)); err == nil {
		t.Fatal("search failure must propagate for the retry policy to see")
	}
}
