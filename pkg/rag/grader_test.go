package rag

import (
	"context"
	"testing"

	"ai-videochat-be/pkg/rag/prompt"
)

const (
	gradeRelevant    = `{"is_relevant": true, "reasoning": "covers the question"}`
	gradeNotRelevant = `{"is_relevant": false, "reasoning": "different topic"}`
)

func TestGraderKeepsSubsetInInputOrder(t *testing.T) {
	client := newTestClient(gradeRelevant, gradeNotRelevant, gradeRelevant)
	node := NewGraderNode(client, prompt.NewRenderer(), testLogger)

	state := NewGraphState("what is go", "u1", nil, nil)
	state.RetrievedChunks = sampleChunks(3)

	state, err := node.Run(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.GradedChunks) != 2 {
		t.Fatalf("got %d graded chunks, want 2", len(state.GradedChunks))
	}
	if state.GradedChunks[0].ChunkID != "c1" || state.GradedChunks[1].ChunkID != "c3" {
		t.Errorf("order not preserved: %s, %s", state.GradedChunks[0].ChunkID, state.GradedChunks[1].ChunkID)
	}
	if state.Metadata["graded_count"] != 3 || state.Metadata["relevant_count"] != 2 || state.Metadata["not_relevant_count"] != 1 {
		t.Errorf("counts wrong: %v", state.Metadata)
	}
}

func TestGraderIsIdempotentWithDeterministicClient(t *testing.T) {
	run := func() *GraphState {
		client := newTestClient(gradeRelevant, gradeNotRelevant, gradeRelevant)
		node := NewGraderNode(client, prompt.NewRenderer(), testLogger)
		state := NewGraphState("what is go", "u1", nil, nil)
		state.RetrievedChunks = sampleChunks(3)
		state, err := node.Run(context.Background(), state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return state
	}

	first, second := run(), run()
	if len(first.GradedChunks) != len(second.GradedChunks) {
		t.Fatalf("graded counts differ: %d vs %d", len(first.GradedChunks), len(second.GradedChunks))
	}
	for i := range first.GradedChunks {
		if first.GradedChunks[i].ChunkID != second.GradedChunks[i].ChunkID {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
	if first.Metadata["relevant_count"] != second.Metadata["relevant_count"] {
		t.Error("aggregate counts differ between runs")
	}
}

func TestGraderEmptyQueryShortCircuits(t *testing.T) {
	client := newTestClient() // any call would error
	node := NewGraderNode(client, prompt.NewRenderer(), testLogger)

	state := NewGraphState("", "u1", nil, nil)
	state.RetrievedChunks = sampleChunks(2)

	state, err := node.Run(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.GradedChunks) != 0 {
		t.Errorf("graded_chunks = %v, want empty", state.GradedChunks)
	}
	if _, set := state.Metadata["graded_count"]; set {
		t.Error("partial metadata written on empty-query short circuit")
	}
}

func TestGraderEmptyRetrievalZeroCounts(t *testing.T) {
	node := NewGraderNode(newTestClient(), prompt.NewRenderer(), testLogger)

	state, err := node.Run(context.Background(), NewGraphState("what is go", "u1", nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Metadata["graded_count"] != 0 || state.Metadata["relevant_count"] != 0 {
		t.Errorf("counts not zeroed: %v", state.Metadata)
	}
}

func TestGraderIsolatesPerChunkFailures(t *testing.T) {
	// Second chunk's response is garbage; grading must continue.
	client := newTestClient(gradeRelevant, `total garbage, no json`, gradeRelevant)
	node := NewGraderNode(client, prompt.NewRenderer(), testLogger)

	state := NewGraphState("what is go", "u1", nil, nil)
	state.RetrievedChunks = sampleChunks(3)

	state, err := node.Run(context.Background(), state)
	if err != nil {
		t.Fatalf("one bad chunk aborted the batch: %v", err)
	}
	if len(state.GradedChunks) != 2 {
		t.Errorf("got %d graded chunks, want 2", len(state.GradedChunks))
	}
	if state.Metadata["not_relevant_count"] != 1 {
		t.Errorf("failed chunk not counted as not relevant: %v", state.Metadata)
	}
}

func TestGraderFlagsNoRelevantChunks(t *testing.T) {
	client := newTestClient(gradeNotRelevant, gradeNotRelevant, gradeNotRelevant)
	node := NewGraderNode(client, prompt.NewRenderer(), testLogger)

	state := NewGraphState("what is go", "u1", nil, nil)
	state.RetrievedChunks = sampleChunks(3)

	state, err := node.Run(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.GradedChunks) != 0 {
		t.Fatalf("graded_chunks = %v, want empty", state.GradedChunks)
	}
	if state.Metadata["no_relevant_chunks"] != true {
		t.Error("no_relevant_chunks flag not set")
	}
}
