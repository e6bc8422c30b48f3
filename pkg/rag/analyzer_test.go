package rag

import (
	"context"
	"testing"

	"ai-videochat-be/pkg/rag/prompt"
)

func TestQueryAnalysisMapsSignals(t *testing.T) {
	client := newTestClient(`{
		"title_keywords": ["docker", "networking"],
		"topic_keywords": ["containers"],
		"alternative_phrasings": ["videos on docker networks"],
		"query_intent": "topic_search",
		"confidence": 0.85,
		"reasoning": "user wants videos about a subject"
	}`)
	node := NewQueryAnalysisNode(client, prompt.NewRenderer(), testLogger)

	state, err := node.Run(context.Background(), NewGraphState("find my docker networking videos", "u1", nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.QueryAnalysis == nil {
		t.Fatal("query analysis not written")
	}
	if state.QueryAnalysis.QueryIntent != "topic_search" {
		t.Errorf("query_intent = %q", state.QueryAnalysis.QueryIntent)
	}
	if len(state.QueryAnalysis.TitleKeywords) != 2 {
		t.Errorf("title_keywords = %v", state.QueryAnalysis.TitleKeywords)
	}
	if state.Metadata["query_intent"] != "topic_search" || state.Metadata["query_confidence"] != 0.85 {
		t.Errorf("signals not mirrored into metadata: %v", state.Metadata)
	}
}

func TestSubjectExtractWritesSubject(t *testing.T) {
	client := newTestClient(`{"subject": "docker networking", "confidence": 0.9, "reasoning": "stripped command"}`)
	node := NewSubjectExtractNode(client, prompt.NewRenderer(), testLogger)

	state, err := node.Run(context.Background(), NewGraphState("show me videos about docker networking", "u1", nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Subject != "docker networking" {
		t.Errorf("subject = %q", state.Subject)
	}
	if state.Metadata["subject"] != "docker networking" {
		t.Errorf("subject not mirrored: %v", state.Metadata)
	}
}

func TestSubjectExtractFallsBackToRawQuery(t *testing.T) {
	client := newTestClient(`{"subject": "", "confidence": 0.1, "reasoning": "unclear"}`)
	node := NewSubjectExtractNode(client, prompt.NewRenderer(), testLogger)

	state, err := node.Run(context.Background(), NewGraphState("hmm videos maybe", "u1", nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Subject != "hmm videos maybe" {
		t.Errorf("subject = %q, want raw query fallback", state.Subject)
	}
}
