package rag

import (
	"context"
	"testing"

	"ai-videochat-be/pkg/rag/prompt"
)

func TestRouterClassifiesValidIntent(t *testing.T) {
	client := newTestClient(`{"intent": "linkedin", "confidence": 0.92, "reasoning": "asks for a post"}`)
	router := NewTopLevelRouter(client, prompt.NewRenderer(), testLogger)

	state, err := router.Run(context.Background(), NewGraphState("write a linkedin post about go", "u1", nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Intent != IntentLinkedIn {
		t.Errorf("intent = %q, want linkedin", state.Intent)
	}
	if state.Metadata["intent_confidence"] != 0.92 {
		t.Errorf("intent_confidence = %v", state.Metadata["intent_confidence"])
	}
	if _, set := state.Metadata["intent_error"]; set {
		t.Error("intent_error set on a valid classification")
	}
}

func TestRouterFallsBackOnInvalidLabel(t *testing.T) {
	client := newTestClient(`{"intent": "banana", "confidence": 0.4, "reasoning": "??"}`)
	router := NewTopLevelRouter(client, prompt.NewRenderer(), testLogger)

	state, err := router.Run(context.Background(), NewGraphState("hello", "u1", nil, nil))
	if err != nil {
		t.Fatalf("invalid label must not fail the request: %v", err)
	}
	if state.Intent != IntentContent {
		t.Errorf("intent = %q, want fallback content", state.Intent)
	}
	if state.Metadata["intent_error"] != true {
		t.Error("intent_error not recorded")
	}
	if state.Metadata["original_invalid_intent"] != "banana" {
		t.Errorf("original_invalid_intent = %v", state.Metadata["original_invalid_intent"])
	}
}

func TestContentRouterFallsBackToChitchat(t *testing.T) {
	client := newTestClient(`{"intent": "metadata", "confidence": 0.5, "reasoning": "out of set"}`)
	router := NewContentRouter(client, prompt.NewRenderer(), testLogger)

	state, err := router.Run(context.Background(), NewGraphState("hi there", "u1", nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Intent != IntentChitchat {
		t.Errorf("intent = %q, want chitchat", state.Intent)
	}
}

func TestRouterPropagatesParseFailure(t *testing.T) {
	client := newTestClient(`no json here at all`)
	router := NewTopLevelRouter(client, prompt.NewRenderer(), testLogger)

	if _, err := router.Run(context.Background(), NewGraphState("hello", "u1", nil, nil)); err == nil {
		t.Fatal("expected a parse error to propagate")
	}
}
