package rag

import (
	"context"
	"fmt"
	"log"

	"ai-videochat-be/pkg/llm"
	"ai-videochat-be/pkg/rag/prompt"
)

// routerDecision is the structured classification schema.
type routerDecision struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// RouterNode classifies the user's message into a closed intent set. A label
// outside the set is recovered locally by falling back to the default
// intent; an LLM failure propagates.
type RouterNode struct {
	name     string
	client   *llm.Client
	renderer *prompt.Renderer
	template string
	allowed  map[Intent]bool
	fallback Intent
	logger   *log.Logger
}

// NewTopLevelRouter classifies into system/linkedin/content, defaulting to
// content.
func NewTopLevelRouter(client *llm.Client, renderer *prompt.Renderer, logger *log.Logger) *RouterNode {
	return &RouterNode{
		name:     "router",
		client:   client,
		renderer: renderer,
		template: prompt.RouterClassify,
		allowed: map[Intent]bool{
			IntentSystem:   true,
			IntentLinkedIn: true,
			IntentContent:  true,
		},
		fallback: IntentContent,
		logger:   logger,
	}
}

// NewContentRouter classifies into qa/chitchat, defaulting to chitchat.
func NewContentRouter(client *llm.Client, renderer *prompt.Renderer, logger *log.Logger) *RouterNode {
	return &RouterNode{
		name:     "content_router",
		client:   client,
		renderer: renderer,
		template: prompt.ContentClassify,
		allowed: map[Intent]bool{
			IntentQA:       true,
			IntentChitchat: true,
		},
		fallback: IntentChitchat,
		logger:   logger,
	}
}

func (n *RouterNode) Name() string { return n.name }

func (n *RouterNode) Run(ctx context.Context, state *GraphState) (*GraphState, error) {
	promptText, err := n.renderer.Render(n.template, map[string]string{
		"Query":   state.UserQuery,
		"History": formatHistory(state.History, 6),
	})
	if err != nil {
		return nil, err
	}

	var decision routerDecision
	if err := n.client.InvokeStructured(ctx, promptText, &decision, callOpts(state, 0.1, 256)...); err != nil {
		return nil, fmt.Errorf("intent classification failed: %w", err)
	}

	intent := Intent(decision.Intent)
	if !n.allowed[intent] {
		n.logger.Printf("[%s] invalid intent label %q, falling back to %q", n.name, decision.Intent, n.fallback)
		state.MergeMetadata(Metadata{
			"intent_error":            true,
			"original_invalid_intent": decision.Intent,
		})
		intent = n.fallback
	}

	state.Intent = intent
	state.MergeMetadata(Metadata{
		"intent_confidence": decision.Confidence,
		"intent_reasoning":  decision.Reasoning,
	})
	return state, nil
}
