package rag

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"ai-videochat-be/pkg/llm"
	"ai-videochat-be/pkg/rag/prompt"
)

// Sampling bounds per generation branch.
const (
	chitchatTemperature = 0.9
	chitchatMaxTokens   = 512
	qaTemperature       = 0.4
	qaMaxTokens         = 2048
	linkedinTemperature = 0.7
	linkedinMaxTokens   = 1024
)

var linkedinCommandPattern = regexp.MustCompile(
	`(?i)^\s*(?:please\s+)?(?:write|create|generate|draft|make)\s+(?:me\s+)?(?:a\s+|an\s+)?linkedin\s+post\s+(?:about|on|for)\s+`,
)

// GeneratorNode produces the final response text, branching on intent. Being
// invoked without an intent is a caller bug and fails fast.
type GeneratorNode struct {
	client   *llm.Client
	renderer *prompt.Renderer
	logger   *log.Logger
}

func NewGeneratorNode(client *llm.Client, renderer *prompt.Renderer, logger *log.Logger) *GeneratorNode {
	return &GeneratorNode{client: client, renderer: renderer, logger: logger}
}

func (n *GeneratorNode) Name() string { return "generator" }

func (n *GeneratorNode) Run(ctx context.Context, state *GraphState) (*GraphState, error) {
	switch state.Intent {
	case "":
		return nil, ErrIntentNotSet
	case IntentChitchat:
		return n.generateChitchat(ctx, state)
	case IntentQA:
		return n.generateQA(ctx, state)
	case IntentLinkedIn:
		return n.generateLinkedIn(ctx, state)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, state.Intent)
	}
}

// generateChitchat talks to the model over the native chat interface: the
// template is the system message, prior turns ride as real messages instead
// of being flattened into the prompt.
func (n *GeneratorNode) generateChitchat(ctx context.Context, state *GraphState) (*GraphState, error) {
	systemText, err := n.renderer.Render(prompt.GenerateChitchat, nil)
	if err != nil {
		return nil, err
	}

	history := recentHistory(state.History, 10)
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemText})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: state.UserQuery})

	response, err := n.client.InvokeChat(ctx, messages, callOpts(state, chitchatTemperature, chitchatMaxTokens)...)
	if err != nil {
		return nil, err
	}

	state.Response = response
	state.MergeMetadata(Metadata{"response_type": "chitchat"})
	return state, nil
}

func (n *GeneratorNode) generateQA(ctx context.Context, state *GraphState) (*GraphState, error) {
	if len(state.GradedChunks) == 0 {
		// Answering without grounding beats refusing to answer.
		n.logger.Printf("[generator] qa with no relevant chunks, answering ungrounded")
	}

	promptText, err := n.renderer.Render(prompt.GenerateQA, map[string]string{
		"Query":   state.UserQuery,
		"History": formatHistory(state.History, 10),
		"Context": formatChunkContext(state.GradedChunks),
	})
	if err != nil {
		return nil, err
	}

	response, err := n.client.InvokeText(ctx, promptText, callOpts(state, qaTemperature, qaMaxTokens)...)
	if err != nil {
		return nil, err
	}

	sourceChunks := make([]string, 0, len(state.GradedChunks))
	for _, chunk := range state.GradedChunks {
		sourceChunks = append(sourceChunks, chunk.ChunkID)
	}

	state.Response = response
	state.MergeMetadata(Metadata{
		"response_type": "answer",
		"chunks_used":   len(state.GradedChunks),
		"source_chunks": sourceChunks,
	})
	return state, nil
}

func (n *GeneratorNode) generateLinkedIn(ctx context.Context, state *GraphState) (*GraphState, error) {
	topic := extractLinkedInTopic(state.UserQuery)

	promptText, err := n.renderer.Render(prompt.GenerateLinkedIn, map[string]string{
		"Topic":   topic,
		"Context": formatChunkContext(state.GradedChunks),
	})
	if err != nil {
		return nil, err
	}

	response, err := n.client.InvokeText(ctx, promptText, callOpts(state, linkedinTemperature, linkedinMaxTokens)...)
	if err != nil {
		return nil, err
	}

	state.Response = response
	state.MergeMetadata(Metadata{
		"response_type": "linkedin_post",
		"topic":         topic,
	})
	return state, nil
}

// extractLinkedInTopic strips the command phrasing ("write a linkedin post
// about ...") and returns what remains. If nothing strips, the raw query is
// the topic.
func extractLinkedInTopic(query string) string {
	stripped := linkedinCommandPattern.ReplaceAllString(query, "")
	stripped = strings.TrimSpace(stripped)
	if stripped == "" {
		return strings.TrimSpace(query)
	}
	return stripped
}

func formatChunkContext(chunks []GradedChunk) string {
	if len(chunks) == 0 {
		return "(no transcript excerpts available)"
	}
	var sb strings.Builder
	for i, chunk := range chunks {
		fmt.Fprintf(&sb, "[Excerpt %d]\n%s\n\n", i+1, chunk.ChunkText)
	}
	return strings.TrimRight(sb.String(), "\n")
}
