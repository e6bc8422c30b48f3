package rag

import (
	"fmt"
	"strings"

	"ai-videochat-be/pkg/llm"
)

// formatHistory renders the conversation history into the plain-text block
// the prompt templates expect. Only the most recent maxTurns messages are
// kept to bound the prompt size.
func formatHistory(history []llm.Message, maxTurns int) string {
	if len(history) == 0 {
		return "(no prior messages)"
	}
	history = recentHistory(history, maxTurns)
	var sb strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&sb, "%s: %s\n", msg.Role, msg.Content)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// recentHistory keeps the most recent maxTurns messages to bound prompt size.
func recentHistory(history []llm.Message, maxTurns int) []llm.Message {
	if maxTurns > 0 && len(history) > maxTurns {
		return history[len(history)-maxTurns:]
	}
	return history
}

// callOpts assembles the LLM options for one node call: user tag for cost
// attribution, sampling temperature, token bound, and the per-request model
// override when present.
func callOpts(state *GraphState, temperature float64, maxTokens int) []llm.Option {
	opts := []llm.Option{
		llm.WithUser(state.UserID),
		llm.WithTemperature(temperature),
	}
	if maxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(maxTokens))
	}
	if model := state.ModelOverride(); model != "" {
		opts = append(opts, llm.WithModel(model))
	}
	return opts
}
