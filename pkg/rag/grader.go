package rag

import (
	"context"
	"log"

	"ai-videochat-be/pkg/llm"
	"ai-videochat-be/pkg/rag/prompt"
)

type gradeDecision struct {
	IsRelevant bool   `json:"is_relevant"`
	Reasoning  string `json:"reasoning"`
}

// GraderNode classifies each retrieved chunk as relevant or not with one
// structured LLM call per chunk. A single chunk failing never aborts the
// batch; the chunk counts as not-relevant. Relevant chunks keep their input
// order.
type GraderNode struct {
	client   *llm.Client
	renderer *prompt.Renderer
	logger   *log.Logger
}

func NewGraderNode(client *llm.Client, renderer *prompt.Renderer, logger *log.Logger) *GraderNode {
	return &GraderNode{client: client, renderer: renderer, logger: logger}
}

func (n *GraderNode) Name() string { return "grader" }

func (n *GraderNode) Run(ctx context.Context, state *GraphState) (*GraphState, error) {
	if state.UserQuery == "" {
		n.logger.Printf("[grader] empty query, nothing to grade")
		state.GradedChunks = []GradedChunk{}
		return state, nil
	}
	if len(state.RetrievedChunks) == 0 {
		state.GradedChunks = []GradedChunk{}
		state.MergeMetadata(Metadata{
			"graded_count":       0,
			"relevant_count":     0,
			"not_relevant_count": 0,
		})
		return state, nil
	}

	graded := make([]GradedChunk, 0, len(state.RetrievedChunks))
	notRelevant := 0
	for _, chunk := range state.RetrievedChunks {
		promptText, err := n.renderer.Render(prompt.GradeChunk, map[string]string{
			"Query": state.UserQuery,
			"Chunk": chunk.ChunkText,
		})
		if err != nil {
			return nil, err
		}

		var decision gradeDecision
		if err := n.client.InvokeStructured(ctx, promptText, &decision, callOpts(state, 0.0, 256)...); err != nil {
			// One chunk failing to grade must not abort the rest.
			n.logger.Printf("[grader] chunk %s failed to grade, treating as not relevant: %v", chunk.ChunkID, err)
			notRelevant++
			continue
		}

		if decision.IsRelevant {
			graded = append(graded, GradedChunk{
				RetrievedChunk:     chunk,
				RelevanceReasoning: decision.Reasoning,
			})
		} else {
			notRelevant++
		}
	}

	state.GradedChunks = graded
	updates := Metadata{
		"graded_count":       len(state.RetrievedChunks),
		"relevant_count":     len(graded),
		"not_relevant_count": notRelevant,
	}
	if len(graded) == 0 {
		updates["no_relevant_chunks"] = true
	}
	state.MergeMetadata(updates)
	n.logger.Printf("[grader] graded=%d relevant=%d", len(state.RetrievedChunks), len(graded))
	return state, nil
}
