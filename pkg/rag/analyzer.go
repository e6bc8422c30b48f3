package rag

import (
	"context"
	"fmt"
	"log"

	"ai-videochat-be/pkg/llm"
	"ai-videochat-be/pkg/rag/prompt"
)

type queryAnalysisResult struct {
	TitleKeywords        []string `json:"title_keywords"`
	TopicKeywords        []string `json:"topic_keywords"`
	AlternativePhrasings []string `json:"alternative_phrasings"`
	QueryIntent          string   `json:"query_intent"`
	Confidence           float64  `json:"confidence"`
	Reasoning            string   `json:"reasoning"`
}

// QueryAnalysisNode extracts structured search signals from the query with a
// single low-temperature structured call. No retrieval, no side effects
// beyond state and metadata.
type QueryAnalysisNode struct {
	client   *llm.Client
	renderer *prompt.Renderer
	logger   *log.Logger
}

func NewQueryAnalysisNode(client *llm.Client, renderer *prompt.Renderer, logger *log.Logger) *QueryAnalysisNode {
	return &QueryAnalysisNode{client: client, renderer: renderer, logger: logger}
}

func (n *QueryAnalysisNode) Name() string { return "query_analysis" }

func (n *QueryAnalysisNode) Run(ctx context.Context, state *GraphState) (*GraphState, error) {
	promptText, err := n.renderer.Render(prompt.QueryAnalysis, map[string]string{
		"Query": state.UserQuery,
	})
	if err != nil {
		return nil, err
	}

	var result queryAnalysisResult
	if err := n.client.InvokeStructured(ctx, promptText, &result, callOpts(state, 0.1, 512)...); err != nil {
		return nil, fmt.Errorf("query analysis failed: %w", err)
	}

	state.QueryAnalysis = &QueryAnalysis{
		TitleKeywords:        result.TitleKeywords,
		TopicKeywords:        result.TopicKeywords,
		AlternativePhrasings: result.AlternativePhrasings,
		QueryIntent:          result.QueryIntent,
		Confidence:           result.Confidence,
		Reasoning:            result.Reasoning,
	}
	state.MergeMetadata(Metadata{
		"query_intent":     result.QueryIntent,
		"query_confidence": result.Confidence,
	})
	return state, nil
}

type subjectResult struct {
	Subject    string  `json:"subject"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// SubjectExtractNode reduces the query to the bare subject being searched
// for. An empty extraction falls back to the raw query.
type SubjectExtractNode struct {
	client   *llm.Client
	renderer *prompt.Renderer
	logger   *log.Logger
}

func NewSubjectExtractNode(client *llm.Client, renderer *prompt.Renderer, logger *log.Logger) *SubjectExtractNode {
	return &SubjectExtractNode{client: client, renderer: renderer, logger: logger}
}

func (n *SubjectExtractNode) Name() string { return "subject_extract" }

func (n *SubjectExtractNode) Run(ctx context.Context, state *GraphState) (*GraphState, error) {
	promptText, err := n.renderer.Render(prompt.SubjectExtract, map[string]string{
		"Query": state.UserQuery,
	})
	if err != nil {
		return nil, err
	}

	var result subjectResult
	if err := n.client.InvokeStructured(ctx, promptText, &result, callOpts(state, 0.1, 256)...); err != nil {
		return nil, fmt.Errorf("subject extraction failed: %w", err)
	}

	subject := result.Subject
	if subject == "" {
		n.logger.Printf("[subject_extract] empty subject, falling back to raw query")
		subject = state.UserQuery
	}

	state.Subject = subject
	state.MergeMetadata(Metadata{
		"subject":            subject,
		"subject_confidence": result.Confidence,
	})
	return state, nil
}
