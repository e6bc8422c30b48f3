package rag

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"ai-videochat-be/pkg/llm"
	"ai-videochat-be/pkg/rag/prompt"
)

type rankedEntry struct {
	VideoID        string   `json:"video_id"`
	RelevanceScore float64  `json:"relevance_score"`
	Reasoning      string   `json:"reasoning"`
	KeyMatches     []string `json:"key_matches"`
}

type rankerResponse struct {
	Rankings []rankedEntry `json:"rankings"`
}

// ResultRankerNode re-orders video candidates by LLM-judged relevance.
// Ranking failures degrade to the original order instead of propagating: a
// slightly worse ordering beats a dead request.
type ResultRankerNode struct {
	client   *llm.Client
	renderer *prompt.Renderer
	logger   *log.Logger
}

func NewResultRankerNode(client *llm.Client, renderer *prompt.Renderer, logger *log.Logger) *ResultRankerNode {
	return &ResultRankerNode{client: client, renderer: renderer, logger: logger}
}

func (n *ResultRankerNode) Name() string { return "result_ranker" }

func (n *ResultRankerNode) Run(ctx context.Context, state *GraphState) (*GraphState, error) {
	if len(state.SearchResults) <= 1 {
		// Nothing to reorder; skip the LLM call.
		state.MergeMetadata(Metadata{
			"ranking_skipped":     true,
			"ranking_skip_reason": fmt.Sprintf("%d candidates", len(state.SearchResults)),
		})
		return state, nil
	}

	promptText, err := n.renderer.Render(prompt.RankResults, map[string]string{
		"Query":      state.UserQuery,
		"Subject":    state.Subject,
		"Candidates": formatCandidates(state.SearchResults),
	})
	if err != nil {
		return nil, err
	}

	var ranking rankerResponse
	if err := n.client.InvokeStructured(ctx, promptText, &ranking, callOpts(state, 0.1, 1024)...); err != nil {
		return nil, fmt.Errorf("result ranking failed: %w", err)
	}

	// Defensive join back onto the candidates by video id; ranked entries
	// that match nothing are dropped.
	byID := make(map[string]rankedEntry, len(ranking.Rankings))
	for _, entry := range ranking.Rankings {
		byID[entry.VideoID] = entry
	}

	var matched, unmatched []SearchResult
	for _, candidate := range state.SearchResults {
		entry, ok := byID[candidate.VideoID]
		if !ok {
			unmatched = append(unmatched, candidate)
			continue
		}
		candidate.OriginalScore = candidate.Score
		candidate.Score = entry.RelevanceScore
		candidate.RankReasoning = entry.Reasoning
		candidate.KeyMatches = entry.KeyMatches
		matched = append(matched, candidate)
	}

	if len(matched) == 0 {
		n.logger.Printf("[result_ranker] ranking matched no candidates, keeping original order")
		state.MergeMetadata(Metadata{"llm_ranking_applied": false})
		return state, nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})

	state.SearchResults = append(matched, unmatched...)
	state.MergeMetadata(Metadata{
		"llm_ranking_applied": true,
		"ranked_count":        len(matched),
	})
	return state, nil
}

func formatCandidates(results []SearchResult) string {
	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "- video_id: %s | title: %s | similarity: %.3f\n", r.VideoID, r.Title, r.Score)
	}
	return strings.TrimRight(sb.String(), "\n")
}
