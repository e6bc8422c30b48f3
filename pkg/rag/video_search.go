package rag

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-videochat-be/pkg/embedding"
	"ai-videochat-be/pkg/search"
)

// VideoSearchNode finds candidate videos for the extracted subject with a
// video-granularity similarity search.
type VideoSearchNode struct {
	embedder embedding.EmbeddingProvider
	searcher search.Searcher
	topK     int
	logger   *log.Logger
}

func NewVideoSearchNode(embedder embedding.EmbeddingProvider, searcher search.Searcher, topK int, logger *log.Logger) *VideoSearchNode {
	if topK <= 0 {
		topK = 5
	}
	return &VideoSearchNode{
		embedder: embedder,
		searcher: searcher,
		topK:     topK,
		logger:   logger,
	}
}

func (n *VideoSearchNode) Name() string { return "video_search" }

func (n *VideoSearchNode) Run(ctx context.Context, state *GraphState) (*GraphState, error) {
	searchText := n.buildSearchText(state)
	if searchText == "" || state.UserID == "" {
		state.SearchResults = []SearchResult{}
		state.MergeMetadata(Metadata{"search_result_count": 0})
		return state, nil
	}

	vectors, err := n.embedder.Embed(ctx, []string{searchText}, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed search subject: %w", err)
	}

	scope := search.Scope{UserID: state.UserID, ChannelID: state.ChannelID()}
	hits, err := n.searcher.SearchVideos(ctx, vectors[0], scope, n.topK)
	if err != nil {
		return nil, fmt.Errorf("video search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, SearchResult{
			VideoID:       hit.VideoID,
			Title:         hit.Title,
			Score:         hit.Score,
			OriginalScore: hit.Score,
			ChunkCount:    hit.ChunkCount,
		})
	}

	state.SearchResults = results
	state.MergeMetadata(Metadata{"search_result_count": len(results)})
	n.logger.Printf("[video_search] subject=%q results=%d", searchText, len(results))
	return state, nil
}

// buildSearchText combines the extracted subject with the analyzer's topic
// keywords; the raw query is the fallback when neither exists.
func (n *VideoSearchNode) buildSearchText(state *GraphState) string {
	parts := []string{}
	if state.Subject != "" {
		parts = append(parts, state.Subject)
	}
	if state.QueryAnalysis != nil && len(state.QueryAnalysis.TopicKeywords) > 0 {
		parts = append(parts, strings.Join(state.QueryAnalysis.TopicKeywords, " "))
	}
	if len(parts) == 0 {
		return strings.TrimSpace(state.UserQuery)
	}
	return strings.Join(parts, " ")
}
