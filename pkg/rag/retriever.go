package rag

import (
	"context"
	"fmt"
	"log"

	"ai-videochat-be/pkg/embedding"
	"ai-videochat-be/pkg/search"
)

// RetrieverNode embeds the query and runs a scoped similarity search over
// transcript chunks. Missing query or user id short-circuits to an empty
// result; that is deliberate degradation, not an error.
type RetrieverNode struct {
	embedder embedding.EmbeddingProvider
	searcher search.Searcher
	topK     int
	logger   *log.Logger
}

func NewRetrieverNode(embedder embedding.EmbeddingProvider, searcher search.Searcher, topK int, logger *log.Logger) *RetrieverNode {
	if topK <= 0 {
		topK = 12
	}
	return &RetrieverNode{
		embedder: embedder,
		searcher: searcher,
		topK:     topK,
		logger:   logger,
	}
}

func (n *RetrieverNode) Name() string { return "retriever" }

func (n *RetrieverNode) Run(ctx context.Context, state *GraphState) (*GraphState, error) {
	if state.UserQuery == "" || state.UserID == "" {
		n.logger.Printf("[retriever] missing query or user id, skipping retrieval")
		state.RetrievedChunks = []RetrievedChunk{}
		state.MergeMetadata(Metadata{"retrieval_count": 0})
		return state, nil
	}

	vectors, err := n.embedder.Embed(ctx, []string{state.UserQuery}, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scope := search.Scope{UserID: state.UserID, ChannelID: state.ChannelID()}
	if state.Config != nil {
		scope.CollectionName = state.Config.CollectionName
	}

	hits, err := n.searcher.SearchChunks(ctx, vectors[0], scope, n.topK)
	if err != nil {
		return nil, fmt.Errorf("chunk search failed: %w", err)
	}

	chunks := make([]RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		chunks = append(chunks, RetrievedChunk{
			ChunkID:    hit.ChunkID,
			ChunkText:  hit.ChunkText,
			ChunkIndex: hit.ChunkIndex,
			VideoID:    hit.VideoID,
			Score:      hit.Score,
		})
	}

	state.RetrievedChunks = chunks
	state.MergeMetadata(Metadata{"retrieval_count": len(chunks)})
	n.logger.Printf("[retriever] user=%s retrieved=%d", state.UserID, len(chunks))
	return state, nil
}
