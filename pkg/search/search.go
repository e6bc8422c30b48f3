// Package search defines the vector-search seam the pipeline retrieves
// through. Implementations live with the persistence layer.
package search

import "context"

// Scope filters a search to one user's data, optionally narrowed to a
// channel. CollectionName selects an alternate index when set.
type Scope struct {
	UserID         string
	ChannelID      string
	CollectionName string
}

// ChunkHit is one transcript-chunk similarity hit. The payload fields are
// denormalized onto the hit so the caller never needs a secondary fetch.
type ChunkHit struct {
	ChunkID    string
	ChunkText  string
	ChunkIndex int
	VideoID    string
	VideoTitle string
	Score      float64
}

// VideoHit is one video-granularity hit, aggregated over the video's chunks.
type VideoHit struct {
	VideoID    string
	Title      string
	Score      float64
	ChunkCount int
}

// Searcher performs cosine-similarity searches over indexed transcripts.
// Results come back ordered by descending score.
type Searcher interface {
	SearchChunks(ctx context.Context, queryVector []float32, scope Scope, topK int) ([]ChunkHit, error)
	SearchVideos(ctx context.Context, queryVector []float32, scope Scope, topK int) ([]VideoHit, error)
}
