package embedding

import "context"

// Task types understood by embedding backends. Backends that make no
// query/document distinction ignore them.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// EmbeddingProvider defines the interface for generating text embeddings.
// Embed returns one vector per input text, in input order. An empty input
// slice yields an empty result without a network call.
type EmbeddingProvider interface {
	Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error)
}
