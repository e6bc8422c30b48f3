package rag

// Shared fakes for the pipeline tests. The LLM is scripted with canned
// responses consumed in call order, so every test is deterministic.

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"ai-videochat-be/pkg/llm"
	"ai-videochat-be/pkg/rag/prompt"
	"ai-videochat-be/pkg/search"
)

var testLogger = log.New(io.Discard, "", 0)

type scriptedLLM struct {
	mu        sync.Mutex
	responses []string
	calls     int
	lastChat  []llm.Message
}

func (s *scriptedLLM) next() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.responses) == 0 {
		return "", errors.New("scripted llm: no responses left")
	}
	response := s.responses[0]
	s.responses = s.responses[1:]
	return response, nil
}

func (s *scriptedLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	s.mu.Lock()
	s.lastChat = history
	s.mu.Unlock()
	return s.next()
}

func (s *scriptedLLM) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return s.next()
}

func newTestClient(responses ...string) *llm.Client {
	return llm.NewClient(&scriptedLLM{responses: responses}, nil, testLogger)
}

type fakeEmbedder struct {
	calls     int
	lastTexts []string
	err       error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string, _ string) ([][]float32, error) {
	f.calls++
	f.lastTexts = texts
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

type fakeSearcher struct {
	chunkHits []search.ChunkHit
	videoHits []search.VideoHit
	err       error
}

func (f *fakeSearcher) SearchChunks(_ context.Context, _ []float32, _ search.Scope, _ int) ([]search.ChunkHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chunkHits, nil
}

func (f *fakeSearcher) SearchVideos(_ context.Context, _ []float32, _ search.Scope, _ int) ([]search.VideoHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.videoHits, nil
}

type fakeCatalog struct {
	videos []VideoInfo
	err    error
}

func (f *fakeCatalog) ListVideos(_ context.Context, _ string) ([]VideoInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.videos, nil
}

// fastRetry keeps retry semantics but no real sleeping.
func fastRetry() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Microsecond,
		MaxDelay:    time.Millisecond,
		Multiplier:  2,
	}
}

func newTestEngine(client *llm.Client, searcher *fakeSearcher, catalog *fakeCatalog) *Engine {
	return newTestEngineWithEmbedder(client, &fakeEmbedder{}, searcher, catalog)
}

func newTestEngineWithEmbedder(client *llm.Client, embedder *fakeEmbedder, searcher *fakeSearcher, catalog *fakeCatalog) *Engine {
	cfg := DefaultConfig()
	cfg.Retry = fastRetry()
	return NewEngine(Dependencies{
		LLM:      client,
		Renderer: prompt.NewRenderer(),
		Embedder: embedder,
		Searcher: searcher,
		Catalog:  catalog,
		Logger:   testLogger,
	}, cfg)
}

func sampleChunks(n int) []RetrievedChunk {
	chunks := make([]RetrievedChunk, 0, n)
	ids := []string{"c1", "c2", "c3", "c4", "c5"}
	for i := 0; i < n && i < len(ids); i++ {
		chunks = append(chunks, RetrievedChunk{
			ChunkID:    ids[i],
			ChunkText:  "transcript fragment " + ids[i],
			ChunkIndex: i,
			VideoID:    "v1",
			Score:      0.9 - float64(i)*0.1,
		})
	}
	return chunks
}
