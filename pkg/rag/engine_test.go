package rag

import (
	"context"
	"strings"
	"testing"

	"ai-videochat-be/pkg/search"
)

const routerContent = `{"intent": "content", "confidence": 0.9, "reasoning": "general message"}`

func TestEngineChitchatEndToEnd(t *testing.T) {
	// Empty index: the content handler falls through to conversation.
	client := newTestClient(
		routerContent,
		"<p>Hello! Load a video and ask me about it.</p>",
	)
	engine := newTestEngine(client, &fakeSearcher{}, &fakeCatalog{})

	state, err := engine.Run(context.Background(), "hello", "u1", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Response == "" {
		t.Error("empty response")
	}
	if state.Metadata["response_type"] != "chitchat" {
		t.Errorf("response_type = %v", state.Metadata["response_type"])
	}
}

func TestEngineQANoRelevantChunksStillAnswers(t *testing.T) {
	searcher := &fakeSearcher{chunkHits: []search.ChunkHit{
		{ChunkID: "c1", ChunkText: "a", ChunkIndex: 0, VideoID: "v1", Score: 0.9},
		{ChunkID: "c2", ChunkText: "b", ChunkIndex: 1, VideoID: "v1", Score: 0.85},
		{ChunkID: "c3", ChunkText: "c", ChunkIndex: 2, VideoID: "v1", Score: 0.8},
	}}
	client := newTestClient(
		routerContent,
		`{"intent": "qa", "confidence": 0.9, "reasoning": "question about content"}`,
		gradeNotRelevant,
		gradeNotRelevant,
		gradeNotRelevant,
		"<p>I don't have material covering that, but generally speaking...</p>",
	)
	engine := newTestEngine(client, searcher, &fakeCatalog{})

	state, err := engine.Run(context.Background(), "what is zig", "u1", nil, nil)
	if err != nil {
		t.Fatalf("generation must survive zero relevant chunks: %v", err)
	}
	if len(state.GradedChunks) != 0 {
		t.Errorf("graded_chunks = %v, want empty", state.GradedChunks)
	}
	if state.Metadata["no_relevant_chunks"] != true {
		t.Error("no_relevant_chunks not set")
	}
	if state.Response == "" {
		t.Error("empty response")
	}
}

func TestEngineSystemVideoLoad(t *testing.T) {
	client := newTestClient(`{"intent": "system", "confidence": 0.95, "reasoning": "pasted a url"}`)
	engine := newTestEngine(client, &fakeSearcher{}, &fakeCatalog{})

	state, err := engine.Run(context.Background(), "https://youtu.be/abc12345678", "u1", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Response != "VIDEO_LOAD_REQUEST:abc12345678" {
		t.Errorf("response = %q", state.Response)
	}
	if state.Metadata["requires_external_handling"] != true {
		t.Error("requires_external_handling not set")
	}
}

func TestEngineSystemListsVideosWithoutURL(t *testing.T) {
	client := newTestClient(`{"intent": "system", "confidence": 0.9, "reasoning": "asks for library"}`)
	catalog := &fakeCatalog{videos: []VideoInfo{
		{VideoID: "v1", Title: "Docker Deep Dive", ChannelTitle: "DevOps Hour"},
		{VideoID: "v2", Title: "Go Concurrency", ChannelTitle: "GopherCon"},
	}}
	engine := newTestEngine(client, &fakeSearcher{}, catalog)

	state, err := engine.Run(context.Background(), "what videos do I have?", "u1", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Metadata["video_count"] != 2 {
		t.Errorf("video_count = %v", state.Metadata["video_count"])
	}
	if !strings.Contains(state.Response, "Docker Deep Dive") {
		t.Errorf("listing missing titles: %q", state.Response)
	}
}

func TestEngineLinkedInFlow(t *testing.T) {
	searcher := &fakeSearcher{chunkHits: []search.ChunkHit{
		{ChunkID: "c1", ChunkText: "goroutines scale well", VideoID: "v1", Score: 0.8},
	}}
	client := newTestClient(
		`{"intent": "linkedin", "confidence": 0.93, "reasoning": "wants a post"}`,
		gradeRelevant,
		"<p>Concurrency changed how we ship software. #golang</p>",
	)
	engine := newTestEngine(client, searcher, &fakeCatalog{})

	state, err := engine.Run(context.Background(), "write a linkedin post about goroutines", "u1", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Metadata["response_type"] != "linkedin_post" {
		t.Errorf("response_type = %v", state.Metadata["response_type"])
	}
	if state.Metadata["topic"] != "goroutines" {
		t.Errorf("topic = %v", state.Metadata["topic"])
	}
}

func TestEngineMidScoreListsCandidates(t *testing.T) {
	searcher := &fakeSearcher{
		chunkHits: []search.ChunkHit{
			{ChunkID: "c1", ChunkText: "docker basics", VideoID: "v1", Score: 0.55},
		},
		videoHits: []search.VideoHit{
			{VideoID: "v1", Title: "Docker Basics", Score: 0.55, ChunkCount: 10},
			{VideoID: "v2", Title: "Docker Networking", Score: 0.50, ChunkCount: 8},
		},
	}
	client := newTestClient(
		routerContent,
		`{"subject": "docker", "confidence": 0.9, "reasoning": "search request"}`,
		`{"title_keywords": ["docker"], "topic_keywords": ["containers"], "alternative_phrasings": [], "query_intent": "find_video", "confidence": 0.85, "reasoning": "library search"}`,
		`{"rankings": [
			{"video_id": "v2", "relevance_score": 0.9, "reasoning": "closer match", "key_matches": ["docker"]},
			{"video_id": "v1", "relevance_score": 0.6, "reasoning": "broader", "key_matches": []}
		]}`,
	)
	engine := newTestEngine(client, searcher, &fakeCatalog{})

	state, err := engine.Run(context.Background(), "do I have videos about docker?", "u1", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Metadata["response_type"] != "search_results" {
		t.Errorf("response_type = %v", state.Metadata["response_type"])
	}
	if state.QueryAnalysis == nil {
		t.Fatal("query analysis did not run")
	}
	if state.Metadata["query_intent"] != "find_video" {
		t.Errorf("query_intent = %v", state.Metadata["query_intent"])
	}
	if state.Metadata["llm_ranking_applied"] != true {
		t.Error("ranking not applied")
	}
	if state.SearchResults[0].VideoID != "v2" {
		t.Errorf("ranking order not reflected: %+v", state.SearchResults)
	}
	if !strings.Contains(state.Response, "Docker Networking") {
		t.Errorf("listing missing titles: %q", state.Response)
	}
}

func TestEngineSearchTextCarriesAnalyzedKeywords(t *testing.T) {
	searcher := &fakeSearcher{
		chunkHits: []search.ChunkHit{
			{ChunkID: "c1", ChunkText: "docker basics", VideoID: "v1", Score: 0.55},
		},
		videoHits: []search.VideoHit{
			{VideoID: "v1", Title: "Docker Basics", Score: 0.55, ChunkCount: 10},
		},
	}
	client := newTestClient(
		routerContent,
		`{"subject": "docker", "confidence": 0.9, "reasoning": "search request"}`,
		`{"title_keywords": ["docker"], "topic_keywords": ["containers", "networking"], "alternative_phrasings": [], "query_intent": "find_video", "confidence": 0.85, "reasoning": "library search"}`,
		`{"rankings": [{"video_id": "v1", "relevance_score": 0.8, "reasoning": "match", "key_matches": ["docker"]}]}`,
	)
	embedder := &fakeEmbedder{}
	engine := newTestEngineWithEmbedder(client, embedder, searcher, &fakeCatalog{})

	_, err := engine.Run(context.Background(), "do I have videos about docker?", "u1", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The last embed call is the video search; its text combines the
	// extracted subject with the analyzer's topic keywords.
	if len(embedder.lastTexts) != 1 {
		t.Fatalf("lastTexts = %v", embedder.lastTexts)
	}
	searchText := embedder.lastTexts[0]
	for _, want := range []string{"docker", "containers", "networking"} {
		if !strings.Contains(searchText, want) {
			t.Errorf("search text %q missing %q", searchText, want)
		}
	}
}

func TestEngineFallsBackToContentOnInvalidIntent(t *testing.T) {
	client := newTestClient(
		`{"intent": "video_admin", "confidence": 0.3, "reasoning": "??"}`,
		"<p>Hi there!</p>",
	)
	engine := newTestEngine(client, &fakeSearcher{}, &fakeCatalog{})

	state, err := engine.Run(context.Background(), "hey", "u1", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Metadata["intent_error"] != true {
		t.Error("intent_error not recorded")
	}
	if state.Metadata["original_invalid_intent"] != "video_admin" {
		t.Errorf("original_invalid_intent = %v", state.Metadata["original_invalid_intent"])
	}
	if state.Response == "" {
		t.Error("fallback path produced no response")
	}
}

func TestEnginePropagatesRouterFailure(t *testing.T) {
	client := newTestClient("not json in any way")
	engine := newTestEngine(client, &fakeSearcher{}, &fakeCatalog{})

	if _, err := engine.Run(context.Background(), "hello", "u1", nil, nil); err == nil {
		t.Fatal("total classification failure must propagate")
	}
}
