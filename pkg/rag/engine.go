package rag

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"ai-videochat-be/pkg/embedding"
	"ai-videochat-be/pkg/llm"
	"ai-videochat-be/pkg/rag/prompt"
	"ai-videochat-be/pkg/search"
)

// Config holds the engine's tunable policy values. The score thresholds
// decide how the content handler responds: at or above AnswerThreshold the
// query is answered from transcript content, between the two thresholds the
// user gets a candidate listing, below ListThreshold plain conversation.
type Config struct {
	TopK            int
	VideoTopK       int
	AnswerThreshold float64
	ListThreshold   float64
	Retry           *RetryPolicy
}

func DefaultConfig() Config {
	return Config{
		TopK:            12,
		VideoTopK:       5,
		AnswerThreshold: 0.75,
		ListThreshold:   0.40,
		Retry:           DefaultRetryPolicy(),
	}
}

// Dependencies are the injected collaborators. Everything the engine talks
// to comes in through here, so tests substitute fakes freely.
type Dependencies struct {
	LLM      *llm.Client
	Renderer *prompt.Renderer
	Embedder embedding.EmbeddingProvider
	Searcher search.Searcher
	Catalog  VideoCatalog
	Logger   *log.Logger
}

// Engine is the top-level orchestrator: classify intent, dispatch to the
// matching flow, return the final state.
type Engine struct {
	router        *RouterNode
	contentRouter *RouterNode
	retriever     *RetrieverNode
	ranker        *ResultRankerNode

	flows map[Intent]*Flow

	cfg    Config
	logger *log.Logger
}

func NewEngine(deps Dependencies, cfg Config) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[RAG] ", log.LstdFlags)
	}
	if cfg.Retry == nil {
		cfg.Retry = DefaultRetryPolicy()
	}

	retriever := NewRetrieverNode(deps.Embedder, deps.Searcher, cfg.TopK, logger)
	grader := NewGraderNode(deps.LLM, deps.Renderer, logger)
	generator := NewGeneratorNode(deps.LLM, deps.Renderer, logger)
	subject := NewSubjectExtractNode(deps.LLM, deps.Renderer, logger)
	analysis := NewQueryAnalysisNode(deps.LLM, deps.Renderer, logger)
	videoSearch := NewVideoSearchNode(deps.Embedder, deps.Searcher, cfg.VideoTopK, logger)
	lookup := NewMetadataLookupNode(deps.Catalog, logger)
	videoLoad := NewVideoLoadNode(logger)

	flows := map[Intent]*Flow{
		IntentChitchat: NewFlow("chitchat", logger).
			Then(generator),
		IntentQA: NewFlow("qa", logger).
			ThenRetry(retriever, cfg.Retry).
			ThenRetry(grader, cfg.Retry).
			Then(generator),
		IntentLinkedIn: NewFlow("linkedin", logger).
			ThenRetry(retriever, cfg.Retry).
			ThenRetry(grader, cfg.Retry).
			Then(generator),
		IntentMetadata: NewFlow("metadata", logger).
			Then(lookup),
		IntentMetadataSearch: NewFlow("metadata_search", logger).
			ThenRetry(subject, cfg.Retry).
			ThenRetry(analysis, cfg.Retry).
			ThenRetry(videoSearch, cfg.Retry),
		IntentVideoLoad: NewFlow("video_load", logger).
			Then(videoLoad),
	}

	return &Engine{
		router:        NewTopLevelRouter(deps.LLM, deps.Renderer, logger),
		contentRouter: NewContentRouter(deps.LLM, deps.Renderer, logger),
		retriever:     retriever,
		ranker:        NewResultRankerNode(deps.LLM, deps.Renderer, logger),
		flows:         flows,
		cfg:           cfg,
		logger:        logger,
	}
}

// Flow returns the named flow; tests and the transport layer drive single
// flows through this.
func (e *Engine) Flow(intent Intent) *Flow {
	return e.flows[intent]
}

// Run processes one user message end to end. Intent-classification failure
// and branch-handler errors propagate; "nothing found" conditions come back
// as normal low-content responses.
func (e *Engine) Run(ctx context.Context, userQuery, userID string, history []llm.Message, config *RunConfig) (*GraphState, error) {
	state := NewGraphState(userQuery, userID, history, config)

	state, err := e.router.Run(ctx, state)
	if err != nil {
		e.logger.Printf("intent classification failed for user=%s: %v", userID, err)
		return nil, err
	}

	switch state.Intent {
	case IntentSystem:
		state, err = e.runSystem(ctx, state)
	case IntentLinkedIn:
		state, err = e.flows[IntentLinkedIn].Run(ctx, state)
	default:
		state, err = e.runContent(ctx, state)
	}
	if err != nil {
		e.logger.Printf("pipeline failed for user=%s intent=%s: %v", userID, intentOf(state), err)
		return nil, err
	}
	return state, nil
}

// runSystem handles library management. A pasted URL always wins over a
// listing request.
func (e *Engine) runSystem(ctx context.Context, state *GraphState) (*GraphState, error) {
	if _, ok := ExtractVideoID(state.UserQuery); ok {
		return e.flows[IntentVideoLoad].Run(ctx, state)
	}
	return e.flows[IntentMetadata].Run(ctx, state)
}

// runContent is the unified content handler: probe the transcript index,
// then branch on the best similarity score.
func (e *Engine) runContent(ctx context.Context, state *GraphState) (*GraphState, error) {
	state, err := CallWithRetry(ctx, e.cfg.Retry, e.retriever, state)
	if err != nil {
		return nil, err
	}

	best := bestScore(state.RetrievedChunks)
	state.MergeMetadata(Metadata{"best_score": best})

	switch {
	case best >= e.cfg.AnswerThreshold:
		state, err = e.contentRouter.Run(ctx, state)
		if err != nil {
			return nil, err
		}
		return e.flows[state.Intent].Run(ctx, state)

	case best >= e.cfg.ListThreshold:
		state, err = e.flows[IntentMetadataSearch].Run(ctx, state)
		if err != nil {
			return nil, err
		}
		state, err = e.ranker.Run(ctx, state)
		if err != nil {
			return nil, err
		}
		return e.formatSearchListing(state), nil

	default:
		state.Intent = IntentChitchat
		return e.flows[IntentChitchat].Run(ctx, state)
	}
}

// formatSearchListing renders ranked candidates as an HTML listing. No
// candidates is a normal answer, not an error.
func (e *Engine) formatSearchListing(state *GraphState) *GraphState {
	if len(state.SearchResults) == 0 {
		state.Response = "<p>I could not find any of your videos matching that. " +
			"Try different wording, or load a new video by pasting its link.</p>"
		state.MergeMetadata(Metadata{"response_type": "search_results"})
		return state
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<p>I found <b>%d</b> video(s) that might match:</p><ul>", len(state.SearchResults)))
	for _, r := range state.SearchResults {
		sb.WriteString("<li><b>")
		sb.WriteString(r.Title)
		sb.WriteString("</b></li>")
	}
	sb.WriteString("</ul><p>Ask me about any of them.</p>")

	state.Response = sb.String()
	state.MergeMetadata(Metadata{"response_type": "search_results"})
	return state
}

func bestScore(chunks []RetrievedChunk) float64 {
	best := 0.0
	for _, c := range chunks {
		if c.Score > best {
			best = c.Score
		}
	}
	return best
}

// intentOf guards logging when a branch returned a nil state.
func intentOf(state *GraphState) Intent {
	if state == nil {
		return ""
	}
	return state.Intent
}
