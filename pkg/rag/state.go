package rag

import "ai-videochat-be/pkg/llm"

// Intent is the closed classification set the routers produce. The top-level
// router emits system/linkedin/content; the content sub-router narrows to
// chitchat/qa. metadata and metadata_search are engine-internal targets.
type Intent string

const (
	IntentSystem         Intent = "system"
	IntentLinkedIn       Intent = "linkedin"
	IntentContent        Intent = "content"
	IntentChitchat       Intent = "chitchat"
	IntentQA             Intent = "qa"
	IntentMetadata       Intent = "metadata"
	IntentMetadataSearch Intent = "metadata_search"
	IntentVideoLoad      Intent = "video_load"
)

// Metadata is the diagnostic side-channel nodes accumulate into. Keys are
// merged additively; a node never replaces the map wholesale.
type Metadata map[string]any

// Merge shallow-merges updates into m, key by key. Incoming keys win, which
// is how a later node deliberately overrides an earlier value.
func (m Metadata) Merge(updates Metadata) {
	for k, v := range updates {
		m[k] = v
	}
}

// RunConfig carries optional per-request overrides.
type RunConfig struct {
	Model          string
	ChannelID      string
	CollectionName string
}

// RetrievedChunk is one vector-search hit. The payload is denormalized on
// the search side, so no secondary fetch follows retrieval.
type RetrievedChunk struct {
	ChunkID    string
	ChunkText  string
	ChunkIndex int
	VideoID    string
	Score      float64
}

// GradedChunk is a retrieved chunk the grader judged relevant.
type GradedChunk struct {
	RetrievedChunk
	RelevanceReasoning string
}

// QueryAnalysis holds the structured search signals extracted from the query.
type QueryAnalysis struct {
	TitleKeywords        []string
	TopicKeywords        []string
	AlternativePhrasings []string
	QueryIntent          string
	Confidence           float64
	Reasoning            string
}

// SearchResult is one video-granularity candidate. OriginalScore keeps the
// similarity score after the ranker overwrites Score.
type SearchResult struct {
	VideoID       string
	Title         string
	Score         float64
	OriginalScore float64
	RankReasoning string
	KeyMatches    []string
	ChunkCount    int
}

// GraphState is the single record threaded through every node of one
// pipeline invocation. UserQuery, UserID and History are inputs and must not
// change once the pipeline starts. A state is created fresh per request and
// discarded after the response is extracted.
type GraphState struct {
	UserQuery string
	UserID    string
	History   []llm.Message

	Config *RunConfig

	Intent          Intent
	RetrievedChunks []RetrievedChunk
	GradedChunks    []GradedChunk
	QueryAnalysis   *QueryAnalysis
	SearchResults   []SearchResult
	Subject         string
	Response        string
	Metadata        Metadata
}

func NewGraphState(userQuery, userID string, history []llm.Message, config *RunConfig) *GraphState {
	return &GraphState{
		UserQuery: userQuery,
		UserID:    userID,
		History:   history,
		Config:    config,
		Metadata:  Metadata{},
	}
}

// MergeMetadata merges updates into the state's metadata accumulator,
// allocating it on first use.
func (s *GraphState) MergeMetadata(updates Metadata) {
	if s.Metadata == nil {
		s.Metadata = Metadata{}
	}
	s.Metadata.Merge(updates)
}

// ChannelID returns the channel scope override, if any.
func (s *GraphState) ChannelID() string {
	if s.Config == nil {
		return ""
	}
	return s.Config.ChannelID
}

// ModelOverride returns the per-request model override, if any.
func (s *GraphState) ModelOverride() string {
	if s.Config == nil {
		return ""
	}
	return s.Config.Model
}
