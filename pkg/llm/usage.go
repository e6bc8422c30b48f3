package llm

import (
	"log"
	"sync"
)

// Usage describes a single LLM call for cost attribution.
// Providers here do not expose token counts uniformly, so character counts
// are recorded as the cost proxy.
type Usage struct {
	UserID          string
	Model           string
	Operation       string // "structured" or "text"
	PromptChars     int
	CompletionChars int
}

// UsageRecorder receives one record per completed LLM call.
type UsageRecorder interface {
	Record(u Usage)
}

// LogUsageRecorder writes usage records to a logger.
type LogUsageRecorder struct {
	logger *log.Logger
}

func NewLogUsageRecorder(logger *log.Logger) *LogUsageRecorder {
	return &LogUsageRecorder{logger: logger}
}

func (r *LogUsageRecorder) Record(u Usage) {
	r.logger.Printf("[USAGE] user=%s model=%s op=%s prompt_chars=%d completion_chars=%d",
		u.UserID, u.Model, u.Operation, u.PromptChars, u.CompletionChars)
}

// MemoryUsageRecorder accumulates records in memory.
type MemoryUsageRecorder struct {
	mu      sync.Mutex
	records []Usage
}

func NewMemoryUsageRecorder() *MemoryUsageRecorder {
	return &MemoryUsageRecorder{}
}

func (r *MemoryUsageRecorder) Record(u Usage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, u)
}

func (r *MemoryUsageRecorder) Records() []Usage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Usage, len(r.records))
	copy(out, r.records)
	return out
}
