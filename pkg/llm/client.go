package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"strings"
	"time"
)

// Client wraps an LLMProvider with structured-output parsing, per-call usage
// tracking, and internal retry on transient provider failures.
//
// Parse failures are NOT retried here: they surface as *ParseError so the
// calling node's own retry policy can decide (a node without a policy fails
// immediately, per the error taxonomy).
type Client struct {
	provider LLMProvider
	recorder UsageRecorder
	logger   *log.Logger

	// Provider-level retry (distinct from node-level retry policies).
	maxAttempts int
	baseDelay   time.Duration
}

func NewClient(provider LLMProvider, recorder UsageRecorder, logger *log.Logger) *Client {
	return &Client{
		provider:    provider,
		recorder:    recorder,
		logger:      logger,
		maxAttempts: 3,
		baseDelay:   500 * time.Millisecond,
	}
}

// InvokeStructured asks the model for a JSON object matching the schema of
// 'out' and unmarshals the extracted JSON into it.
func (c *Client) InvokeStructured(ctx context.Context, prompt string, out any, opts ...Option) error {
	raw, err := c.generateWithRetry(ctx, prompt, opts...)
	if err != nil {
		return err
	}

	c.record("structured", prompt, raw, opts...)

	jsonContent := ExtractJSON(raw)
	if jsonContent == "" {
		return &ParseError{Raw: raw, Err: errors.New("no JSON object found in response")}
	}

	if err := json.Unmarshal([]byte(jsonContent), out); err != nil {
		return &ParseError{Raw: raw, Err: err}
	}

	return nil
}

// InvokeText asks the model for free text.
func (c *Client) InvokeText(ctx context.Context, prompt string, opts ...Option) (string, error) {
	raw, err := c.generateWithRetry(ctx, prompt, opts...)
	if err != nil {
		return "", err
	}

	c.record("text", prompt, raw, opts...)
	return raw, nil
}

// InvokeChat sends a full conversation history for free-text completion.
func (c *Client) InvokeChat(ctx context.Context, history []Message, opts ...Option) (string, error) {
	var raw string
	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		raw, err = c.provider.Chat(ctx, history, opts...)
		if err == nil {
			break
		}
		if !c.backoff(ctx, attempt, err) {
			return "", err
		}
	}
	if err != nil {
		return "", err
	}

	promptChars := 0
	for _, m := range history {
		promptChars += len(m.Content)
	}
	c.recordChars("text", promptChars, len(raw), opts...)
	return raw, nil
}

func (c *Client) generateWithRetry(ctx context.Context, prompt string, opts ...Option) (string, error) {
	var raw string
	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		raw, err = c.provider.Generate(ctx, prompt, opts...)
		if err == nil {
			return raw, nil
		}
		if !c.backoff(ctx, attempt, err) {
			return "", err
		}
	}
	return "", err
}

// backoff sleeps before the next provider attempt. Returns false when no
// further attempt should be made.
func (c *Client) backoff(ctx context.Context, attempt int, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if attempt >= c.maxAttempts {
		return false
	}

	delay := c.baseDelay * time.Duration(1<<(attempt-1))
	if c.baseDelay > 0 {
		//nolint:gosec // jitter only, not security sensitive
		delay += time.Duration(rand.Int63n(int64(c.baseDelay)))
	}

	c.logger.Printf("[LLM] Provider call failed (attempt %d/%d), retrying in %v: %v",
		attempt, c.maxAttempts, delay, err)

	select {
	case <-time.After(delay):
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Client) record(operation, prompt, completion string, opts ...Option) {
	c.recordChars(operation, len(prompt), len(completion), opts...)
}

func (c *Client) recordChars(operation string, promptChars, completionChars int, opts ...Option) {
	if c.recorder == nil {
		return
	}
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	c.recorder.Record(Usage{
		UserID:          options.UserID,
		Model:           options.Model,
		Operation:       operation,
		PromptChars:     promptChars,
		CompletionChars: completionChars,
	})
}

// ExtractJSON pulls the JSON object out of a model reply. Models often wrap
// JSON in markdown fences or lead with prose, so fences are stripped first
// and then the outermost brace pair is taken.
func ExtractJSON(response string) string {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	startIdx := strings.Index(cleaned, "{")
	endIdx := strings.LastIndex(cleaned, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return cleaned[startIdx : endIdx+1]
}
