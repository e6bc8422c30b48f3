package llm

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
)

type scriptedProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (p *scriptedProvider) next() (string, error) {
	i := p.calls
	p.calls++
	var err error
	if i < len(p.errs) {
		err = p.errs[i]
	}
	var resp string
	if i < len(p.responses) {
		resp = p.responses[i]
	}
	return resp, err
}

func (p *scriptedProvider) Chat(_ context.Context, _ []Message, _ ...Option) (string, error) {
	return p.next()
}

func (p *scriptedProvider) Generate(_ context.Context, _ string, _ ...Option) (string, error) {
	return p.next()
}

func newTestClient(p LLMProvider, rec UsageRecorder) *Client {
	c := NewClient(p, rec, log.New(io.Discard, "", 0))
	c.baseDelay = 0 // No sleeping in tests
	return c
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "bare object",
			response: `{"intent": "qa"}`,
			want:     `{"intent": "qa"}`,
		},
		{
			name:     "fenced json",
			response: "```json\n{\"intent\": \"qa\"}\n```",
			want:     `{"intent": "qa"}`,
		},
		{
			name:     "prose prefix",
			response: `Sure! Here is the result: {"intent": "qa"} Hope that helps.`,
			want:     `{"intent": "qa"}`,
		},
		{
			name:     "no json",
			response: "I cannot answer that.",
			want:     "",
		},
		{
			name:     "empty",
			response: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.response)
			if got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.response, got, tt.want)
			}
		})
	}
}

func TestInvokeStructured(t *testing.T) {
	type schema struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
	}

	t.Run("valid structured output", func(t *testing.T) {
		p := &scriptedProvider{responses: []string{`{"intent": "content", "confidence": 0.9}`}}
		c := newTestClient(p, nil)

		var out schema
		if err := c.InvokeStructured(context.Background(), "classify", &out); err != nil {
			t.Fatalf("InvokeStructured returned error: %v", err)
		}
		if out.Intent != "content" || out.Confidence != 0.9 {
			t.Errorf("unexpected parse result: %+v", out)
		}
	})

	t.Run("garbage output yields ParseError", func(t *testing.T) {
		p := &scriptedProvider{responses: []string{"no json here"}}
		c := newTestClient(p, nil)

		var out schema
		err := c.InvokeStructured(context.Background(), "classify", &out)

		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected *ParseError, got %v", err)
		}
		if p.calls != 1 {
			t.Errorf("parse failures must not be retried by the client, got %d calls", p.calls)
		}
	})

	t.Run("invalid json yields ParseError", func(t *testing.T) {
		p := &scriptedProvider{responses: []string{`{"intent": `}}
		c := newTestClient(p, nil)

		var out schema
		err := c.InvokeStructured(context.Background(), "classify", &out)

		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected *ParseError, got %v", err)
		}
	})
}

func TestClientRetriesTransientProviderErrors(t *testing.T) {
	p := &scriptedProvider{
		responses: []string{"", "", `{"ok": true}`},
		errs:      []error{errors.New("timeout"), errors.New("rate limited"), nil},
	}
	c := newTestClient(p, nil)

	var out map[string]any
	if err := c.InvokeStructured(context.Background(), "x", &out); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if p.calls != 3 {
		t.Errorf("expected 3 provider calls, got %d", p.calls)
	}
}

func TestClientGivesUpAfterMaxAttempts(t *testing.T) {
	boom := errors.New("connection refused")
	p := &scriptedProvider{errs: []error{boom, boom, boom}}
	c := newTestClient(p, nil)

	_, err := c.InvokeText(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if p.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", p.calls)
	}
}

func TestClientDoesNotRetryCancelledContext(t *testing.T) {
	p := &scriptedProvider{errs: []error{context.Canceled}}
	c := newTestClient(p, nil)

	_, err := c.InvokeText(context.Background(), "x")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if p.calls != 1 {
		t.Errorf("cancelled calls must not be retried, got %d calls", p.calls)
	}
}

func TestInvokeChatRetriesAndRecordsUsage(t *testing.T) {
	p := &scriptedProvider{
		responses: []string{"", "nice to meet you"},
		errs:      []error{errors.New("timeout"), nil},
	}
	rec := NewMemoryUsageRecorder()
	c := newTestClient(p, rec)

	history := []Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hello"},
	}
	out, err := c.InvokeChat(context.Background(), history, WithUser("user-42"))
	if err != nil {
		t.Fatalf("InvokeChat: %v", err)
	}
	if out != "nice to meet you" {
		t.Errorf("out = %q", out)
	}
	if p.calls != 2 {
		t.Errorf("expected 2 provider calls, got %d", p.calls)
	}

	records := rec.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 usage record, got %d", len(records))
	}
	u := records[0]
	if u.PromptChars != len("be brief")+len("hello") {
		t.Errorf("PromptChars = %d", u.PromptChars)
	}
	if u.CompletionChars != len("nice to meet you") {
		t.Errorf("CompletionChars = %d", u.CompletionChars)
	}
}

func TestUsageRecording(t *testing.T) {
	p := &scriptedProvider{responses: []string{"hello there"}}
	rec := NewMemoryUsageRecorder()
	c := newTestClient(p, rec)

	_, err := c.InvokeText(context.Background(), "hi", WithUser("user-42"), WithModel("llama3"))
	if err != nil {
		t.Fatalf("InvokeText: %v", err)
	}

	records := rec.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 usage record, got %d", len(records))
	}
	u := records[0]
	if u.UserID != "user-42" {
		t.Errorf("UserID = %q, want user-42", u.UserID)
	}
	if u.Model != "llama3" {
		t.Errorf("Model = %q, want llama3", u.Model)
	}
	if u.Operation != "text" {
		t.Errorf("Operation = %q, want text", u.Operation)
	}
	if u.PromptChars != 2 || u.CompletionChars != len("hello there") {
		t.Errorf("char counts wrong: %+v", u)
	}
}
