package rag

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubNode struct {
	name  string
	calls int
	errs  []error
}

func (s *stubNode) Name() string { return s.name }

func (s *stubNode) Run(_ context.Context, state *GraphState) (*GraphState, error) {
	s.calls++
	if s.calls <= len(s.errs) && s.errs[s.calls-1] != nil {
		return nil, s.errs[s.calls-1]
	}
	return state, nil
}

func TestCallWithRetrySucceedsAfterTransientErrors(t *testing.T) {
	node := &stubNode{name: "flaky", errs: []error{errors.New("boom"), errors.New("boom")}}
	state := NewGraphState("q", "u1", nil, nil)

	result, err := CallWithRetry(context.Background(), fastRetry(), node, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != state {
		t.Error("state instance not threaded through")
	}
	if node.calls != 3 {
		t.Errorf("calls = %d, want 3", node.calls)
	}
}

func TestCallWithRetryExhaustsAttempts(t *testing.T) {
	boom := errors.New("boom")
	node := &stubNode{name: "down", errs: []error{boom, boom, boom, boom}}

	_, err := CallWithRetry(context.Background(), fastRetry(), node, NewGraphState("q", "u1", nil, nil))
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if !errors.Is(err, boom) {
		t.Errorf("underlying error not surfaced: %v", err)
	}
	if node.calls != 3 {
		t.Errorf("calls = %d, want 3", node.calls)
	}
}

func TestCallWithRetryDoesNotRetryContractViolations(t *testing.T) {
	node := &stubNode{name: "broken", errs: []error{ErrIntentNotSet, ErrIntentNotSet}}

	_, err := CallWithRetry(context.Background(), fastRetry(), node, NewGraphState("q", "u1", nil, nil))
	if !errors.Is(err, ErrIntentNotSet) {
		t.Fatalf("expected ErrIntentNotSet, got %v", err)
	}
	if node.calls != 1 {
		t.Errorf("contract violation retried: calls = %d", node.calls)
	}
}

func TestCallWithRetryNilPolicySingleAttempt(t *testing.T) {
	boom := errors.New("boom")
	node := &stubNode{name: "once", errs: []error{boom}}

	_, err := CallWithRetry(context.Background(), nil, node, NewGraphState("q", "u1", nil, nil))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if node.calls != 1 {
		t.Errorf("nil policy must mean one attempt, got %d", node.calls)
	}
}

func TestRetryDelayGrowsAndCaps(t *testing.T) {
	policy := &RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    4 * time.Second,
		Multiplier:  2,
	}

	if d := policy.delay(1); d != time.Second {
		t.Errorf("delay(1) = %v, want 1s", d)
	}
	if d := policy.delay(2); d != 2*time.Second {
		t.Errorf("delay(2) = %v, want 2s", d)
	}
	if d := policy.delay(4); d != 4*time.Second {
		t.Errorf("delay(4) = %v, want cap 4s", d)
	}
}

func TestRetryDelayJitterStaysBounded(t *testing.T) {
	policy := &RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    10 * time.Second,
		Multiplier:  2,
		Jitter:      true,
	}

	for i := 0; i < 50; i++ {
		d := policy.delay(2)
		if d < 2*time.Second || d > 2*time.Second+time.Duration(float64(2*time.Second)*0.25) {
			t.Fatalf("jittered delay out of bounds: %v", d)
		}
	}
}
