package rag

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// RetryPolicy controls retries around a fallible node. Delays grow
// exponentially from BaseDelay by Multiplier up to MaxDelay; Jitter adds a
// random fraction of the computed delay so concurrent requests hitting the
// same dependency do not retry in lockstep.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	Jitter      bool
}

// DefaultRetryPolicy matches the policy shared by the retriever, grader and
// search-pipeline nodes.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    10 * time.Second,
		Multiplier:  2,
		Jitter:      true,
	}
}

// delay computes the backoff before attempt n (1-based: delay(1) precedes
// the second attempt).
func (p *RetryPolicy) delay(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		d *= p.Multiplier
	}
	if max := float64(p.MaxDelay); p.MaxDelay > 0 && d > max {
		d = max
	}
	if p.Jitter {
		d += rand.Float64() * d * 0.25
	}
	return time.Duration(d)
}

// CallWithRetry runs node under policy. A nil policy means a single attempt.
// Non-retryable errors (contract violations, context cancellation) surface
// immediately; exhausting the attempts surfaces the last error wrapped with
// the node name.
func CallWithRetry(ctx context.Context, policy *RetryPolicy, node Node, state *GraphState) (*GraphState, error) {
	attempts := 1
	if policy != nil && policy.MaxAttempts > 1 {
		attempts = policy.MaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		next, err := node.Run(ctx, state)
		if err == nil {
			return next, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		if attempt == attempts {
			break
		}

		select {
		case <-time.After(policy.delay(attempt)):
		case <-ctx.Done():
			return nil, fmt.Errorf("node %s: %w", node.Name(), ctx.Err())
		}
	}
	return nil, fmt.Errorf("node %s: attempts exhausted: %w", node.Name(), lastErr)
}
