package rag

import (
	"context"
	"errors"
)

// Contract violations. These indicate a caller bug, never a transient
// condition, so the retry wrapper refuses to retry them.
var (
	ErrIntentNotSet  = errors.New("generator invoked with no intent set")
	ErrUnknownIntent = errors.New("unknown intent")
)

// isRetryable reports whether an error is worth another attempt under a node
// retry policy. Contract violations and context errors are not.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrIntentNotSet) || errors.Is(err, ErrUnknownIntent) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
