package rag

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Node is one pipeline step. Run receives the current state and returns the
// updated state; nodes mutate and return the same instance.
type Node interface {
	Name() string
	Run(ctx context.Context, state *GraphState) (*GraphState, error)
}

type flowStep struct {
	node   Node
	policy *RetryPolicy
}

// Flow is a fixed sequence of nodes with a single entry and terminal. Steps
// run strictly in order; a step failure aborts the flow.
type Flow struct {
	name   string
	steps  []flowStep
	logger *log.Logger
}

func NewFlow(name string, logger *log.Logger) *Flow {
	if logger == nil {
		logger = log.New(os.Stdout, "[FLOW] ", log.LstdFlags)
	}
	return &Flow{name: name, logger: logger}
}

// Then appends a node without a retry policy.
func (f *Flow) Then(node Node) *Flow {
	f.steps = append(f.steps, flowStep{node: node})
	return f
}

// ThenRetry appends a node wrapped in the given retry policy.
func (f *Flow) ThenRetry(node Node, policy *RetryPolicy) *Flow {
	f.steps = append(f.steps, flowStep{node: node, policy: policy})
	return f
}

func (f *Flow) Name() string {
	return f.name
}

// Run executes the flow's steps in declared order, threading state through.
func (f *Flow) Run(ctx context.Context, state *GraphState) (*GraphState, error) {
	for _, step := range f.steps {
		var err error
		state, err = CallWithRetry(ctx, step.policy, step.node, state)
		if err != nil {
			f.logger.Printf("flow %s failed at node %s: %v", f.name, step.node.Name(), err)
			return nil, fmt.Errorf("flow %s: %w", f.name, err)
		}
	}
	return state, nil
}
