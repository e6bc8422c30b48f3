package rag

import (
	"context"
	"errors"
	"testing"
)

func TestFlowRunsStepsInOrder(t *testing.T) {
	var order []string
	mkNode := func(name string) Node {
		return nodeFunc{name: name, fn: func(state *GraphState) (*GraphState, error) {
			order = append(order, name)
			return state, nil
		}}
	}

	flow := NewFlow("test", testLogger).
		Then(mkNode("first")).
		Then(mkNode("second")).
		Then(mkNode("third"))

	if _, err := flow.Run(context.Background(), NewGraphState("q", "u1", nil, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Errorf("steps ran out of order: %v", order)
	}
}

func TestFlowAbortsOnStepFailure(t *testing.T) {
	boom := errors.New("boom")
	ran := false

	flow := NewFlow("test", testLogger).
		Then(nodeFunc{name: "fails", fn: func(*GraphState) (*GraphState, error) {
			return nil, boom
		}}).
		Then(nodeFunc{name: "never", fn: func(state *GraphState) (*GraphState, error) {
			ran = true
			return state, nil
		}})

	_, err := flow.Run(context.Background(), NewGraphState("q", "u1", nil, nil))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if ran {
		t.Error("later step ran after a failure")
	}
}

func TestFlowRetriesOnlyMarkedSteps(t *testing.T) {
	flaky := &stubNode{name: "flaky", errs: []error{errors.New("transient")}}
	plain := &stubNode{name: "plain", errs: []error{errors.New("transient")}}

	flow := NewFlow("test", testLogger).
		ThenRetry(flaky, fastRetry()).
		Then(plain)

	_, err := flow.Run(context.Background(), NewGraphState("q", "u1", nil, nil))
	if err == nil {
		t.Fatal("expected the unretried step to fail the flow")
	}
	if flaky.calls != 2 {
		t.Errorf("retried step calls = %d, want 2", flaky.calls)
	}
	if plain.calls != 1 {
		t.Errorf("unretried step calls = %d, want 1", plain.calls)
	}
}

// nodeFunc adapts a closure to the Node interface for tests.
type nodeFunc struct {
	name string
	fn   func(*GraphState) (*GraphState, error)
}

func (n nodeFunc) Name() string { return n.name }

func (n nodeFunc) Run(_ context.Context, state *GraphState) (*GraphState, error) {
	return n.fn(state)
}
