package rag

import "testing"

func TestMetadataMergeIsAdditive(t *testing.T) {
	state := NewGraphState("q", "u1", nil, nil)

	state.MergeMetadata(Metadata{"retrieval_count": 3})
	state.MergeMetadata(Metadata{"graded_count": 3, "relevant_count": 1})

	if state.Metadata["retrieval_count"] != 3 {
		t.Errorf("earlier key lost after merge: %v", state.Metadata)
	}
	if state.Metadata["relevant_count"] != 1 {
		t.Errorf("new key missing after merge: %v", state.Metadata)
	}
}

func TestMetadataMergeOverridesPerKey(t *testing.T) {
	state := NewGraphState("q", "u1", nil, nil)

	state.MergeMetadata(Metadata{"response_type": "chitchat", "intent_confidence": 0.8})
	state.MergeMetadata(Metadata{"response_type": "answer"})

	if state.Metadata["response_type"] != "answer" {
		t.Errorf("explicit override did not apply: %v", state.Metadata["response_type"])
	}
	if state.Metadata["intent_confidence"] != 0.8 {
		t.Errorf("unrelated key disturbed by override: %v", state.Metadata["intent_confidence"])
	}
}

func TestMergeMetadataAllocatesOnNilMap(t *testing.T) {
	state := &GraphState{}
	state.MergeMetadata(Metadata{"a": 1})
	if state.Metadata["a"] != 1 {
		t.Errorf("merge into zero-value state failed: %v", state.Metadata)
	}
}

func TestRunConfigAccessors(t *testing.T) {
	state := NewGraphState("q", "u1", nil, nil)
	if state.ChannelID() != "" || state.ModelOverride() != "" {
		t.Error("nil config should read as empty overrides")
	}

	state.Config = &RunConfig{Model: "llama3", ChannelID: "ch-9"}
	if state.ModelOverride() != "llama3" || state.ChannelID() != "ch-9" {
		t.Error("config overrides not surfaced")
	}
}
