package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("hello", 100, 10)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Fatalf("expected single passthrough chunk, got %v", chunks)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 chars
	chunks := SplitText(text, 40, 10)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 40 {
			t.Errorf("chunk %d exceeds size: %d", i, len(c))
		}
	}
	// Consecutive chunks share the overlap region.
	first := chunks[0]
	second := chunks[1]
	if !strings.HasPrefix(second, first[len(first)-10:]) {
		t.Errorf("chunk 1 does not start with the tail of chunk 0")
	}
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("x", 95)
	chunks := SplitText(text, 30, 5)

	var total int
	for _, c := range chunks {
		total += len(c)
	}
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Errorf("last chunk is not a suffix of the input")
	}
	if total < len(text) {
		t.Errorf("chunks cover %d chars of %d", total, len(text))
	}
}

func TestSplitTextOverlapLargerThanChunk(t *testing.T) {
	// Degenerate config must still terminate and cover the input.
	text := strings.Repeat("y", 50)
	chunks := SplitText(text, 10, 20)
	if len(chunks) != 5 {
		t.Fatalf("expected 5 non-overlapping chunks, got %d", len(chunks))
	}
}
