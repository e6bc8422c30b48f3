package prompt

import (
	"strings"
	"testing"
)

func TestRenderKnownTemplate(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render(GradeChunk, map[string]string{
		"Query": "what is go",
		"Chunk": "go is a compiled language",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "what is go") || !strings.Contains(out, "go is a compiled language") {
		t.Errorf("context not interpolated:\n%s", out)
	}
}

func TestRenderAllRegisteredTemplates(t *testing.T) {
	r := NewRenderer()
	data := map[string]string{
		"Query": "q", "History": "h", "Chunk": "c", "Context": "ctx",
		"Topic": "t", "Subject": "s", "Candidates": "cand",
	}

	for name := range builtinTemplates {
		if _, err := r.Render(name, data); err != nil {
			t.Errorf("template %q failed to render: %v", name, err)
		}
	}
}

func TestRenderUnknownTemplateFails(t *testing.T) {
	r := NewRenderer()

	if _, err := r.Render("no_such_template", nil); err == nil {
		t.Fatal("unknown template name must be an error")
	}
}

func TestRenderMissingVariableFails(t *testing.T) {
	r := NewRenderer()

	if _, err := r.Render(GradeChunk, map[string]string{"Query": "only one"}); err == nil {
		t.Fatal("unresolved template variable must be an error")
	}
}
