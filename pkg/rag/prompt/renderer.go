// Package prompt owns the pipeline's prompt templates. Templates are parsed
// once at construction; asking for a name that was never registered is a
// configuration bug and surfaces as an error, never a silent fallback.
package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the built-in template set. The templates are compiled
// into the binary, so a parse failure here is a programmer error.
func NewRenderer() *Renderer {
	root := template.New("prompts").Option("missingkey=error")
	for name, body := range builtinTemplates {
		template.Must(root.New(name).Parse(body))
	}
	return &Renderer{templates: root}
}

// Render executes the named template against data.
func (r *Renderer) Render(name string, data any) (string, error) {
	tmpl := r.templates.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("prompt template %q is not registered", name)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %q: %w", name, err)
	}
	return sb.String(), nil
}
