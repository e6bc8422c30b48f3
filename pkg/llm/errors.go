package llm

import "fmt"

// ParseError indicates the model replied, but the reply could not be parsed
// into the requested schema. Callers with a retry policy treat this as
// retryable (models occasionally emit broken JSON).
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	raw := e.Raw
	if len(raw) > 200 {
		raw = raw[:200] + "..."
	}
	return fmt.Sprintf("structured output parse failed: %v | raw: %s", e.Err, raw)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
