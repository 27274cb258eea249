package pipeline

import "fmt"

// ValidationError reports bad orchestrator input. It aborts a run before
// any step executes; step failures are never surfaced this way.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pipeline: invalid %s: %s", e.Field, e.Msg)
}
