// Package pipeline implements the ordered build step orchestrator.
// Steps run one at a time, in order; the first failure halts the run
// and everything after it is recorded as skipped.
package pipeline

import (
	"context"
	"time"
)

// Step is a single build invocation in the pipeline.
// Immutable once constructed; identified by its position in the sequence.
type Step struct {
	Name    string
	Command []string // argv, never empty
	Dir     string   // working directory, "" = inherit
	Env     map[string]string
	Timeout time.Duration // 0 = no per-step timeout
}

// ExecResult is what a StepExecutor reports back for one step.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// StepExecutor runs one step's external command. Implementations own
// process launch, output capture, and any per-step timeout; a timeout
// is reported as a launch-style error, not a hang.
type StepExecutor interface {
	Execute(ctx context.Context, step Step, tag string) (*ExecResult, error)
}
