package pipeline

import "time"

// Outcome classifies how a step (or a whole run) ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeSkipped Outcome = "skipped"
)

// StepResult captures the outcome of a single pipeline step.
type StepResult struct {
	Step       Step
	ExitCode   int
	Duration   time.Duration
	StdoutTail string // last N lines of stdout
	StderrTail string // last N lines of stderr, or the launch error
	Outcome    Outcome
}

// RunReport is the structured outcome of one orchestrator invocation.
//
// The step list is a prefix-complete record: if step i failed, every
// step after i has OutcomeSkipped and HaltedAt points at i.
type RunReport struct {
	Tag      string
	Steps    []StepResult
	Outcome  Outcome // OutcomeSuccess or OutcomeFailure
	HaltedAt *int    // index of the failing step, nil if none failed
}

// FailedStep returns the failing step's result, or nil for a clean run.
func (r *RunReport) FailedStep() *StepResult {
	if r.HaltedAt == nil {
		return nil
	}
	return &r.Steps[*r.HaltedAt]
}

// ExitCode returns the process exit code the run maps to: 0 on success,
// the failing step's exit code otherwise. Launch failures carry the
// sentinel -1, which maps to 1.
func (r *RunReport) ExitCode() int {
	fs := r.FailedStep()
	if fs == nil {
		return 0
	}
	if fs.ExitCode <= 0 {
		return 1
	}
	return fs.ExitCode
}
