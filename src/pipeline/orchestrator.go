package pipeline

import (
	"context"
	"strings"
	"time"
)

// DefaultTailLines bounds captured subprocess output per stream.
const DefaultTailLines = 200

// LaunchExitCode is the sentinel exit code recorded when the executor
// could not start (or finish observing) the step's process at all.
const LaunchExitCode = -1

// Options tunes a single Run invocation.
type Options struct {
	// DryRun records every step as skipped without invoking the executor.
	// The tag is still validated.
	DryRun bool

	// TailLines bounds StdoutTail/StderrTail. 0 means DefaultTailLines.
	TailLines int

	// OnStep, if set, is called after each step's result settles,
	// including skipped ones. Used by the CLI for live section rows.
	OnStep func(index int, result StepResult)
}

// Run executes steps in order against tag, halting on the first failure.
//
// Step failures — nonzero exits and launch errors alike — are data in the
// returned report, never an error. The only error return is a
// *ValidationError for a missing tag or a malformed step, raised before
// any step runs.
func Run(ctx context.Context, tag string, steps []Step, exec StepExecutor, opts Options) (*RunReport, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, &ValidationError{Field: "tag", Msg: "a build tag is required"}
	}
	for _, s := range steps {
		if len(s.Command) == 0 {
			return nil, &ValidationError{Field: "step", Msg: "step " + s.Name + " has an empty command"}
		}
	}

	tail := opts.TailLines
	if tail <= 0 {
		tail = DefaultTailLines
	}

	report := &RunReport{
		Tag:     tag,
		Steps:   make([]StepResult, 0, len(steps)),
		Outcome: OutcomeSuccess,
	}

	halted := false
	for i, step := range steps {
		var res StepResult

		switch {
		case opts.DryRun || halted:
			res = StepResult{Step: step, Outcome: OutcomeSkipped}
		default:
			res = runStep(ctx, step, tag, exec, tail)
			if res.Outcome == OutcomeFailure {
				halted = true
				idx := i
				report.HaltedAt = &idx
				report.Outcome = OutcomeFailure
			}
		}

		report.Steps = append(report.Steps, res)
		if opts.OnStep != nil {
			opts.OnStep(i, res)
		}
	}

	return report, nil
}

func runStep(ctx context.Context, step Step, tag string, exec StepExecutor, tail int) StepResult {
	start := time.Now()
	out, err := exec.Execute(ctx, step, tag)
	res := StepResult{
		Step:     step,
		Duration: time.Since(start),
	}

	if err != nil {
		// Could not launch (missing binary, bad dir, timeout).
		res.ExitCode = LaunchExitCode
		res.StderrTail = err.Error()
		res.Outcome = OutcomeFailure
		return res
	}

	res.ExitCode = out.ExitCode
	res.StdoutTail = lastLines(out.Stdout, tail)
	res.StderrTail = lastLines(out.Stderr, tail)
	if out.ExitCode != 0 {
		res.Outcome = OutcomeFailure
	} else {
		res.Outcome = OutcomeSuccess
	}
	return res
}

// lastLines returns the trailing n lines of s.
func lastLines(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
