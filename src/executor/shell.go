// Package executor provides the default StepExecutor: an os/exec based
// runner that launches each step's argv, substitutes the build tag, and
// captures bounded output tails.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sofmeright/forgeline/src/pipeline"
)

// TagPlaceholder is replaced with the build tag in step argv and env values.
const TagPlaceholder = "{tag}"

// Shell runs steps as external processes.
type Shell struct {
	Verbose   bool
	Stdout    io.Writer // real-time passthrough when Verbose
	Stderr    io.Writer
	TailLines int // bound on captured lines per stream, 0 = pipeline default
}

// NewShell creates a Shell executor with default passthrough writers.
func NewShell(verbose bool) *Shell {
	return &Shell{
		Verbose: verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

var _ pipeline.StepExecutor = (*Shell)(nil)

// Execute launches the step's command and waits for it.
//
// A nonzero exit is NOT an error: it comes back in ExecResult.ExitCode.
// Errors are reserved for launch problems (missing binary, bad working
// directory) and per-step timeouts.
func (s *Shell) Execute(ctx context.Context, step pipeline.Step, tag string) (*pipeline.ExecResult, error) {
	argv := resolveArgv(step.Command, tag)

	cancel := func() {}
	if step.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, step.Timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = step.Dir
	cmd.Env = stepEnv(step.Env, tag)
	// Unblocks the pipe readers if a killed step leaves children behind.
	cmd.WaitDelay = 10 * time.Second

	tail := s.TailLines
	if tail <= 0 {
		tail = pipeline.DefaultTailLines
	}
	outTail := newTailWriter(tail)
	errTail := newTailWriter(tail)

	var outDst, errDst io.Writer = outTail, errTail
	if s.Verbose {
		outDst = io.MultiWriter(outTail, s.Stdout)
		errDst = io.MultiWriter(errTail, s.Stderr)
		fmt.Fprintf(s.Stderr, "exec: %s\n", strings.Join(argv, " "))
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe for %s: %w", step.Name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe for %s: %w", step.Name, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", step.Name, err)
	}

	var g errgroup.Group
	g.Go(func() error { _, err := io.Copy(outDst, stdout); return err })
	g.Go(func() error { _, err := io.Copy(errDst, stderr); return err })
	copyErr := g.Wait()

	waitErr := cmd.Wait()

	if step.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%s timed out after %s", step.Name, step.Timeout)
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%s canceled: %w", step.Name, ctx.Err())
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return &pipeline.ExecResult{
				ExitCode: exitErr.ExitCode(),
				Stdout:   outTail.String(),
				Stderr:   errTail.String(),
			}, nil
		}
		return nil, fmt.Errorf("waiting for %s: %w", step.Name, waitErr)
	}
	if copyErr != nil {
		return nil, fmt.Errorf("reading %s output: %w", step.Name, copyErr)
	}

	return &pipeline.ExecResult{
		ExitCode: 0,
		Stdout:   outTail.String(),
		Stderr:   errTail.String(),
	}, nil
}

// resolveArgv substitutes the tag placeholder in each argument.
func resolveArgv(command []string, tag string) []string {
	argv := make([]string, len(command))
	for i, a := range command {
		argv[i] = strings.ReplaceAll(a, TagPlaceholder, tag)
	}
	return argv
}

// stepEnv builds the child environment: inherited, plus step env (tag
// placeholders resolved), plus BUILD_TAG for scripts that expect it.
func stepEnv(env map[string]string, tag string) []string {
	out := os.Environ()

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+strings.ReplaceAll(env[k], TagPlaceholder, tag))
	}

	return append(out, "BUILD_TAG="+tag)
}
