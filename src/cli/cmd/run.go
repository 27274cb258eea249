package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sofmeright/forgeline/src/executor"
	"github.com/sofmeright/forgeline/src/gitrev"
	"github.com/sofmeright/forgeline/src/output"
	"github.com/sofmeright/forgeline/src/pipeline"
)

var (
	runTag       string
	runDryRun    bool
	runSkipGuard bool
	runTailLines int
	runJUnitDir  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the build pipeline",
	Long: `Run the configured build steps in order against a version tag.

Steps execute one at a time; the first failing step halts the pipeline and
everything after it is reported as skipped. The process exit code is the
failing step's exit code.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVarP(&runTag, "tag", "t", "", "version tag passed to every step (required)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "validate and report without executing steps")
	runCmd.Flags().BoolVar(&runSkipGuard, "skip-guard", false, "skip the pre-run secrets gate")
	runCmd.Flags().IntVar(&runTailLines, "tail", 0, "override captured output lines per step")
	runCmd.Flags().StringVar(&runJUnitDir, "junit", "", "write a JUnit XML report to this directory")
	runCmd.MarkFlagRequired("tag")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	ctx := context.Background()
	color := output.UseColor()
	w := os.Stdout
	pipelineStart := time.Now()

	// Git context is best-effort: outside a repo only {tag} templates work.
	info, gitErr := gitrev.Detect(rootDir)
	if gitErr != nil && verbose {
		fmt.Fprintf(os.Stderr, "gitrev: %v\n", gitErr)
	}

	output.ContextBlock(w, runContextKV(info))

	// --- Guard ---
	guardSummary := "--skip-guard"
	if !runSkipGuard && cfg.Guard.SecretsEnabled() {
		output.SectionStart(w, "fl_guard", "Guard")
		var guardErr error
		guardSummary, guardErr = runGuardGate(w, color)
		output.SectionEnd(w, "fl_guard")
		if guardErr != nil {
			return guardErr
		}
	} else if runSkipGuard {
		guardSummary = "--skip-guard"
	} else {
		guardSummary = "disabled"
	}

	// --- Resolve ---
	fields := gitrev.Fields(runTag, info)
	steps, err := cfg.Steps(fields)
	if err != nil {
		return err
	}

	// --- Execute ---
	output.SectionStart(w, "fl_run", "Run")
	runStart := time.Now()

	sh := executor.NewShell(verbose)
	tail := runTailLines
	if tail == 0 {
		tail = cfg.Pipeline.TailLines
	}
	sh.TailLines = tail

	sec := output.NewSection(w, "Run", 0, color)
	report, err := pipeline.Run(ctx, runTag, steps, sh, pipeline.Options{
		DryRun:    runDryRun,
		TailLines: tail,
		OnStep: func(i int, res pipeline.StepResult) {
			output.StepRow(sec, i, res)
		},
	})
	if err != nil {
		sec.Close()
		output.SectionEnd(w, "fl_run")
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			return &ExitCodeError{Code: 1, Msg: verr.Error()}
		}
		return err
	}

	if fs := report.FailedStep(); fs != nil {
		output.FailureDetail(sec, fs)
	}
	sec.Close()
	output.SectionEnd(w, "fl_run")
	runElapsed := time.Since(runStart)

	// --- Report artifacts ---
	junitDir := runJUnitDir
	if junitDir == "" && output.IsCI() {
		junitDir = ".forgeline/reports"
	}
	if junitDir != "" && !runDryRun {
		if jErr := output.WriteRunJUnit(junitDir, report); jErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write junit report: %v\n", jErr)
		}
	}

	badgeSummary := ""
	if cfg.Badge.Output != "" && !runDryRun {
		badgeSummary = writeStatusBadge(string(report.Outcome))
	}

	// --- Summary ---
	totalElapsed := time.Since(pipelineStart)

	sumSec := output.NewSection(w, "Summary", 0, color)
	output.SummaryRow(w, "guard", "success", guardSummary, color)
	output.SummaryRow(w, "run", string(report.Outcome), runSummary(report, runElapsed), color)
	if badgeSummary != "" {
		output.SummaryRow(w, "badge", "success", badgeSummary, color)
	}
	sumSec.Separator()
	output.SummaryTotal(w, totalElapsed, string(report.Outcome), color)
	sumSec.Close()

	if report.Outcome == pipeline.OutcomeFailure {
		fs := report.FailedStep()
		return &ExitCodeError{
			Code: report.ExitCode(),
			Msg:  fmt.Sprintf("step %q failed", fs.Step.Name),
		}
	}
	return nil
}

// runSummary builds the one-line run summary for the summary table.
func runSummary(report *pipeline.RunReport, elapsed time.Duration) string {
	var ok, skipped int
	for _, sr := range report.Steps {
		switch sr.Outcome {
		case pipeline.OutcomeSuccess:
			ok++
		case pipeline.OutcomeSkipped:
			skipped++
		}
	}
	s := fmt.Sprintf("%d step(s), %d ok", len(report.Steps), ok)
	if skipped > 0 {
		s += fmt.Sprintf(", %d skipped", skipped)
	}
	if report.HaltedAt != nil {
		s += fmt.Sprintf(", halted at %d", *report.HaltedAt)
	}
	return s + ", " + elapsed.Round(time.Millisecond).String()
}

// runContextKV returns key-value pairs for the run context block.
func runContextKV(info *gitrev.Info) []output.KV {
	kv := []output.KV{{Key: "Tag", Value: runTag}}

	if info != nil {
		kv = append(kv, output.KV{Key: "Commit", Value: info.SHA})
		if info.Branch != "" {
			kv = append(kv, output.KV{Key: "Branch", Value: info.Branch})
		}
		if info.Dirty {
			kv = append(kv, output.KV{Key: "Worktree", Value: "dirty"})
		}
	}
	if pipe := os.Getenv("CI_PIPELINE_ID"); pipe != "" {
		kv = append(kv, output.KV{Key: "Pipeline", Value: pipe})
	}

	kv = append(kv, output.KV{Key: "Steps", Value: strconv.Itoa(len(cfg.Pipeline.Steps))})
	return kv
}
