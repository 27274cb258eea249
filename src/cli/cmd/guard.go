package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sofmeright/forgeline/src/guard"
	"github.com/sofmeright/forgeline/src/output"
)

var guardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Run the pre-run secrets gate by itself",
	Long: `Scan the pipeline config and step env files for leaked credentials.

The same gate runs automatically before "forgeline run" unless disabled in
config or skipped with --skip-guard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		color := output.UseColor()
		if _, err := runGuardGate(os.Stdout, color); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guardCmd)
}

// runGuardGate scans and renders findings. Any finding fails the gate.
func runGuardGate(w *os.File, color bool) (string, error) {
	start := time.Now()

	var scanner guard.Scanner
	findings, err := scanner.Scan(guardConfigPath(), cfg)
	if err != nil {
		return "", fmt.Errorf("secrets scan: %w", err)
	}
	elapsed := time.Since(start)

	sec := output.NewSection(w, "Guard", elapsed, color)
	if len(findings) == 0 {
		sec.Row("%-16s%s", "secrets", "no findings "+output.StatusIcon("success", color))
		sec.Close()
		return "no findings", nil
	}

	for _, f := range findings {
		sec.Row("%s:%d  %s (%s)", f.File, f.Line, f.Description, f.RuleID)
	}
	sec.Separator()
	sec.Row("%d leaked credential(s) %s", len(findings), output.StatusIcon("failure", color))
	sec.Close()

	return "", &ExitCodeError{
		Code: 1,
		Msg:  fmt.Sprintf("guard: %d leaked credential(s) found, refusing to run", len(findings)),
	}
}

// guardConfigPath returns the config file the gate should scan.
func guardConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if _, err := os.Stat(".forgeline.yml"); err == nil {
		return ".forgeline.yml"
	}
	return ""
}
