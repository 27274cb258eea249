package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sofmeright/forgeline/src/gitrev"
	"github.com/sofmeright/forgeline/src/output"
)

var planTag string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the resolved step list without executing",
	Long: `Resolve the configured steps against a tag and print them.

When --tag is omitted, the nearest git tag is used so the plan reflects
what a release run would do.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planTag, "tag", "t", "", "version tag to resolve templates against")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	info, _ := gitrev.Detect(rootDir)

	tag := planTag
	if tag == "" && info != nil {
		tag = info.NearestTag
	}
	if tag == "" {
		return fmt.Errorf("no tag given and no git tag found; pass --tag")
	}

	fields := gitrev.Fields(tag, info)
	steps, err := cfg.Steps(fields)
	if err != nil {
		return err
	}

	color := output.UseColor()
	w := os.Stdout

	sec := output.NewSection(w, "Plan", 0, color)
	sec.Row("%-16s%s", "tag", tag)
	if info != nil {
		sec.Row("%-16s%s", "commit", info.SHA)
	}
	sec.Separator()

	if len(steps) == 0 {
		sec.Row("no steps configured")
	}
	for i, step := range steps {
		sec.Row("%2d  %s", i+1, step.Name)
		sec.Row("      command: %s", strings.Join(step.Command, " "))
		if step.Dir != "" {
			sec.Row("      dir:     %s", step.Dir)
		}
		if step.Timeout > 0 {
			sec.Row("      timeout: %s", step.Timeout.Round(time.Second))
		}
	}
	sec.Close()

	return nil
}
