package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sofmeright/forgeline/src/badge"
)

var (
	badgeStatus string
	badgeOut    string
)

var badgeCmd = &cobra.Command{
	Use:   "badge",
	Short: "Generate a build-status SVG badge",
	RunE: func(cmd *cobra.Command, args []string) error {
		if badgeOut != "" {
			cfg.Badge.Output = badgeOut
		}
		if cfg.Badge.Output == "" {
			return fmt.Errorf("no badge output path: set badge.output in config or pass --output")
		}
		summary := writeStatusBadge(badgeStatus)
		if summary == "" {
			return fmt.Errorf("writing badge to %s failed", cfg.Badge.Output)
		}
		fmt.Println(summary)
		return nil
	},
}

func init() {
	badgeCmd.Flags().StringVar(&badgeStatus, "status", "success", "status the badge reports (success|failure|skipped)")
	badgeCmd.Flags().StringVarP(&badgeOut, "output", "o", "", "badge SVG output path")
	rootCmd.AddCommand(badgeCmd)
}

// writeStatusBadge renders and writes the configured badge, returning a
// short summary line or "" on failure (badge problems never fail a build).
func writeStatusBadge(status string) string {
	size := cfg.Badge.FontSize
	if size == 0 {
		size = badge.DefaultFontSize
	}

	metrics := badge.ApproxMetrics(size)
	if cfg.Badge.FontFile != "" {
		m, err := badge.LoadFontFile(cfg.Badge.FontFile, size)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v, using approximate metrics\n", err)
		} else {
			metrics = m
		}
	}

	label := cfg.Badge.Label
	if label == "" {
		label = "build"
	}

	svg := badge.New(metrics).Generate(badge.Badge{
		Label: label,
		Value: status,
		Color: badge.StatusColor(status),
	})

	out := cfg.Badge.Output
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "warning: creating badge dir: %v\n", err)
		return ""
	}
	if err := os.WriteFile(out, []byte(svg), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "warning: writing badge: %v\n", err)
		return ""
	}
	return fmt.Sprintf("%s → %s", status, out)
}
