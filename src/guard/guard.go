// Package guard runs the pre-run secrets gate: the pipeline config and any
// step env files are scanned for leaked credentials before anything
// executes. A step that templates a token into its argv would otherwise
// echo it into CI logs on the first verbose run.
package guard

import (
	"fmt"
	"os"

	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/sofmeright/forgeline/src/config"
)

// Finding is one detected secret.
type Finding struct {
	File        string
	Line        int
	RuleID      string
	Description string
}

// Scanner wraps a lazily-initialized gitleaks detector.
type Scanner struct {
	detector *detect.Detector
}

// Scan checks the config file and every step env_file for secrets.
// Any finding is treated as critical by callers.
func (s *Scanner) Scan(configPath string, cfg *config.Config) ([]Finding, error) {
	if s.detector == nil {
		d, err := detect.NewDetectorDefaultConfig()
		if err != nil {
			return nil, fmt.Errorf("initializing secrets detector: %w", err)
		}
		s.detector = d
	}

	files := []string{}
	if configPath != "" {
		files = append(files, configPath)
	}
	for _, step := range cfg.Pipeline.Steps {
		if step.EnvFile != "" {
			files = append(files, step.EnvFile)
		}
	}

	var findings []Finding
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		for _, hit := range s.detector.DetectBytes(data) {
			findings = append(findings, Finding{
				File:        path,
				Line:        hit.StartLine + 1, // gitleaks is 0-indexed
				RuleID:      hit.RuleID,
				Description: hit.Description,
			})
		}
	}
	return findings, nil
}
