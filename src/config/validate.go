package config

import (
	"fmt"
	"time"
)

// Validate checks structural constraints that would otherwise surface as
// confusing failures mid-run.
func (c *Config) Validate() error {
	if c.Pipeline.TailLines < 0 {
		return fmt.Errorf("pipeline.tail_lines must not be negative")
	}

	seen := make(map[string]bool, len(c.Pipeline.Steps))
	for i, s := range c.Pipeline.Steps {
		where := fmt.Sprintf("pipeline.steps[%d]", i)
		if s.Name == "" {
			return fmt.Errorf("%s: name is required", where)
		}
		if seen[s.Name] {
			return fmt.Errorf("%s: duplicate step name %q", where, s.Name)
		}
		seen[s.Name] = true

		if len(s.Command) == 0 {
			return fmt.Errorf("%s (%s): command must not be empty", where, s.Name)
		}
		if s.Timeout != "" {
			if _, err := time.ParseDuration(s.Timeout); err != nil {
				return fmt.Errorf("%s (%s): invalid timeout %q: %w", where, s.Name, s.Timeout, err)
			}
		}
	}

	if c.Badge.FontSize < 0 {
		return fmt.Errorf("badge.font_size must not be negative")
	}
	return nil
}
