package config

import (
	"fmt"
	"time"

	"github.com/sofmeright/forgeline/src/gitrev"
	"github.com/sofmeright/forgeline/src/pipeline"
)

// Steps resolves the configured step list into immutable pipeline steps,
// substituting template fields into argv and env values. The {tag}
// placeholder is left for the executor so the core contract (tag passed
// at run time) holds even for steps built ahead of the run.
func (c *Config) Steps(fields map[string]string) ([]pipeline.Step, error) {
	// {tag} stays an executor concern.
	resolved := make(map[string]string, len(fields))
	for k, v := range fields {
		if k == "tag" {
			continue
		}
		resolved[k] = v
	}

	steps := make([]pipeline.Step, 0, len(c.Pipeline.Steps))
	for _, sc := range c.Pipeline.Steps {
		step := pipeline.Step{
			Name: sc.Name,
			Dir:  sc.Dir,
		}

		step.Command = make([]string, len(sc.Command))
		for i, arg := range sc.Command {
			step.Command[i] = gitrev.Resolve(arg, resolved)
		}

		if len(sc.Env) > 0 {
			step.Env = make(map[string]string, len(sc.Env))
			for k, v := range sc.Env {
				step.Env[k] = gitrev.Resolve(v, resolved)
			}
		}

		if sc.Timeout != "" {
			d, err := time.ParseDuration(sc.Timeout)
			if err != nil {
				return nil, fmt.Errorf("step %s: invalid timeout: %w", sc.Name, err)
			}
			step.Timeout = d
		}

		steps = append(steps, step)
	}
	return steps, nil
}
