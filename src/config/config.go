// Package config loads the forgeline pipeline definition from
// .forgeline.yml (or a TOML equivalent, chosen by extension).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".forgeline.yml"

// Config is the top-level forgeline configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" toml:"pipeline"`
	Guard    GuardConfig    `yaml:"guard" toml:"guard"`
	Badge    BadgeConfig    `yaml:"badge" toml:"badge"`
}

// PipelineConfig defines the ordered step list and capture bounds.
type PipelineConfig struct {
	// TailLines bounds captured stdout/stderr per step. Default 200.
	TailLines int `yaml:"tail_lines" toml:"tail_lines"`

	Steps []StepConfig `yaml:"steps" toml:"steps"`
}

// StepConfig is one named external command in the pipeline.
// Command argv and env values may use {tag}, {version}, {major}, {minor},
// {patch}, {prerelease}, {sha} and {branch} placeholders.
type StepConfig struct {
	Name    string            `yaml:"name" toml:"name"`
	Command []string          `yaml:"command" toml:"command"`
	Dir     string            `yaml:"dir,omitempty" toml:"dir,omitempty"`
	Env     map[string]string `yaml:"env,omitempty" toml:"env,omitempty"`
	EnvFile string            `yaml:"env_file,omitempty" toml:"env_file,omitempty"`
	Timeout string            `yaml:"timeout,omitempty" toml:"timeout,omitempty"` // e.g. "30m"
}

// GuardConfig controls the pre-run secrets gate.
type GuardConfig struct {
	// Secrets scans the config file and step env files for leaked
	// credentials before running. Enabled by default.
	Secrets *bool `yaml:"secrets" toml:"secrets"`
}

// SecretsEnabled reports whether the secrets gate should run.
func (g GuardConfig) SecretsEnabled() bool {
	return g.Secrets == nil || *g.Secrets
}

// BadgeConfig controls the post-run status badge.
type BadgeConfig struct {
	Output   string  `yaml:"output,omitempty" toml:"output,omitempty"` // SVG path, "" = no badge
	Label    string  `yaml:"label,omitempty" toml:"label,omitempty"`   // default "build"
	FontFile string  `yaml:"font_file,omitempty" toml:"font_file,omitempty"`
	FontSize float64 `yaml:"font_size,omitempty" toml:"font_size,omitempty"`
}

// Load reads configuration from path. If path is empty, it tries the
// default file and returns defaults when it doesn't exist. A .toml
// extension selects the TOML decoder; anything else is parsed as YAML.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}

	cfg := defaults()
	switch filepath.Ext(path) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Pipeline: PipelineConfig{TailLines: 200},
		Badge:    BadgeConfig{Label: "build"},
	}
}
