package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, ".forgeline.yml", `
pipeline:
  tail_lines: 50
  steps:
    - name: core image
      command: ["./compose/build.sh", "{tag}"]
      dir: compose
      timeout: 30m
    - name: pull base
      command: ["docker", "pull", "registry/base:latest"]
guard:
  secrets: false
badge:
  output: .forgeline/build.svg
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Pipeline.TailLines != 50 {
		t.Errorf("tail_lines = %d, want 50", cfg.Pipeline.TailLines)
	}
	if len(cfg.Pipeline.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(cfg.Pipeline.Steps))
	}
	if cfg.Pipeline.Steps[0].Dir != "compose" {
		t.Errorf("dir = %q", cfg.Pipeline.Steps[0].Dir)
	}
	if cfg.Guard.SecretsEnabled() {
		t.Error("secrets gate should be disabled")
	}
	if cfg.Badge.Output != ".forgeline/build.svg" {
		t.Errorf("badge output = %q", cfg.Badge.Output)
	}
	if cfg.Badge.Label != "build" {
		t.Errorf("badge label default = %q, want build", cfg.Badge.Label)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "forgeline.toml", `
[pipeline]
tail_lines = 10

[[pipeline.steps]]
name = "core"
command = ["./build.sh", "{tag}"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pipeline.TailLines != 10 {
		t.Errorf("tail_lines = %d, want 10", cfg.Pipeline.TailLines)
	}
	if len(cfg.Pipeline.Steps) != 1 || cfg.Pipeline.Steps[0].Name != "core" {
		t.Errorf("steps = %+v", cfg.Pipeline.Steps)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(cwd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Pipeline.TailLines != 200 {
		t.Errorf("default tail_lines = %d, want 200", cfg.Pipeline.TailLines)
	}
	if !cfg.Guard.SecretsEnabled() {
		t.Error("secrets gate should default to enabled")
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("explicit missing config should error")
	}
}

func TestValidateRejectsBadSteps(t *testing.T) {
	cases := []struct {
		name string
		yml  string
		want string
	}{
		{
			"empty command",
			"pipeline:\n  steps:\n    - name: broken\n      command: []\n",
			"command must not be empty",
		},
		{
			"missing name",
			"pipeline:\n  steps:\n    - command: [\"true\"]\n",
			"name is required",
		},
		{
			"duplicate name",
			"pipeline:\n  steps:\n    - name: a\n      command: [\"true\"]\n    - name: a\n      command: [\"true\"]\n",
			"duplicate step name",
		},
		{
			"bad timeout",
			"pipeline:\n  steps:\n    - name: a\n      command: [\"true\"]\n      timeout: banana\n",
			"invalid timeout",
		},
	}

	for _, c := range cases {
		path := writeConfig(t, ".forgeline.yml", c.yml)
		_, err := Load(path)
		if err == nil {
			t.Errorf("%s: expected error", c.name)
			continue
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Errorf("%s: err = %v, want %q", c.name, err, c.want)
		}
	}
}

func TestStepsResolvesTemplates(t *testing.T) {
	path := writeConfig(t, ".forgeline.yml", `
pipeline:
  steps:
    - name: core
      command: ["./build.sh", "{tag}", "--rev={sha}"]
      env:
        IMAGE: "app:{version}"
      timeout: 2m
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	fields := map[string]string{"tag": "v1.2.3", "sha": "abc1234", "version": "1.2.3"}
	steps, err := cfg.Steps(fields)
	if err != nil {
		t.Fatalf("steps: %v", err)
	}

	step := steps[0]
	if step.Command[1] != "{tag}" {
		t.Errorf("argv[1] = %q, want {tag} left for the executor", step.Command[1])
	}
	if step.Command[2] != "--rev=abc1234" {
		t.Errorf("argv[2] = %q", step.Command[2])
	}
	if step.Env["IMAGE"] != "app:1.2.3" {
		t.Errorf("env IMAGE = %q", step.Env["IMAGE"])
	}
	if step.Timeout != 2*time.Minute {
		t.Errorf("timeout = %s", step.Timeout)
	}
}
