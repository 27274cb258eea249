package executor

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sofmeright/forgeline/src/pipeline"
)

func shStep(name, script string) pipeline.Step {
	return pipeline.Step{Name: name, Command: []string{"/bin/sh", "-c", script}}
}

func TestExecuteSuccess(t *testing.T) {
	sh := NewShell(false)
	res, err := sh.Execute(context.Background(), shStep("echo", "echo building $BUILD_TAG"), "v1.0")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", res.ExitCode)
	}
	if !strings.Contains(res.Stdout, "building v1.0") {
		t.Errorf("stdout = %q, want BUILD_TAG expansion", res.Stdout)
	}
}

func TestExecuteNonzeroExit(t *testing.T) {
	sh := NewShell(false)
	res, err := sh.Execute(context.Background(), shStep("fail", "echo oops >&2; exit 3"), "v1.0")
	if err != nil {
		t.Fatalf("nonzero exit should not be an error, got %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "oops") {
		t.Errorf("stderr = %q, want oops", res.Stderr)
	}
}

func TestExecuteMissingBinary(t *testing.T) {
	sh := NewShell(false)
	step := pipeline.Step{Name: "ghost", Command: []string{"no-such-binary-anywhere"}}
	_, err := sh.Execute(context.Background(), step, "v1.0")
	if err == nil {
		t.Fatal("expected launch error for missing binary")
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("launch error %q does not name the step", err)
	}
}

func TestExecuteTimeout(t *testing.T) {
	sh := NewShell(false)
	step := pipeline.Step{Name: "slow", Command: []string{"sleep", "5"}, Timeout: 50 * time.Millisecond}

	start := time.Now()
	_, err := sh.Execute(context.Background(), step, "v1.0")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err = %v, want timeout marker", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Error("timeout did not cut the step short")
	}
}

func TestExecuteTagTemplating(t *testing.T) {
	sh := NewShell(false)
	step := pipeline.Step{
		Name:    "tmpl",
		Command: []string{"/bin/sh", "-c", "echo arg=$0", "{tag}"},
		Env:     map[string]string{"IMAGE_TAG": "img-{tag}"},
	}
	res, err := sh.Execute(context.Background(), step, "2.4.1")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(res.Stdout, "arg=2.4.1") {
		t.Errorf("stdout = %q, want resolved {tag} argv", res.Stdout)
	}
}

func TestExecuteEnvValues(t *testing.T) {
	sh := NewShell(false)
	step := shStep("env", "echo $IMAGE_TAG")
	step.Env = map[string]string{"IMAGE_TAG": "registry/app:{tag}"}

	res, err := sh.Execute(context.Background(), step, "v9")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(res.Stdout, "registry/app:v9") {
		t.Errorf("stdout = %q, want resolved env value", res.Stdout)
	}
}

func TestExecuteWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	sh := NewShell(false)
	step := shStep("pwd", "pwd")
	step.Dir = dir

	res, err := sh.Execute(context.Background(), step, "v1")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(res.Stdout, dir) {
		t.Errorf("stdout = %q, want working dir %q", res.Stdout, dir)
	}
}

func TestExecuteVerbosePassthrough(t *testing.T) {
	var out, errw bytes.Buffer
	sh := &Shell{Verbose: true, Stdout: &out, Stderr: &errw}

	res, err := sh.Execute(context.Background(), shStep("noisy", "echo hello"), "v1")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "hello") {
		t.Errorf("verbose stdout passthrough missing: %q", out.String())
	}
	if !strings.Contains(errw.String(), "exec:") {
		t.Errorf("verbose exec trace missing: %q", errw.String())
	}
	if !strings.Contains(res.Stdout, "hello") {
		t.Error("capture lost when verbose")
	}
}

func TestExecuteTailBound(t *testing.T) {
	sh := NewShell(false)
	sh.TailLines = 5
	res, err := sh.Execute(context.Background(), shStep("noisy", "seq 1 50"), "v1")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	lines := strings.Split(res.Stdout, "\n")
	if len(lines) != 5 {
		t.Fatalf("tail lines = %d, want 5", len(lines))
	}
	if lines[0] != "46" || lines[4] != "50" {
		t.Errorf("tail = %v, want last five of 1..50", lines)
	}
}

func TestResolveArgv(t *testing.T) {
	got := resolveArgv([]string{"./build.sh", "{tag}", "--label=build-{tag}"}, "v2")
	want := []string{"./build.sh", "v2", "--label=build-v2"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
