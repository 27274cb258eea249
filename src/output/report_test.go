package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sofmeright/forgeline/src/pipeline"
)

func sampleReport() *pipeline.RunReport {
	idx := 1
	return &pipeline.RunReport{
		Tag: "v1.0",
		Steps: []pipeline.StepResult{
			{
				Step:     pipeline.Step{Name: "core", Command: []string{"true"}},
				Duration: 1200 * time.Millisecond,
				Outcome:  pipeline.OutcomeSuccess,
			},
			{
				Step:       pipeline.Step{Name: "pull", Command: []string{"docker"}},
				ExitCode:   2,
				Duration:   300 * time.Millisecond,
				StderrTail: "manifest unknown",
				Outcome:    pipeline.OutcomeFailure,
			},
			{
				Step:    pipeline.Step{Name: "app", Command: []string{"true"}},
				Outcome: pipeline.OutcomeSkipped,
			},
		},
		Outcome:  pipeline.OutcomeFailure,
		HaltedAt: &idx,
	}
}

func TestStepRowRendering(t *testing.T) {
	var buf bytes.Buffer
	sec := NewSection(&buf, "Run", 0, false)
	report := sampleReport()
	for i, sr := range report.Steps {
		StepRow(sec, i, sr)
	}
	sec.Close()

	out := buf.String()
	for _, want := range []string{"core", "pull", "exit 2", "skipped", "✓", "✗", "⊘"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFailureDetail(t *testing.T) {
	var buf bytes.Buffer
	sec := NewSection(&buf, "Run", 0, false)
	report := sampleReport()
	FailureDetail(sec, report.FailedStep())
	sec.Close()

	if !strings.Contains(buf.String(), "manifest unknown") {
		t.Errorf("stderr tail not rendered:\n%s", buf.String())
	}
}

func TestWriteRunJUnit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	if err := WriteRunJUnit(dir, sampleReport()); err != nil {
		t.Fatalf("write junit: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "pipeline.xml"))
	if err != nil {
		t.Fatalf("read junit: %v", err)
	}
	xml := string(data)

	for _, want := range []string{
		`tests="3"`,
		`failures="1"`,
		`skipped="1"`,
		`name="pull"`,
		`message="exit code 2"`,
		"manifest unknown",
		"halted by earlier failure",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("junit missing %q:\n%s", want, xml)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "<1ms"},
		{42 * time.Millisecond, "42ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30.0s"},
	}
	for _, c := range cases {
		if got := formatElapsed(c.d); got != c.want {
			t.Errorf("formatElapsed(%s) = %q, want %q", c.d, got, c.want)
		}
	}
}
