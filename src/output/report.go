package output

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sofmeright/forgeline/src/pipeline"
)

// StepRow renders one step result inside a section.
func StepRow(sec *Section, index int, res pipeline.StepResult) {
	timing := formatElapsed(res.Duration)
	if res.Outcome == pipeline.OutcomeSkipped {
		timing = "skipped"
	}

	detail := ""
	if res.Outcome == pipeline.OutcomeFailure {
		if res.ExitCode == pipeline.LaunchExitCode {
			detail = "launch failed"
		} else {
			detail = fmt.Sprintf("exit %d", res.ExitCode)
		}
	}

	sec.Row("%2d  %-28s %-14s %-10s %s",
		index+1, res.Step.Name, detail, timing, StatusIcon(string(res.Outcome), sec.color))
}

// FailureDetail renders the failing step's stderr tail inside a section.
func FailureDetail(sec *Section, res *pipeline.StepResult) {
	if res == nil || res.StderrTail == "" {
		return
	}
	sec.Separator()
	sec.Row("%s", Bold(res.Step.Name+" stderr:", sec.color))
	for _, line := range strings.Split(res.StderrTail, "\n") {
		sec.Row("  %s", line)
	}
}

// JUnit XML types for CI test reporting.

type junitTestSuites struct {
	XMLName  xml.Name     `xml:"testsuites"`
	Name     string       `xml:"name,attr"`
	Tests    int          `xml:"tests,attr"`
	Failures int          `xml:"failures,attr"`
	Skipped  int          `xml:"skipped,attr"`
	Time     string       `xml:"time,attr"`
	Suites   []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name     string      `xml:"name,attr"`
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Skipped  int         `xml:"skipped,attr"`
	Time     string      `xml:"time,attr"`
	Cases    []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Skipped   *junitSkipped `xml:"skipped,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

type junitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// WriteRunJUnit writes the run report as JUnit XML so CI systems can
// surface per-step outcomes. Each step becomes a test case.
func WriteRunJUnit(dir string, report *pipeline.RunReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}

	suite := junitSuite{Name: "forgeline/pipeline"}
	var total time.Duration

	for _, sr := range report.Steps {
		total += sr.Duration
		tc := junitCase{
			Name:      sr.Step.Name,
			Classname: "forgeline.pipeline",
			Time:      fmt.Sprintf("%.3f", sr.Duration.Seconds()),
		}

		switch sr.Outcome {
		case pipeline.OutcomeFailure:
			msg := fmt.Sprintf("exit code %d", sr.ExitCode)
			if sr.ExitCode == pipeline.LaunchExitCode {
				msg = "could not launch"
			}
			tc.Failure = &junitFailure{
				Message: msg,
				Type:    string(sr.Outcome),
				Body:    sr.StderrTail,
			}
			suite.Failures++
		case pipeline.OutcomeSkipped:
			tc.Skipped = &junitSkipped{Message: "halted by earlier failure"}
			suite.Skipped++
		}

		suite.Cases = append(suite.Cases, tc)
		suite.Tests++
	}
	suite.Time = fmt.Sprintf("%.3f", total.Seconds())

	root := junitTestSuites{
		Name:     "forgeline",
		Tests:    suite.Tests,
		Failures: suite.Failures,
		Skipped:  suite.Skipped,
		Time:     suite.Time,
		Suites:   []junitSuite{suite},
	}

	path := filepath.Join(dir, "pipeline.xml")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	f.WriteString(xml.Header)
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encoding junit xml: %w", err)
	}
	f.WriteString("\n")

	return nil
}
