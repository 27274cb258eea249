package executor

import "strings"

// tailWriter keeps only the last maxLines complete lines written to it,
// so noisy subprocesses can't grow memory without bound.
type tailWriter struct {
	maxLines int
	lines    []string
	partial  strings.Builder
	dropped  int
}

func newTailWriter(maxLines int) *tailWriter {
	return &tailWriter{maxLines: maxLines}
}

func (t *tailWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '\n' {
			t.push(t.partial.String())
			t.partial.Reset()
			continue
		}
		t.partial.WriteByte(b)
	}
	return len(p), nil
}

func (t *tailWriter) push(line string) {
	t.lines = append(t.lines, line)
	if len(t.lines) > t.maxLines {
		over := len(t.lines) - t.maxLines
		t.lines = t.lines[over:]
		t.dropped += over
	}
}

// String returns the retained tail. An unterminated final line is included.
func (t *tailWriter) String() string {
	lines := t.lines
	if t.partial.Len() > 0 {
		lines = append(append([]string{}, lines...), t.partial.String())
		if len(lines) > t.maxLines {
			lines = lines[len(lines)-t.maxLines:]
		}
	}
	return strings.Join(lines, "\n")
}

// Dropped reports how many leading lines were discarded.
func (t *tailWriter) Dropped() int { return t.dropped }
