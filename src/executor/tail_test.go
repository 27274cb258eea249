package executor

import "testing"

func TestTailWriterKeepsLastLines(t *testing.T) {
	tw := newTailWriter(3)
	tw.Write([]byte("one\ntwo\nthree\nfour\nfive\n"))

	if got := tw.String(); got != "three\nfour\nfive" {
		t.Errorf("tail = %q", got)
	}
	if tw.Dropped() != 2 {
		t.Errorf("dropped = %d, want 2", tw.Dropped())
	}
}

func TestTailWriterSplitWrites(t *testing.T) {
	tw := newTailWriter(10)
	tw.Write([]byte("hel"))
	tw.Write([]byte("lo\nwor"))
	tw.Write([]byte("ld\n"))

	if got := tw.String(); got != "hello\nworld" {
		t.Errorf("tail = %q", got)
	}
}

func TestTailWriterUnterminatedLine(t *testing.T) {
	tw := newTailWriter(2)
	tw.Write([]byte("a\nb\ntrailing"))

	if got := tw.String(); got != "b\ntrailing" {
		t.Errorf("tail = %q", got)
	}
}

func TestTailWriterEmpty(t *testing.T) {
	tw := newTailWriter(4)
	if got := tw.String(); got != "" {
		t.Errorf("tail = %q, want empty", got)
	}
}
