package badge

import (
	"strings"
	"testing"
)

func TestGenerateApproxMetrics(t *testing.T) {
	eng := New(ApproxMetrics(0))
	svg := eng.Generate(Badge{Label: "build", Value: "success", Color: StatusColor("success")})

	for _, want := range []string{"<svg", "build", "success", "#4c1", "</svg>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if strings.Contains(svg, "@font-face") {
		t.Error("approximate metrics should not embed font data")
	}
}

func TestGenerateEscapesText(t *testing.T) {
	eng := New(ApproxMetrics(11))
	svg := eng.Generate(Badge{Label: "a<b", Value: `"x" & 'y'`, Color: "#4c1"})

	if strings.Contains(svg, "a<b<") || !strings.Contains(svg, "a&lt;b") {
		t.Error("label not escaped")
	}
	if !strings.Contains(svg, "&quot;x&quot; &amp; &apos;y&apos;") {
		t.Error("value not escaped")
	}
}

func TestStatusColor(t *testing.T) {
	cases := map[string]string{
		"success": "#4c1",
		"failure": "#e05d44",
		"skipped": "#dfb317",
		"unknown": "#9f9f9f",
	}
	for status, want := range cases {
		if got := StatusColor(status); got != want {
			t.Errorf("StatusColor(%q) = %q, want %q", status, got, want)
		}
	}
}

func TestTextWidthScalesWithLength(t *testing.T) {
	m := ApproxMetrics(11)
	if m.TextWidth("long build label") <= m.TextWidth("ok") {
		t.Error("wider text should measure wider")
	}
}

func TestDetectFontFormat(t *testing.T) {
	if got := detectFontFormat([]byte{0x4F, 0x54, 0x54, 0x4F, 0x00}); got != "otf" {
		t.Errorf("OTTO magic = %q, want otf", got)
	}
	if got := detectFontFormat([]byte{0x00, 0x01, 0x00, 0x00}); got != "ttf" {
		t.Errorf("ttf magic = %q, want ttf", got)
	}
}
