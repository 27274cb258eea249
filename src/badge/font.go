package badge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// DefaultFontSize is the badge text point size.
const DefaultFontSize = 11

// FontMetrics holds measured glyph widths and, for file-loaded fonts,
// the raw bytes for base64 embedding in the SVG.
type FontMetrics struct {
	name     string           // font family name
	size     float64          // point size
	data     []byte           // raw TTF/OTF bytes, nil for approximate metrics
	advances map[rune]float64 // glyph advances (printable ASCII)
	fallback float64          // average width for unmapped runes
}

// TextWidth returns the pixel width of s using glyph advances.
func (m *FontMetrics) TextWidth(s string) float64 {
	var w float64
	for _, r := range s {
		if adv, ok := m.advances[r]; ok {
			w += adv
		} else {
			w += m.fallback
		}
	}
	return w
}

// FontData returns the raw font bytes, nil when metrics are approximate.
func (m *FontMetrics) FontData() []byte { return m.data }

// FontName returns the font family name.
func (m *FontMetrics) FontName() string { return m.name }

// FontSize returns the configured point size.
func (m *FontMetrics) FontSize() float64 { return m.size }

// LoadFont parses TTF/OTF bytes and measures glyph advances at size.
func LoadFont(name string, data []byte, size float64) (*FontMetrics, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", name, err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size: size,
		DPI:  72,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face for %s: %w", name, err)
	}
	defer face.Close()

	advances := make(map[rune]float64, 95)
	var total float64
	var count int

	for r := rune(32); r <= 126; r++ {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		px := float64(adv) / 64.0 // fixed.Int26_6 → float64
		advances[r] = px
		total += px
		count++
	}

	var fallback float64
	if count > 0 {
		fallback = total / float64(count)
	} else {
		fallback = size * 0.6
	}

	familyName := name
	buf := &sfnt.Buffer{}
	if n, err := f.Name(buf, sfnt.NameIDFamily); err == nil && n != "" {
		familyName = n
	}

	return &FontMetrics{
		name:     familyName,
		size:     size,
		data:     data,
		advances: advances,
		fallback: fallback,
	}, nil
}

// LoadFontFile loads a TTF/OTF from a filesystem path.
func LoadFontFile(path string, size float64) (*FontMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font file %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return LoadFont(name, data, size)
}

// ApproxMetrics returns estimated DejaVu-Sans-like widths for when no font
// file is configured. The badge renders with the viewer's sans-serif stack,
// so widths only need to be close enough for box sizing.
func ApproxMetrics(size float64) *FontMetrics {
	if size <= 0 {
		size = DefaultFontSize
	}
	scale := size / DefaultFontSize

	advances := make(map[rune]float64, 95)
	for r := rune(32); r <= 126; r++ {
		advances[r] = approxAdvance(r) * scale
	}

	return &FontMetrics{
		name:     "Verdana",
		size:     size,
		advances: advances,
		fallback: 7.0 * scale,
	}
}

// approxAdvance buckets printable ASCII into width classes at 11pt.
func approxAdvance(r rune) float64 {
	switch {
	case strings.ContainsRune("iljI.,:;'|!` ", r):
		return 3.5
	case strings.ContainsRune("ftr()[]{}-\"*", r):
		return 4.5
	case r >= '0' && r <= '9':
		return 7.0
	case r >= 'A' && r <= 'Z':
		if strings.ContainsRune("MW", r) {
			return 10.5
		}
		return 8.0
	case strings.ContainsRune("mw", r):
		return 10.0
	case r >= 'a' && r <= 'z':
		return 6.5
	default:
		return 7.0
	}
}

var _ font.Face = (*opentype.Face)(nil)
