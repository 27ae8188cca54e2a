// Package styles holds rendering rules shared by the raster and SVG
// renderers: font defaults, label wrapping and connection geometry.
package styles

import (
	"bytes"
	"encoding/xml"
	"strings"
)

const (
	DefaultFontFamily = "Inter, Helvetica, Arial, sans-serif"
	DefaultFontSize   = 14.0
	DefaultTextColor  = "#1f2937"
	LabelPadding      = 10.0
	LineHeightRatio   = 1.3

	// fontCharWidth approximates the advance of an average glyph as a
	// fraction of the font size, for renderers without font metrics.
	fontCharWidth = 0.55

	Ellipsis = "…"
)

// Measure returns the rendered width of s.
type Measure func(s string) float64

// EstimateMeasure returns a Measure that assumes every rune has the average
// advance of a proportional sans-serif face at the given size.
func EstimateMeasure(fontSize float64) Measure {
	return func(s string) float64 {
		return float64(len([]rune(s))) * fontSize * fontCharWidth
	}
}

// LineHeight returns the baseline distance for a font size.
func LineHeight(fontSize float64) float64 { return fontSize * LineHeightRatio }

// SplitLines splits a label on explicit newlines.
func SplitLines(label string) []string {
	return strings.Split(strings.ReplaceAll(label, "\r\n", "\n"), "\n")
}

// WrapLabel splits label on newlines and word-wraps each line to maxWidth.
// A single word wider than maxWidth is cut and ends in an ellipsis. When
// maxLines is positive the result is truncated to that many lines and the
// last kept line gets an ellipsis.
func WrapLabel(label string, maxWidth float64, maxLines int, measure Measure) []string {
	var out []string
	for _, para := range SplitLines(label) {
		out = append(out, wrapLine(para, maxWidth, measure)...)
	}
	if maxLines > 0 && len(out) > maxLines {
		out = out[:maxLines]
		out[maxLines-1] = Ellipsize(out[maxLines-1]+Ellipsis, maxWidth, measure)
	}
	return out
}

func wrapLine(line string, maxWidth float64, measure Measure) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	cur := ""
	for _, w := range words {
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if measure(candidate) <= maxWidth {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		cur = Ellipsize(w, maxWidth, measure)
	}
	return append(lines, cur)
}

// Ellipsize shortens s rune by rune until it fits maxWidth with a trailing
// ellipsis. Strings that already fit are returned unchanged.
func Ellipsize(s string, maxWidth float64, measure Measure) string {
	if measure(s) <= maxWidth {
		return s
	}
	r := []rune(strings.TrimSuffix(s, Ellipsis))
	for len(r) > 0 {
		r = r[:len(r)-1]
		if cand := string(r) + Ellipsis; measure(cand) <= maxWidth {
			return cand
		}
	}
	return Ellipsis
}

// EscapeXML escapes text for use in element content and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
