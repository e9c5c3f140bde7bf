// Package fit decides line breaks and font sizes for variable-length text
// that must stay inside a fixed-width block. It combines shrink-to-fit sizing
// for short strings with greedy word wrapping for long ones; the measuring
// backend is injected so the algorithm itself stays pure and deterministic.
package fit

import (
	"strings"
	"unicode/utf8"
)

// Measurer reports the rendered width of s at the given font size. Widths and
// sizes are in the same units the caller uses for Spec (the composer feeds mm
// widths and pt sizes through its canvas font faces).
type Measurer interface {
	TextWidth(s string, size float64) float64
}

// Spec bounds one fitting request.
type Spec struct {
	MaxWidth  float64 // maximum rendered line width
	StartSize float64 // preferred font size for a single line
	MinSize   float64 // hard floor for any produced line
	// MultilineThreshold forces word wrapping for texts longer than this
	// many runes, even when a shrunk single line would fit.
	MultilineThreshold int
}

// Line is one produced line with its resolved size and measured width.
type Line struct {
	Content  string
	FontSize float64
	Width    float64
}

// Result is the fitting outcome. FontSize is the shared base size; individual
// lines may carry a smaller one after per-line re-shrinking. BlockWidth is
// the widest produced line.
type Result struct {
	Lines      []Line
	FontSize   float64
	BlockWidth float64
}

const (
	// sizeStep is the fixed decrement used while shrinking.
	sizeStep = 1.0
	// wrapSizeFactor scales StartSize down to the shared wrapping size.
	wrapSizeFactor = 0.6
	// longWrapSizeFactor applies instead above longTextRunes.
	longWrapSizeFactor = 0.48
	// longTextRunes is the tier boundary for very long text.
	longTextRunes = 25
)

// Fit lays out text within spec. Short texts (rune count at or below the
// multiline threshold) are tried as a shrunk single line first; everything
// else is greedily wrapped at a reduced size and each line is re-shrunk on
// its own if it still overflows. A single word wider than MaxWidth is kept
// on its own line at the line's floor size: that overflow is accepted rather
// than hyphenated.
func Fit(m Measurer, text string, spec Spec) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Lines: []Line{{Content: "", FontSize: spec.StartSize}}, FontSize: spec.StartSize}
	}

	if utf8.RuneCountInString(text) <= spec.MultilineThreshold {
		if size, ok := shrinkToFit(m, text, spec.MaxWidth, spec.StartSize, spec.MinSize); ok {
			return Result{
				Lines:      []Line{{Content: text, FontSize: size, Width: m.TextWidth(text, size)}},
				FontSize:   size,
				BlockWidth: m.TextWidth(text, size),
			}
		}
	}

	wrapSize := spec.StartSize * wrapSizeFactor
	if utf8.RuneCountInString(text) > longTextRunes {
		wrapSize = spec.StartSize * longWrapSizeFactor
	}
	if wrapSize < spec.MinSize {
		wrapSize = spec.MinSize
	}

	lines := wrap(m, text, spec.MaxWidth, wrapSize)
	for i := range lines {
		if lines[i].Width <= spec.MaxWidth {
			continue
		}
		size, _ := shrinkToFit(m, lines[i].Content, spec.MaxWidth, wrapSize, spec.MinSize)
		lines[i].FontSize = size
		lines[i].Width = m.TextWidth(lines[i].Content, size)
	}

	res := Result{Lines: lines, FontSize: wrapSize}
	for _, ln := range lines {
		if ln.Width > res.BlockWidth {
			res.BlockWidth = ln.Width
		}
	}
	return res
}

// shrinkToFit walks size down from start in fixed steps until text fits
// within maxWidth. The second return is false if even the floor overflows;
// the floor size is still returned so callers can accept the overflow.
func shrinkToFit(m Measurer, text string, maxWidth, start, min float64) (float64, bool) {
	size := start
	for size > min {
		if m.TextWidth(text, size) <= maxWidth {
			return size, true
		}
		size -= sizeStep
	}
	if size < min {
		size = min
	}
	return size, m.TextWidth(text, size) <= maxWidth
}

// wrap greedily packs whitespace-separated words into lines at a fixed size.
// The first word of a line is always placed, so every line makes progress
// even when the word alone overflows.
func wrap(m Measurer, text string, maxWidth, size float64) []Line {
	words := strings.Fields(text)
	var lines []Line
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		content := strings.Join(current, " ")
		lines = append(lines, Line{
			Content:  content,
			FontSize: size,
			Width:    m.TextWidth(content, size),
		})
		current = current[:0]
	}

	for _, word := range words {
		if len(current) == 0 {
			current = append(current, word)
			continue
		}
		candidate := strings.Join(current, " ") + " " + word
		if m.TextWidth(candidate, size) > maxWidth {
			flush()
			current = append(current, word)
			continue
		}
		current = append(current, word)
	}
	flush()
	return lines
}
