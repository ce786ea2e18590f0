package diagram

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultWrapWidth is the label width for nodes outside any cluster.
	DefaultWrapWidth = 16

	// MinWrapWidth is the smallest width Wrap honours.
	MinWrapWidth = 12
)

// Wrap breaks text into lines shorter than width, splitting only between
// words. Widths count characters, not bytes. Widths below [MinWrapWidth] are raised to it. Text that already fits,
// or is a single word, is returned unchanged.
func Wrap(text string, width int) string {
	width = max(width, MinWrapWidth)
	if utf8.RuneCountInString(text) <= width {
		return text
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}

	var b strings.Builder
	line := utf8.RuneCountInString(words[0])
	b.WriteString(words[0])
	for _, w := range words[1:] {
		n := utf8.RuneCountInString(w)
		if line+1+n < width {
			b.WriteByte(' ')
			line += 1 + n
		} else {
			b.WriteByte('\n')
			line = n
		}
		b.WriteString(w)
	}
	return b.String()
}
