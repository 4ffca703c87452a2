package console

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText wraps text at the given display width, preserving existing newlines.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	paragraphs := strings.Split(text, "\n")
	for i, p := range paragraphs {
		paragraphs[i] = wrapParagraph(p, width)
	}
	return strings.Join(paragraphs, "\n")
}

// wrapParagraph breaks a single line between words where possible and
// inside a word only when the word is wider than the line.
func wrapParagraph(text string, width int) string {
	if runewidth.StringWidth(text) <= width {
		return text
	}

	var b strings.Builder
	lineWidth := 0
	for i, word := range strings.Split(text, " ") {
		ww := runewidth.StringWidth(word)
		if i > 0 {
			if lineWidth > 0 && lineWidth+1+ww > width {
				b.WriteString("\n")
				lineWidth = 0
			} else {
				b.WriteString(" ")
				lineWidth++
			}
		}
		for ww > width-lineWidth && ww > width {
			head := runewidth.Truncate(word, width-lineWidth, "")
			if head == "" {
				head = string([]rune(word)[:1])
			}
			b.WriteString(head)
			b.WriteString("\n")
			word = strings.TrimPrefix(word, head)
			ww = runewidth.StringWidth(word)
			lineWidth = 0
		}
		b.WriteString(word)
		lineWidth += ww
	}
	return b.String()
}
