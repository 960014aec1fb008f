package ui

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// TruncateLines limits text to maxLines, keeping contextLines from each
// end with a hidden-line count between them. Text within the limit passes
// through unchanged.
func TruncateLines(text string, maxLines, contextLines int) string {
	if text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	total := len(lines)
	if total <= maxLines {
		return text
	}
	if contextLines < 1 {
		contextLines = 1
	}
	if maxLines < contextLines*2+1 {
		return strings.Join(lines[:maxLines], "\n") + "\n..."
	}

	hidden := total - contextLines*2
	var b strings.Builder
	b.WriteString(strings.Join(lines[:contextLines], "\n"))
	b.WriteString("\n")
	b.WriteString(RenderMuted("... (" + strconv.Itoa(hidden) + " lines hidden)"))
	b.WriteString("\n")
	b.WriteString(strings.Join(lines[total-contextLines:], "\n"))
	return b.String()
}

// TruncateSimple performs end truncation with a "..." suffix. UTF-8 safe.
func TruncateSimple(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	runes := []rune(text)
	return string(runes[:maxLen-3]) + "..."
}

// WrapText wraps text at word boundaries to fit maxWidth, preserving
// existing line breaks.
func WrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 80
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line, maxWidth)
	}
	return strings.Join(lines, "\n")
}

func wrapLine(line string, maxWidth int) string {
	if utf8.RuneCountInString(line) <= maxWidth {
		return line
	}

	var b strings.Builder
	width := 0
	for _, word := range strings.Fields(line) {
		wordLen := utf8.RuneCountInString(word)
		switch {
		case width == 0:
			b.WriteString(word)
			width = wordLen
		case width+1+wordLen <= maxWidth:
			b.WriteString(" ")
			b.WriteString(word)
			width += 1 + wordLen
		default:
			b.WriteString("\n")
			b.WriteString(word)
			width = wordLen
		}
	}
	return b.String()
}
