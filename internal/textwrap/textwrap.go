package textwrap

import (
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/go-wordwrap"
)

// Reflow wraps free-form text so it fits within columns when rendered at the
// given indent. The first line carries no indent (the template positions it);
// every following line is indented. Output always ends with a line terminator
// and short lines are never padded. Empty input yields an empty string.
func Reflow(text string, columns, indent int) string {
	if text == "" {
		return ""
	}
	if indent < 0 {
		indent = 0
	}
	usable := columns - indent
	if usable < 1 {
		usable = columns
	}
	if usable < 1 {
		usable = 1
	}

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.TrimRight(normalized, "\n")
	wrapped := wordwrap.WrapString(normalized, uint(usable))

	lines := strings.Split(wrapped, "\n")
	pad := strings.Repeat(" ", indent)
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString(pad)
		}
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	return b.String()
}

// IndentOf reports the column at which token first appears on a line of the
// template. When the token occurs more than once, only the first occurrence
// governs the indent. Returns 0 when the token is absent.
func IndentOf(template, token string) int {
	for _, line := range strings.Split(template, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if idx := strings.Index(line, token); idx >= 0 {
			return utf8.RuneCountInString(line[:idx])
		}
	}
	return 0
}
