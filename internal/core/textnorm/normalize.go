// Package textnorm canonicalizes recognized text before it is shown or translated.
package textnorm

import (
	"strings"
	"unicode"
)

// Normalize trims the text, collapses runs of whitespace inside a line to a
// single space and collapses runs of line breaks (including blank or
// whitespace-only lines) to a single newline. It is total over all inputs.
func Normalize(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.FieldsFunc(line, unicode.IsSpace)
		if len(fields) == 0 {
			continue
		}
		out = append(out, strings.Join(fields, " "))
	}
	return strings.Join(out, "\n")
}

// IsBlank reports whether s holds nothing but whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
