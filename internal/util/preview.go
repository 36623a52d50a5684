package util

import "strings"

// Preview keeps at most maxLines lines and maxBytes bytes of text, for log fields.
// A limit <= 0 disables that bound.
func Preview(text string, maxLines int, maxBytes int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = append(lines[:maxLines], "...")
	}
	out := strings.Join(lines, "\n")
	if maxBytes > 0 && len(out) > maxBytes {
		out = out[:maxBytes] + "..."
	}
	return out
}
