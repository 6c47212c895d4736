package utils

import "fmt"

// Pluralize formats a count with its noun, adding "s" when count != 1.
func Pluralize(count int, noun string) string {
	if count == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", count, noun)
}

// Truncate shortens s to at most width runes, ending with an ellipsis
// when anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// ValueOrDash returns s, or "—" when empty.
func ValueOrDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
