package strx

import "strings"

// Coalesce returns s if non-empty, otherwise d.
func Coalesce(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// Norm upper-cases a token and maps '-' to '_' so "linear-padding" matches "LINEAR_PADDING".
func Norm(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
}

// Key is Norm with underscores dropped, so "colorIncrement", "color-increment"
// and "COLOR_INCREMENT" compare equal.
func Key(s string) string {
	return strings.ReplaceAll(Norm(s), "_", "")
}
