package sanitizer

import "strings"

// NormalizeName trims outer whitespace. Inner spacing is part of the name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeStatus trims outer whitespace and keeps the case: only the exact
// value "available" makes a room available, so "Available" must stay distinct.
func NormalizeStatus(status string) string {
	return strings.TrimSpace(status)
}
