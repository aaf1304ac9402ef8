package sanitizer

import "strings"

// NormalizeImageURL trims outer whitespace. Absolute and relative URLs are stored as written.
func NormalizeImageURL(raw string) string {
	return strings.TrimSpace(raw)
}
