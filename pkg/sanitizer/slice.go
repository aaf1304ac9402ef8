package sanitizer

import "strings"

// NormalizeAmenities trims each amenity. Order, duplicates and empty entries are
// kept so a room reads back with the list it was written with.
func NormalizeAmenities(amenities []string) []string {
	result := make([]string, len(amenities))
	for i, amenity := range amenities {
		result[i] = strings.TrimSpace(amenity)
	}
	return result
}
