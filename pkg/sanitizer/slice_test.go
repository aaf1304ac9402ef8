package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeAmenities(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "nil becomes empty",
			input: nil,
			want:  []string{},
		},
		{
			name:  "trims each entry and keeps order",
			input: []string{" Wifi ", "Air  conditioning", "Balcony"},
			want:  []string{"Wifi", "Air  conditioning", "Balcony"},
		},
		{
			name:  "keeps duplicates and empty entries",
			input: []string{"WiFi", "WiFi", "  "},
			want:  []string{"WiFi", "WiFi", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAmenities(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeAmenities(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
