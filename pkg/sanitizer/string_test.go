package sanitizer

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already clean", input: "Garden View", want: "Garden View"},
		{name: "leading and trailing", input: "  Garden View  ", want: "Garden View"},
		{name: "inner runs kept", input: "Deluxe  Room", want: "Deluxe  Room"},
		{name: "vietnamese text", input: "  Phòng Hoa Sen ", want: "Phòng Hoa Sen"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: " \t ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Lan.Nguyen@Example.COM "); got != "lan.nguyen@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: " available ", want: "available"},
		{input: "Available", want: "Available"},
		{input: " MAINTENANCE", want: "MAINTENANCE"},
	}

	for _, tt := range tests {
		if got := NormalizeStatus(tt.input); got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeImageURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "relative path kept", input: " /images/room-1.jpg ", want: "/images/room-1.jpg"},
		{name: "absolute kept as written", input: " https://CDN.KhietAn.vn/Rooms/1.jpg", want: "https://CDN.KhietAn.vn/Rooms/1.jpg"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeImageURL(tt.input); got != tt.want {
				t.Errorf("NormalizeImageURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
