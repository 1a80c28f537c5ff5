package validators

import "testing"

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2026-03-15", true},
		{"2026-02-29", false},
		{"15.03.2026", false},
		{"2026-3-15", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidDate(tt.in); got != tt.want {
			t.Fatalf("IsValidDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsValidTime(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"00:00", true},
		{"09:30", true},
		{"23:59", true},
		{"24:00", false},
		{"9:30", false},
		{"09:60", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidTime(tt.in); got != tt.want {
			t.Fatalf("IsValidTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsValidRating(t *testing.T) {
	for rating, want := range map[int]bool{0: false, 1: true, 5: true, 6: false, -1: false} {
		if got := IsValidRating(rating); got != want {
			t.Fatalf("IsValidRating(%d) = %v, want %v", rating, got, want)
		}
	}
}
