package booking

import "testing"

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"disjoint before", 540, 600, 600, 660, false},
		{"disjoint after", 660, 720, 600, 660, false},
		{"partial overlap", 570, 630, 600, 660, true},
		{"contained", 610, 620, 600, 660, true},
		{"identical", 600, 660, 600, 660, true},
		{"touching boundaries", 540, 600, 540, 540, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Fatalf("Overlaps(%d,%d,%d,%d) = %v, want %v",
					tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.want)
			}
		})
	}
}

func TestSlotFree(t *testing.T) {
	hours := NewWorkHours(9, 18)

	tests := []struct {
		name     string
		start    int
		duration int
		bookings []Busy
		blocks   []Busy
		want     bool
	}{
		{
			name:     "empty day",
			start:    10 * 60,
			duration: 60,
			want:     true,
		},
		{
			name:     "partial overlap rejected",
			start:    10*60 + 30,
			duration: 60,
			bookings: []Busy{{StartMinute: 10 * 60, DurationMinutes: 60}},
			want:     false,
		},
		{
			name:     "adjacent slot accepted",
			start:    11 * 60,
			duration: 30,
			bookings: []Busy{{StartMinute: 10 * 60, DurationMinutes: 60}},
			want:     true,
		},
		{
			name:     "runs past closing",
			start:    17 * 60,
			duration: 90,
			want:     false,
		},
		{
			name:     "ends exactly at closing",
			start:    17 * 60,
			duration: 60,
			want:     true,
		},
		{
			name:     "before opening",
			start:    8 * 60,
			duration: 60,
			want:     false,
		},
		{
			name:     "block occupies hour",
			start:    12*60 + 30,
			duration: 30,
			blocks:   []Busy{{StartMinute: 12 * 60}},
			want:     false,
		},
		{
			name:     "zero duration booking defaults to an hour",
			start:    14*60 + 30,
			duration: 30,
			bookings: []Busy{{StartMinute: 14 * 60, DurationMinutes: 0}},
			want:     false,
		},
		{
			name:     "long service blocks later start",
			start:    11 * 60,
			duration: 30,
			bookings: []Busy{{StartMinute: 10 * 60, DurationMinutes: 90}},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SlotFree(tt.start, tt.duration, tt.bookings, tt.blocks, hours)
			if got != tt.want {
				t.Fatalf("SlotFree(%d, %d) = %v, want %v", tt.start, tt.duration, got, tt.want)
			}
		})
	}
}

func TestDayStatus(t *testing.T) {
	hours := NewWorkHours(9, 18) // 9 hour-slots

	tests := []struct {
		occupied int
		want     DayLoad
	}{
		{0, DayFree},
		{1, DayBusy},
		{8, DayBusy},
		{9, DayFull},
		{12, DayFull},
	}

	for _, tt := range tests {
		if got := DayStatus(tt.occupied, hours); got != tt.want {
			t.Fatalf("DayStatus(%d) = %v, want %v", tt.occupied, got, tt.want)
		}
	}
}
