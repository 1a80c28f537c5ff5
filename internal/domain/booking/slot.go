package booking

// Blocks do not carry a duration; each occupies one working-hour unit.
const BlockDurationMinutes = 60

// WorkHours is the shared resource's working day, minutes from midnight.
type WorkHours struct {
	StartMinute int
	EndMinute   int
}

func NewWorkHours(startHour, endHour int) WorkHours {
	return WorkHours{StartMinute: startHour * 60, EndMinute: endHour * 60}
}

// Busy is an occupied interval on the day's timeline.
type Busy struct {
	StartMinute     int
	DurationMinutes int
}

// Overlaps is the half-open interval test: [aStart, aEnd) and
// [bStart, bEnd) share at least one instant.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// SlotFree decides whether a candidate [start, start+duration) interval
// fits: it must end inside working hours and must not overlap any existing
// booking or block, even partially. Pure function; callers run it both as
// an optimistic pre-check and as the authoritative check inside a write
// transaction.
func SlotFree(startMinute, durationMinutes int, bookings, blocks []Busy, hours WorkHours) bool {
	end := startMinute + durationMinutes

	if startMinute < hours.StartMinute || end > hours.EndMinute {
		return false
	}

	for _, b := range bookings {
		d := b.DurationMinutes
		if d <= 0 {
			d = BlockDurationMinutes
		}
		if Overlaps(startMinute, end, b.StartMinute, b.StartMinute+d) {
			return false
		}
	}

	for _, bl := range blocks {
		if Overlaps(startMinute, end, bl.StartMinute, bl.StartMinute+BlockDurationMinutes) {
			return false
		}
	}

	return true
}
