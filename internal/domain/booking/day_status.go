package booking

// DayLoad is the coarse calendar coloring for a whole day.
type DayLoad string

const (
	DayFree DayLoad = "free"
	DayBusy DayLoad = "busy"
	DayFull DayLoad = "full"
)

// DayStatus colors a day by counting occupied hour-slots against the
// working day's hour grid. Display-only approximation: it rounds every
// occupation to a whole hour-slot, so a day with non-hour-aligned service
// durations can show as available while SlotFree still rejects specific
// times within it. The exact interval check inside the transaction is the
// only authoritative answer.
func DayStatus(occupied int, hours WorkHours) DayLoad {
	totalSlots := (hours.EndMinute - hours.StartMinute) / 60

	switch {
	case occupied <= 0:
		return DayFree
	case occupied < totalSlots:
		return DayBusy
	default:
		return DayFull
	}
}
