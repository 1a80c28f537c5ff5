package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/balzampsilo-sys/tg-bot-10-02/internal/domain/booking"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

// Availability serves display queries: free times for a day, coarse
// month coloring, and a user's upcoming bookings. Everything here is an
// optimistic snapshot; the write transaction re-checks before committing.
type Availability struct {
	repo   domain.Repository
	logger *zap.Logger

	workHours domain.WorkHours
	loc       *time.Location
	now       func() time.Time
}

func NewAvailability(
	repo domain.Repository,
	logger *zap.Logger,
	workHours domain.WorkHours,
	loc *time.Location,
) *Availability {
	return &Availability{
		repo:      repo,
		logger:    logger,
		workHours: workHours,
		loc:       loc,
		now:       func() time.Time { return time.Now().In(loc) },
	}
}

// DaySlots walks the hour grid and returns the start times that would
// accept a booking of durationMinutes. Past times on today's date are
// excluded. durationMinutes <= 0 falls back to the one-hour default.
func (a *Availability) DaySlots(ctx context.Context, date string, durationMinutes int) ([]string, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}
	if durationMinutes <= 0 {
		durationMinutes = domain.BlockDurationMinutes
	}

	dayBookings, err := a.repo.ListDayBookings(ctx, date)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeDatabase)
	}
	dayBlocks, err := a.repo.ListDayBlocks(ctx, date)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeDatabase)
	}

	busy := make([]domain.Busy, 0, len(dayBookings))
	for _, b := range dayBookings {
		start, err := domain.ParseClock(b.Time)
		if err != nil {
			continue
		}
		busy = append(busy, domain.Busy{StartMinute: start, DurationMinutes: b.DurationMinutes})
	}
	blocks := make([]domain.Busy, 0, len(dayBlocks))
	for _, bl := range dayBlocks {
		start, err := domain.ParseClock(bl.Time)
		if err != nil {
			continue
		}
		blocks = append(blocks, domain.Busy{StartMinute: start, DurationMinutes: domain.BlockDurationMinutes})
	}

	now := a.now()
	isToday := date == now.Format(domain.DateLayout)
	nowMinute := now.Hour()*60 + now.Minute()

	var free []string
	for m := a.workHours.StartMinute; m+durationMinutes <= a.workHours.EndMinute; m += 60 {
		if isToday && m <= nowMinute {
			continue
		}
		if domain.SlotFree(m, durationMinutes, busy, blocks, a.workHours) {
			free = append(free, clockString(m))
		}
	}
	return free, nil
}

// DayLoadInfo pairs a date with its coarse load for calendar coloring.
type DayLoadInfo struct {
	Date   string         `json:"date"`
	Status domain.DayLoad `json:"status"`
}

// MonthStatuses colors every day of (year, month) with one aggregate
// query instead of a per-day scan.
func (a *Availability) MonthStatuses(ctx context.Context, year int, month time.Month) ([]DayLoadInfo, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, a.loc)
	last := first.AddDate(0, 1, -1)

	counts, err := a.repo.CountOccupiedByDate(ctx,
		first.Format(domain.DateLayout), last.Format(domain.DateLayout))
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeDatabase)
	}

	days := make([]DayLoadInfo, 0, last.Day())
	for d := 1; d <= last.Day(); d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, a.loc).Format(domain.DateLayout)
		days = append(days, DayLoadInfo{
			Date:   date,
			Status: domain.DayStatus(counts[date], a.workHours),
		})
	}
	return days, nil
}

// UserBookings lists a user's bookings from today forward.
func (a *Availability) UserBookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	today := a.now().Format(domain.DateLayout)
	bookings, err := a.repo.ListUserBookings(ctx, userID, today)
	if err != nil {
		a.logger.Error("failed to list user bookings",
			zap.Int64("user_id", userID), zap.Error(err))
		return nil, httperr.ErrBusiness(httperr.CodeDatabase)
	}
	return bookings, nil
}

// Blocks lists every blocked slot for the admin view.
func (a *Availability) Blocks(ctx context.Context) ([]models.BlockedSlot, error) {
	blocks, err := a.repo.ListBlocks(ctx)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeDatabase)
	}
	return blocks, nil
}

func clockString(minute int) string {
	return time.Date(0, 1, 1, minute/60, minute%60, 0, 0, time.UTC).Format(domain.TimeLayout)
}
