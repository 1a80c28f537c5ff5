package booking

import (
	"context"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

// JobScheduler is the deferred-job side of a booking's lifecycle. Schedule
// replaces any jobs already registered for the same booking id.
type JobScheduler interface {
	Schedule(ctx context.Context, b *models.Booking) error
	Cancel(ctx context.Context, bookingID uint) error
}

// HistoryRecorder appends immutable lifecycle entries.
type HistoryRecorder interface {
	RecordCreate(ctx context.Context, bookingID uint, userID int64, date, timeStr string, serviceID uint) error
	RecordCancel(ctx context.Context, bookingID uint, actorID int64, actorType, date, timeStr string, serviceID uint, reason string) error
	RecordReschedule(ctx context.Context, bookingID uint, actorID int64, actorType, oldDate, oldTime, newDate, newTime string, serviceID uint) error
}
