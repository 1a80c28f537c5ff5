package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/audit"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/db"
	domain "github.com/balzampsilo-sys/tg-bot-10-02/internal/domain/booking"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

type RescheduleInput struct {
	BookingID uint
	UserID    int64
	NewDate   string
	NewTime   string

	// Set when an admin moves the booking on the user's behalf.
	AdminID *int64
}

type RescheduleBooking struct {
	repo      domain.Repository
	scheduler JobScheduler
	history   HistoryRecorder
	audit     *audit.Dispatcher
	logger    *zap.Logger

	workHours domain.WorkHours
	retry     db.RetryPolicy
	loc       *time.Location
}

func NewRescheduleBooking(
	repo domain.Repository,
	scheduler JobScheduler,
	history HistoryRecorder,
	auditor *audit.Dispatcher,
	logger *zap.Logger,
	workHours domain.WorkHours,
	retry db.RetryPolicy,
	loc *time.Location,
) *RescheduleBooking {
	return &RescheduleBooking{
		repo:      repo,
		scheduler: scheduler,
		history:   history,
		audit:     auditor,
		logger:    logger,
		workHours: workHours,
		retry:     retry,
		loc:       loc,
	}
}

// Execute moves a booking to a new slot in one exclusive transaction. The
// availability check excludes the booking itself, so moving within the same
// day never collides with its own old slot. Duration and created_at carry
// over unchanged.
func (uc *RescheduleBooking) Execute(ctx context.Context, in RescheduleInput) (*models.Booking, error) {

	startMinute, err := domain.ParseClock(in.NewTime)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	var (
		oldDate, oldTime string
		updated          models.Booking
	)

	err = db.WithRetry(ctx, uc.retry, func() error {
		return uc.repo.Transaction(ctx, func(tx domain.Repository) error {
			b, err := tx.GetBookingForUser(ctx, in.BookingID, in.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return httperr.ErrBusiness(httperr.CodeNotFound)
				}
				return err
			}
			oldDate, oldTime = b.Date, b.Time

			free, err := slotFreeInTx(ctx, tx, in.NewDate, startMinute, b.DurationMinutes, uc.workHours, b.ID)
			if err != nil {
				return err
			}
			if !free {
				return httperr.ErrBusiness(httperr.CodeSlotTaken)
			}

			if err := tx.UpdateBookingSlot(ctx, b.ID, in.NewDate, in.NewTime); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return httperr.ErrBusiness(httperr.CodeSlotTaken)
				}
				return err
			}

			updated = *b
			updated.Date = in.NewDate
			updated.Time = in.NewTime
			return nil
		})
	})
	if err != nil {
		if code := httperr.BusinessCode(err); code != "" {
			uc.logger.Info("reschedule rejected",
				zap.String("code", code),
				zap.Uint("booking_id", in.BookingID),
				zap.String("new_slot", in.NewDate+" "+in.NewTime),
			)
			return nil, err
		}
		uc.logger.Error("reschedule failed", zap.Error(err))
		return nil, httperr.ErrBusiness(httperr.CodeDatabase)
	}

	actorID := in.UserID
	actorType := models.ActorUser
	if in.AdminID != nil {
		actorID = *in.AdminID
		actorType = models.ActorAdmin
	}

	if err := uc.history.RecordReschedule(ctx, updated.ID, actorID, actorType,
		oldDate, oldTime, in.NewDate, in.NewTime, updated.ServiceID); err != nil {
		uc.logger.Error("failed to record reschedule history",
			zap.Uint("booking_id", updated.ID), zap.Error(err))
	}
	if err := uc.scheduler.Schedule(ctx, &updated); err != nil {
		uc.logger.Error("failed to reschedule reminder jobs",
			zap.Uint("booking_id", updated.ID), zap.Error(err))
	}
	uc.audit.Dispatch(audit.Event{
		UserID: in.UserID,
		Event:  "booking_rescheduled",
		Data:   oldDate + " " + oldTime + " -> " + in.NewDate + " " + in.NewTime,
	})

	uc.logger.Info("booking rescheduled",
		zap.Uint("booking_id", updated.ID),
		zap.String("from", oldDate+" "+oldTime),
		zap.String("to", in.NewDate+" "+in.NewTime),
	)
	return &updated, nil
}
