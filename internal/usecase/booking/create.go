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

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	Date     string
	Time     string
	UserID   int64
	Username string

	// Optional: when nil the first active service in display order is
	// used, the backward-compatible default.
	ServiceID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo      domain.Repository
	scheduler JobScheduler
	history   HistoryRecorder
	audit     *audit.Dispatcher
	logger    *zap.Logger

	workHours   domain.WorkHours
	maxBookings int
	retry       db.RetryPolicy
	loc         *time.Location
	now         func() time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	scheduler JobScheduler,
	history HistoryRecorder,
	auditor *audit.Dispatcher,
	logger *zap.Logger,
	workHours domain.WorkHours,
	maxBookings int,
	retry db.RetryPolicy,
	loc *time.Location,
) *CreateBooking {
	return &CreateBooking{
		repo:        repo,
		scheduler:   scheduler,
		history:     history,
		audit:       auditor,
		logger:      logger,
		workHours:   workHours,
		maxBookings: maxBookings,
		retry:       retry,
		loc:         loc,
		now:         func() time.Time { return time.Now().In(loc) },
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(ctx context.Context, in CreateInput) (*models.Booking, error) {

	// 1. Resolve the service; its duration is captured into the booking
	//    row and stays immutable afterwards.
	svc, err := uc.resolveService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	startMinute, err := domain.ParseClock(in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	today := uc.now().Format(domain.DateLayout)

	b := &models.Booking{
		Date:            in.Date,
		Time:            in.Time,
		UserID:          in.UserID,
		Username:        in.Username,
		ServiceID:       svc.ID,
		DurationMinutes: svc.DurationMinutes,
		CreatedAt:       uc.now(),
	}

	// 2. One exclusive transaction: limit re-check, authoritative
	//    availability re-check, insert. Transient lock errors are retried;
	//    business outcomes pass straight through.
	err = db.WithRetry(ctx, uc.retry, func() error {
		return uc.repo.Transaction(ctx, func(tx domain.Repository) error {

			count, err := tx.CountFutureBookings(ctx, in.UserID, today)
			if err != nil {
				return err
			}
			if count >= int64(uc.maxBookings) {
				return httperr.ErrBusiness(httperr.CodeLimitExceeded)
			}

			free, err := slotFreeInTx(ctx, tx, in.Date, startMinute, svc.DurationMinutes, uc.workHours, 0)
			if err != nil {
				return err
			}
			if !free {
				return httperr.ErrBusiness(httperr.CodeSlotTaken)
			}

			if err := tx.CreateBooking(ctx, b); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Another writer won a race that started after our
					// read; the unique(date,time) index is the last line
					// of defense.
					return httperr.ErrBusiness(httperr.CodeSlotTaken)
				}
				return err
			}
			return nil
		})
	})
	if err != nil {
		if code := httperr.BusinessCode(err); code != "" {
			uc.logger.Info("booking rejected",
				zap.String("code", code),
				zap.Int64("user_id", in.UserID),
				zap.String("slot", in.Date+" "+in.Time),
			)
			return nil, err
		}
		uc.logger.Error("booking creation failed", zap.Error(err))
		return nil, httperr.ErrBusiness(httperr.CodeDatabase)
	}

	// 3. Side effects outside the transaction; their failure never unwinds
	//    the committed booking.
	if err := uc.scheduler.Schedule(ctx, b); err != nil {
		uc.logger.Error("failed to schedule reminder jobs",
			zap.Uint("booking_id", b.ID), zap.Error(err))
	}
	if err := uc.history.RecordCreate(ctx, b.ID, in.UserID, in.Date, in.Time, svc.ID); err != nil {
		uc.logger.Error("failed to record booking history",
			zap.Uint("booking_id", b.ID), zap.Error(err))
	}
	uc.audit.Dispatch(audit.Event{
		UserID: in.UserID,
		Event:  "booking_created",
		Data:   in.Date + " " + in.Time,
	})

	uc.logger.Info("booking created",
		zap.Uint("booking_id", b.ID),
		zap.Int64("user_id", in.UserID),
		zap.Uint("service_id", svc.ID),
		zap.Int("duration_min", svc.DurationMinutes),
	)
	return b, nil
}

func (uc *CreateBooking) resolveService(ctx context.Context, serviceID *uint) (*models.Service, error) {
	if serviceID == nil {
		services, err := uc.repo.ListActiveServices(ctx)
		if err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeDatabase)
		}
		if len(services) == 0 {
			return nil, httperr.ErrBusiness(httperr.CodeNoServices)
		}
		return &services[0], nil
	}

	svc, err := uc.repo.GetServiceByID(ctx, *serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeServiceUnavailable)
		}
		return nil, httperr.ErrBusiness(httperr.CodeDatabase)
	}
	if !svc.IsActive {
		return nil, httperr.ErrBusiness(httperr.CodeServiceUnavailable)
	}
	return svc, nil
}

// slotFreeInTx loads the day's reservations and blocks through tx and runs
// the exact interval check. excludeID skips a booking being moved so a
// reschedule cannot collide with itself.
func slotFreeInTx(
	ctx context.Context,
	tx domain.Repository,
	date string,
	startMinute, durationMinutes int,
	hours domain.WorkHours,
	excludeID uint,
) (bool, error) {

	dayBookings, err := tx.ListDayBookings(ctx, date)
	if err != nil {
		return false, err
	}
	dayBlocks, err := tx.ListDayBlocks(ctx, date)
	if err != nil {
		return false, err
	}

	busy := make([]domain.Busy, 0, len(dayBookings))
	for _, b := range dayBookings {
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
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

	return domain.SlotFree(startMinute, durationMinutes, busy, blocks, hours), nil
}
