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

type CancelBooking struct {
	repo      domain.Repository
	scheduler JobScheduler
	history   HistoryRecorder
	audit     *audit.Dispatcher
	logger    *zap.Logger

	cancellationHours int
	retry             db.RetryPolicy
	loc               *time.Location
	now               func() time.Time
}

func NewCancelBooking(
	repo domain.Repository,
	scheduler JobScheduler,
	history HistoryRecorder,
	auditor *audit.Dispatcher,
	logger *zap.Logger,
	cancellationHours int,
	retry db.RetryPolicy,
	loc *time.Location,
) *CancelBooking {
	return &CancelBooking{
		repo:              repo,
		scheduler:         scheduler,
		history:           history,
		audit:             auditor,
		logger:            logger,
		cancellationHours: cancellationHours,
		retry:             retry,
		loc:               loc,
		now:               func() time.Time { return time.Now().In(loc) },
	}
}

// CanCancel applies the self-service cancellation window. Callers enforce
// it before Execute; admin-forced paths skip it entirely.
func (uc *CancelBooking) CanCancel(date, timeStr string) (bool, float64, error) {
	bookingAt, err := domain.CombineLocal(date, timeStr, uc.loc)
	if err != nil {
		return false, 0, httperr.ErrBusiness(httperr.CodeValidation)
	}
	ok, hoursLeft := domain.CanCancel(bookingAt, uc.now(), uc.cancellationHours)
	return ok, hoursLeft, nil
}

// Execute removes the booking row (hard delete), appends the final history
// snapshot and drops any pending jobs. When adminID is set the entry is
// attributed to the admin.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	date, timeStr string,
	userID int64,
	adminID *int64,
) (uint, error) {

	var cancelled models.Booking

	err := db.WithRetry(ctx, uc.retry, func() error {
		return uc.repo.Transaction(ctx, func(tx domain.Repository) error {
			b, err := tx.FindBooking(ctx, date, timeStr, userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return httperr.ErrBusiness(httperr.CodeNotFound)
				}
				return err
			}
			cancelled = *b

			if _, err := tx.DeleteBooking(ctx, b.ID); err != nil {
				return err
			}
			return nil
		})
	})
	if err != nil {
		if code := httperr.BusinessCode(err); code != "" {
			return 0, err
		}
		uc.logger.Error("booking cancellation failed", zap.Error(err))
		return 0, httperr.ErrBusiness(httperr.CodeDatabase)
	}

	actorID := userID
	actorType := models.ActorUser
	reason := "Cancelled by user"
	if adminID != nil {
		actorID = *adminID
		actorType = models.ActorAdmin
		reason = "Cancelled by admin"
	}

	if err := uc.history.RecordCancel(ctx, cancelled.ID, actorID, actorType,
		cancelled.Date, cancelled.Time, cancelled.ServiceID, reason); err != nil {
		uc.logger.Error("failed to record cancel history",
			zap.Uint("booking_id", cancelled.ID), zap.Error(err))
	}
	if err := uc.scheduler.Cancel(ctx, cancelled.ID); err != nil {
		uc.logger.Error("failed to drop scheduled jobs",
			zap.Uint("booking_id", cancelled.ID), zap.Error(err))
	}
	uc.audit.Dispatch(audit.Event{
		UserID: userID,
		Event:  "booking_cancelled",
		Data:   date + " " + timeStr,
	})

	uc.logger.Info("booking cancelled",
		zap.Uint("booking_id", cancelled.ID),
		zap.String("actor", actorType),
		zap.Int64("actor_id", actorID),
	)
	return cancelled.ID, nil
}
