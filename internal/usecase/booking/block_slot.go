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

// DisplacedUser describes a booking removed because an admin blocked its
// exact slot. Callers notify these users after the block commits.
type DisplacedUser struct {
	BookingID uint   `json:"booking_id"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	ServiceID uint   `json:"service_id"`
}

type BlockSlot struct {
	repo      domain.Repository
	scheduler JobScheduler
	history   HistoryRecorder
	audit     *audit.Dispatcher
	logger    *zap.Logger

	retry db.RetryPolicy
	loc   *time.Location
	now   func() time.Time
}

func NewBlockSlot(
	repo domain.Repository,
	scheduler JobScheduler,
	history HistoryRecorder,
	auditor *audit.Dispatcher,
	logger *zap.Logger,
	retry db.RetryPolicy,
	loc *time.Location,
) *BlockSlot {
	return &BlockSlot{
		repo:      repo,
		scheduler: scheduler,
		history:   history,
		audit:     auditor,
		logger:    logger,
		retry:     retry,
		loc:       loc,
		now:       func() time.Time { return time.Now().In(loc) },
	}
}

// Execute blocks one slot and displaces bookings at the exact same
// date and time. Displacement and the block insert happen in one
// transaction; the returned list drives user notifications.
func (uc *BlockSlot) Execute(
	ctx context.Context,
	date, timeStr string,
	adminID int64,
	reason string,
) ([]DisplacedUser, error) {

	var displaced []DisplacedUser

	err := db.WithRetry(ctx, uc.retry, func() error {
		return uc.repo.Transaction(ctx, func(tx domain.Repository) error {
			displaced = displaced[:0]

			existing, err := tx.ListBookingsAt(ctx, date, timeStr)
			if err != nil {
				return err
			}
			for _, b := range existing {
				if _, err := tx.DeleteBooking(ctx, b.ID); err != nil {
					return err
				}
				displaced = append(displaced, DisplacedUser{
					BookingID: b.ID,
					UserID:    b.UserID,
					Username:  b.Username,
					Date:      b.Date,
					Time:      b.Time,
					ServiceID: b.ServiceID,
				})
			}

			bl := &models.BlockedSlot{
				Date:      date,
				Time:      timeStr,
				Reason:    reason,
				BlockedBy: adminID,
				BlockedAt: uc.now(),
			}
			if err := tx.CreateBlock(ctx, bl); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return httperr.ErrBusiness(httperr.CodeAlreadyBlocked)
				}
				return err
			}
			return nil
		})
	})
	if err != nil {
		if code := httperr.BusinessCode(err); code != "" {
			return nil, err
		}
		uc.logger.Error("slot blocking failed", zap.Error(err))
		return nil, httperr.ErrBusiness(httperr.CodeDatabase)
	}

	for _, d := range displaced {
		if err := uc.history.RecordCancel(ctx, d.BookingID, adminID, models.ActorAdmin,
			d.Date, d.Time, d.ServiceID, "Slot blocked by admin"); err != nil {
			uc.logger.Error("failed to record displaced booking",
				zap.Uint("booking_id", d.BookingID), zap.Error(err))
		}
		if err := uc.scheduler.Cancel(ctx, d.BookingID); err != nil {
			uc.logger.Error("failed to drop jobs for displaced booking",
				zap.Uint("booking_id", d.BookingID), zap.Error(err))
		}
	}
	uc.audit.Dispatch(audit.Event{
		UserID: adminID,
		Event:  "slot_blocked",
		Data:   date + " " + timeStr,
	})

	uc.logger.Info("slot blocked",
		zap.String("slot", date+" "+timeStr),
		zap.Int64("admin_id", adminID),
		zap.Int("displaced", len(displaced)),
	)
	return displaced, nil
}

// Unblock removes a block. Missing blocks report NOT_FOUND so admin
// tooling can distinguish a stale view from success.
func (uc *BlockSlot) Unblock(ctx context.Context, date, timeStr string, adminID int64) error {
	err := db.WithRetry(ctx, uc.retry, func() error {
		removed, err := uc.repo.DeleteBlock(ctx, date, timeStr)
		if err != nil {
			return err
		}
		if !removed {
			return httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil
	})
	if err != nil {
		if code := httperr.BusinessCode(err); code != "" {
			return err
		}
		uc.logger.Error("slot unblocking failed", zap.Error(err))
		return httperr.ErrBusiness(httperr.CodeDatabase)
	}

	uc.audit.Dispatch(audit.Event{
		UserID: adminID,
		Event:  "slot_unblocked",
		Data:   date + " " + timeStr,
	})
	uc.logger.Info("slot unblocked",
		zap.String("slot", date+" "+timeStr),
		zap.Int64("admin_id", adminID),
	)
	return nil
}
