package history

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

// Recorder appends immutable lifecycle entries for bookings. Rows are never
// updated; the only deletion path is the explicit retention sweep.
type Recorder struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewRecorder(db *gorm.DB, logger *zap.Logger, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{db: db, logger: logger, now: now}
}

func (r *Recorder) RecordCreate(
	ctx context.Context,
	bookingID uint,
	userID int64,
	date, timeStr string,
	serviceID uint,
) error {

	entry := models.BookingHistory{
		BookingID:     bookingID,
		Action:        models.HistoryActionCreate,
		ChangedBy:     userID,
		ChangedByType: models.ActorUser,
		NewDate:       date,
		NewTime:       timeStr,
		NewServiceID:  &serviceID,
		ChangedAt:     r.now(),
	}

	return r.append(ctx, &entry)
}

func (r *Recorder) RecordCancel(
	ctx context.Context,
	bookingID uint,
	actorID int64,
	actorType string,
	date, timeStr string,
	serviceID uint,
	reason string,
) error {

	entry := models.BookingHistory{
		BookingID:     bookingID,
		Action:        models.HistoryActionCancel,
		ChangedBy:     actorID,
		ChangedByType: actorType,
		OldDate:       date,
		OldTime:       timeStr,
		OldServiceID:  &serviceID,
		Reason:        reason,
		ChangedAt:     r.now(),
	}

	return r.append(ctx, &entry)
}

func (r *Recorder) RecordReschedule(
	ctx context.Context,
	bookingID uint,
	actorID int64,
	actorType string,
	oldDate, oldTime, newDate, newTime string,
	serviceID uint,
) error {

	// Service never changes on reschedule; old and new reference the same id.
	entry := models.BookingHistory{
		BookingID:     bookingID,
		Action:        models.HistoryActionReschedule,
		ChangedBy:     actorID,
		ChangedByType: actorType,
		OldDate:       oldDate,
		OldTime:       oldTime,
		NewDate:       newDate,
		NewTime:       newTime,
		OldServiceID:  &serviceID,
		NewServiceID:  &serviceID,
		ChangedAt:     r.now(),
	}

	return r.append(ctx, &entry)
}

func (r *Recorder) append(ctx context.Context, entry *models.BookingHistory) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		r.logger.Error("failed to record booking history",
			zap.Uint("booking_id", entry.BookingID),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *Recorder) ListByBooking(ctx context.Context, bookingID uint) ([]models.BookingHistory, error) {
	var entries []models.BookingHistory
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("changed_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Recorder) ListByUser(ctx context.Context, userID int64, limit int) ([]models.BookingHistory, error) {
	var entries []models.BookingHistory
	if err := r.db.WithContext(ctx).
		Where("changed_by = ?", userID).
		Order("changed_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CleanupBefore deletes entries older than cutoff. This retention sweep is
// the single sanctioned way history rows ever disappear.
func (r *Recorder) CleanupBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("changed_at < ?", cutoff).
		Delete(&models.BookingHistory{})
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected > 0 {
		r.logger.Info("history retention sweep",
			zap.Int64("deleted", res.RowsAffected),
			zap.Time("cutoff", cutoff),
		)
	}
	return res.RowsAffected, nil
}
