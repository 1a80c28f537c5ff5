package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/config"
	domain "github.com/balzampsilo-sys/tg-bot-10-02/internal/domain/booking"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/timezone"
)

// Scheduler owns the deferred reminder/feedback jobs, keyed by booking
// identity. Scheduling the same booking twice replaces the prior jobs;
// cancelling tolerates jobs that were never scheduled.
type Scheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	logger    *zap.Logger
	loc       *time.Location

	// Reminder lead times, largest first. At most one reminder per
	// booking: the largest lead still in the future wins.
	leads         []time.Duration
	feedbackDelay time.Duration

	now func() time.Time
}

func New(redisOpt asynq.RedisClientOpt, cfg *config.Config, logger *zap.Logger) *Scheduler {
	loc := timezone.Location(cfg.Timezone)
	return &Scheduler{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		logger:    logger,
		loc:       loc,
		leads: []time.Duration{
			time.Duration(cfg.ReminderHours24) * time.Hour,
			time.Duration(cfg.ReminderHours2) * time.Hour,
			time.Duration(cfg.ReminderHours1) * time.Hour,
		},
		feedbackDelay: time.Duration(cfg.FeedbackHoursAfter) * time.Hour,
		now:           func() time.Time { return time.Now().In(loc) },
	}
}

func (s *Scheduler) Close() error {
	return s.client.Close()
}

// PickReminderTime selects the single reminder instant for an appointment:
// the largest configured lead time whose trigger is still in the future.
// Returns false when even the smallest lead has already passed.
func PickReminderTime(appointmentAt, now time.Time, leads []time.Duration) (time.Time, bool) {
	for _, lead := range leads {
		at := appointmentAt.Add(-lead)
		if at.After(now) {
			return at, true
		}
	}
	return time.Time{}, false
}

// Schedule registers the booking's deferred jobs: at most one reminder and
// exactly one feedback request. Prior jobs under the same keys are
// replaced.
func (s *Scheduler) Schedule(ctx context.Context, b *models.Booking) error {
	appointmentAt, err := domain.CombineLocal(b.Date, b.Time, s.loc)
	if err != nil {
		return err
	}
	now := s.now()

	s.remove(ReminderKey(b.ID))
	if remindAt, ok := PickReminderTime(appointmentAt, now, s.leads); ok {
		if err := s.enqueue(ctx, TypeSendReminder, ReminderKey(b.ID), remindAt, ReminderPayload{
			BookingID: b.ID,
			UserID:    b.UserID,
			Date:      b.Date,
			Time:      b.Time,
		}); err != nil {
			return err
		}
	}

	appointmentEnd := appointmentAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
	feedbackAt := appointmentEnd.Add(s.feedbackDelay)

	s.remove(FeedbackKey(b.ID))
	return s.enqueue(ctx, TypeSendFeedback, FeedbackKey(b.ID), feedbackAt, FeedbackPayload{
		BookingID: b.ID,
		UserID:    b.UserID,
		Date:      b.Date,
		Time:      b.Time,
	})
}

// Restore re-registers jobs for a live booking, skipping any trigger
// already in the past. Used by the startup recovery pass.
func (s *Scheduler) Restore(ctx context.Context, b *models.Booking) (restored bool, err error) {
	appointmentAt, err := domain.CombineLocal(b.Date, b.Time, s.loc)
	if err != nil {
		return false, err
	}
	now := s.now()

	if remindAt, ok := PickReminderTime(appointmentAt, now, s.leads); ok {
		s.remove(ReminderKey(b.ID))
		if err := s.enqueue(ctx, TypeSendReminder, ReminderKey(b.ID), remindAt, ReminderPayload{
			BookingID: b.ID,
			UserID:    b.UserID,
			Date:      b.Date,
			Time:      b.Time,
		}); err != nil {
			return false, err
		}
		restored = true
	}

	feedbackAt := appointmentAt.
		Add(time.Duration(b.DurationMinutes) * time.Minute).
		Add(s.feedbackDelay)
	if feedbackAt.After(now) {
		s.remove(FeedbackKey(b.ID))
		if err := s.enqueue(ctx, TypeSendFeedback, FeedbackKey(b.ID), feedbackAt, FeedbackPayload{
			BookingID: b.ID,
			UserID:    b.UserID,
			Date:      b.Date,
			Time:      b.Time,
		}); err != nil {
			return restored, err
		}
		restored = true
	}

	return restored, nil
}

// Cancel removes both keyed jobs for a booking. Absence is not an error:
// the appointment may have been too close to now for a reminder to exist.
func (s *Scheduler) Cancel(_ context.Context, bookingID uint) error {
	s.remove(ReminderKey(bookingID))
	s.remove(FeedbackKey(bookingID))
	return nil
}

// RunHousekeeping enqueues an immediate sweep, same task the nightly cron
// fires.
func (s *Scheduler) RunHousekeeping(ctx context.Context) error {
	task := asynq.NewTask(TypeHousekeeping, nil)
	_, err := s.client.EnqueueContext(ctx, task, asynq.Queue(QueueNotifications))
	return err
}

func (s *Scheduler) enqueue(ctx context.Context, taskType string, key JobKey, at time.Time, payload any) error {
	task, err := newTask(taskType, payload)
	if err != nil {
		return err
	}

	_, err = s.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueNotifications),
		asynq.TaskID(string(key)),
		asynq.ProcessAt(at),
		asynq.MaxRetry(3),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// Same key, same booking: the job is already registered.
		s.logger.Debug("job already scheduled", zap.String("key", string(key)))
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Debug("job scheduled",
		zap.String("key", string(key)),
		zap.Time("at", at),
	)
	return nil
}

func (s *Scheduler) remove(key JobKey) {
	err := s.inspector.DeleteTask(QueueNotifications, string(key))
	if err != nil &&
		!errors.Is(err, asynq.ErrTaskNotFound) &&
		!errors.Is(err, asynq.ErrQueueNotFound) {
		s.logger.Warn("failed to remove scheduled job",
			zap.String("key", string(key)),
			zap.Error(err),
		)
	}
}
