package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/audit"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/config"
	domain "github.com/balzampsilo-sys/tg-bot-10-02/internal/domain/booking"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/history"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/notify"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/timezone"
)

// Worker executes deferred jobs on a single sequential executor
// (Concurrency 1): a slow notification delays the next job but never a
// reservation request, and at most one instance of a job runs at a time.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

type WorkerDeps struct {
	Notifier notify.Notifier
	Audit    *audit.Dispatcher
	Repo     domain.Repository
	History  *history.Recorder
}

func NewWorker(redisOpt asynq.RedisClientOpt, cfg *config.Config, deps WorkerDeps, logger *zap.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
		Queues: map[string]int{
			QueueNotifications: 1,
		},
	})

	loc := timezone.Location(cfg.Timezone)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSendReminder, handleReminder(deps, cfg, loc, logger))
	mux.HandleFunc(TypeSendFeedback, handleFeedback(deps, logger))
	mux.HandleFunc(TypeHousekeeping, handleHousekeeping(deps, cfg, loc, logger))

	return &Worker{server: srv, mux: mux, logger: logger}
}

func (w *Worker) Start() error {
	w.logger.Info("starting job worker")
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// Job handlers log failures and swallow them: a broken notification send
// must never abort the worker, and retrying a send risks duplicate
// messages.

func handleReminder(deps WorkerDeps, cfg *config.Config, loc *time.Location, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("reminder payload unreadable", zap.Error(err))
			return nil
		}

		at, err := domain.CombineLocal(p.Date, p.Time, loc)
		if err != nil {
			logger.Error("reminder has invalid slot", zap.Uint("booking_id", p.BookingID), zap.Error(err))
			return nil
		}

		text := fmt.Sprintf(
			"⏰ Напоминание о записи!\n\n📅 %s\n🕒 %s",
			at.Format("02.01.2006"), p.Time,
		)
		if cfg.ServiceLocation != "" {
			text += "\n📍 " + cfg.ServiceLocation
		}
		text += "\n\nЕсли нужно отменить — раздел «Мои записи»."

		if err := deps.Notifier.Send(ctx, p.UserID, text); err != nil {
			logger.Error("failed to send reminder",
				zap.Uint("booking_id", p.BookingID),
				zap.Int64("user_id", p.UserID),
				zap.Error(err),
			)
			return nil
		}

		deps.Audit.Dispatch(audit.Event{
			UserID: p.UserID,
			Event:  "reminder_sent",
			Data:   fmt.Sprintf("%s %s", p.Date, p.Time),
		})
		return nil
	}
}

func handleFeedback(deps WorkerDeps, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p FeedbackPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("feedback payload unreadable", zap.Error(err))
			return nil
		}

		text := "💬 Как прошла встреча?\n\nОцените качество услуги от 1 до 5."

		if err := deps.Notifier.Send(ctx, p.UserID, text); err != nil {
			logger.Error("failed to send feedback request",
				zap.Uint("booking_id", p.BookingID),
				zap.Int64("user_id", p.UserID),
				zap.Error(err),
			)
			return nil
		}

		deps.Audit.Dispatch(audit.Event{
			UserID: p.UserID,
			Event:  "feedback_request_sent",
			Data:   fmt.Sprintf("%s %s", p.Date, p.Time),
		})
		return nil
	}
}

// handleHousekeeping drops past bookings and sweeps history entries older
// than the retention cutoff. The sweep is the only path that ever deletes
// history rows.
func handleHousekeeping(deps WorkerDeps, cfg *config.Config, loc *time.Location, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		now := time.Now().In(loc)
		today := now.Format(domain.DateLayout)

		removed, err := deps.Repo.DeleteBookingsBefore(ctx, today)
		if err != nil {
			logger.Error("old booking cleanup failed", zap.Error(err))
		} else if removed > 0 {
			logger.Info("old bookings cleaned up", zap.Int64("removed", removed))
		}

		cutoff := now.AddDate(0, 0, -cfg.HistoryRetentionDays)
		if _, err := deps.History.CleanupBefore(ctx, cutoff); err != nil {
			logger.Error("history retention sweep failed", zap.Error(err))
		}

		return nil
	}
}
