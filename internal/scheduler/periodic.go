package scheduler

import (
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NewPeriodic registers recurring housekeeping: one nightly sweep that
// drops past bookings and applies history retention.
func NewPeriodic(redisOpt asynq.RedisClientOpt, loc *time.Location, logger *zap.Logger) *asynq.Scheduler {
	sched := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: loc})

	task := asynq.NewTask(TypeHousekeeping, nil)
	if _, err := sched.Register("0 4 * * *", task, asynq.Queue(QueueNotifications)); err != nil {
		log.Fatalf("failed to register housekeeping job: %v", err)
	}

	logger.Info("housekeeping job registered", zap.String("cron", "0 4 * * *"))
	return sched
}
