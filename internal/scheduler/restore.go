package scheduler

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/balzampsilo-sys/tg-bot-10-02/internal/domain/booking"
)

// RestoreAll reconstructs the deferred-job set from durable booking rows
// after a restart. Bookings are processed in bounded batches so a large
// backlog cannot block startup in one synchronous pass. Only triggers
// still in the future are re-registered; running it twice over an
// unchanged booking set converges on the same jobs.
func (s *Scheduler) RestoreAll(ctx context.Context, repo domain.Repository, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 50
	}

	total, err := repo.CountBookings(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("starting reminder restoration", zap.Int64("bookings", total))

	var processed, restored int
	for offset := 0; ; offset += batchSize {
		batch, err := repo.ListBookingsPage(ctx, offset, batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			break
		}

		for i := range batch {
			ok, err := s.Restore(ctx, &batch[i])
			if err != nil {
				s.logger.Warn("failed to restore jobs for booking",
					zap.Uint("booking_id", batch[i].ID),
					zap.Error(err),
				)
			} else if ok {
				restored++
			}
			processed++
		}

		s.logger.Info("reminder restoration progress",
			zap.Int("processed", processed),
			zap.Int64("total", total),
			zap.Int("restored", restored),
		)
	}

	s.logger.Info("reminder restoration completed",
		zap.Int("restored", restored),
		zap.Int("processed", processed),
	)
	return nil
}
