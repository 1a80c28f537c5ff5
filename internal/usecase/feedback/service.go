package feedback

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/audit"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

// Service stores post-appointment ratings.
type Service struct {
	db     *gorm.DB
	audit  *audit.Dispatcher
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *gorm.DB, auditor *audit.Dispatcher, logger *zap.Logger) *Service {
	return &Service{db: db, audit: auditor, logger: logger, now: time.Now}
}

// Save records one rating for a booking. Ratings are 1 to 5.
func (s *Service) Save(ctx context.Context, userID int64, bookingID uint, rating int) error {
	if rating < 1 || rating > 5 {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}

	fb := models.Feedback{
		UserID:    userID,
		BookingID: bookingID,
		Rating:    rating,
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&fb).Error; err != nil {
		s.logger.Error("failed to save feedback",
			zap.Int64("user_id", userID),
			zap.Uint("booking_id", bookingID),
			zap.Error(err),
		)
		return httperr.ErrBusiness(httperr.CodeDatabase)
	}

	s.audit.Dispatch(audit.Event{
		UserID: userID,
		Event:  "feedback_saved",
		Data:   fb.CreatedAt.Format(time.RFC3339),
	})
	return nil
}

// AverageRating aggregates all stored ratings. Zero when none exist.
func (s *Service) AverageRating(ctx context.Context) (float64, int64, error) {
	var (
		avg   *float64
		count int64
	)
	if err := s.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Select("AVG(rating)").
		Scan(&avg).Error; err != nil {
		return 0, 0, err
	}
	if avg == nil {
		return 0, count, nil
	}
	return *avg, count, nil
}
