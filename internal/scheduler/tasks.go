package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeSendReminder   = "booking:reminder"
	TypeSendFeedback   = "booking:feedback"
	TypeHousekeeping   = "housekeeping:sweep"
	QueueNotifications = "notifications"
)

// JobKey addresses a deferred job by booking identity. Enqueueing under an
// existing key replaces the prior job instead of duplicating it; the keys
// are owned here, callers never format them.
type JobKey string

func ReminderKey(bookingID uint) JobKey {
	return JobKey(fmt.Sprintf("reminder:%d", bookingID))
}

func FeedbackKey(bookingID uint) JobKey {
	return JobKey(fmt.Sprintf("feedback:%d", bookingID))
}

type ReminderPayload struct {
	BookingID uint   `json:"booking_id"`
	UserID    int64  `json:"user_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

type FeedbackPayload struct {
	BookingID uint   `json:"booking_id"`
	UserID    int64  `json:"user_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

func newTask(taskType string, payload any) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, b), nil
}
