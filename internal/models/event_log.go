package models

import "time"

// EventLog is the free-form activity log written by the audit dispatcher
// (booking_created, reminder_sent, ...). Distinct from BookingHistory,
// which is the structured lifecycle trail.
type EventLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID int64  `gorm:"index" json:"user_id"`
	Event  string `gorm:"size:50;not null" json:"event"`
	Data   string `gorm:"size:255" json:"data"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
