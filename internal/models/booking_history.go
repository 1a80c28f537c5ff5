package models

import "time"

const (
	HistoryActionCreate     = "create"
	HistoryActionCancel     = "cancel"
	HistoryActionReschedule = "reschedule"

	ActorUser  = "user"
	ActorAdmin = "admin"
)

// BookingHistory is the append-only audit trail of booking lifecycle
// transitions. Rows reference a booking id but outlive the booking row;
// nothing reconstructs live state from here.
type BookingHistory struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint   `gorm:"index;not null" json:"booking_id"`
	Action    string `gorm:"size:20;not null" json:"action"`

	ChangedBy     int64  `gorm:"not null" json:"changed_by"`
	ChangedByType string `gorm:"size:10;not null" json:"changed_by_type"`

	OldDate string `gorm:"size:10" json:"old_date"`
	OldTime string `gorm:"size:5" json:"old_time"`
	NewDate string `gorm:"size:10" json:"new_date"`
	NewTime string `gorm:"size:5" json:"new_time"`

	OldServiceID *uint `json:"old_service_id"`
	NewServiceID *uint `json:"new_service_id"`

	Reason string `gorm:"size:255" json:"reason"`

	ChangedAt time.Time `gorm:"index" json:"changed_at"`
}
