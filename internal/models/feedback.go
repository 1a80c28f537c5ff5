package models

import "time"

type Feedback struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID    int64 `gorm:"index;not null" json:"user_id"`
	BookingID uint  `gorm:"not null" json:"booking_id"`
	Rating    int   `gorm:"not null" json:"rating"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
