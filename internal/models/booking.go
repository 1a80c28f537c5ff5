package models

import "time"

// Booking is the live reservation row. Dates and times are kept as the
// string forms the rest of the system exchanges ("2006-01-02", "15:04");
// interval math happens in the domain layer.
//
// The UNIQUE(date,time) index predates variable-duration services and is
// stricter than interval non-overlap; it stays as the commit-time defense
// against two writers racing past the in-transaction availability check.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date string `gorm:"size:10;not null;uniqueIndex:idx_bookings_date_time" json:"date"`
	Time string `gorm:"size:5;not null;uniqueIndex:idx_bookings_date_time" json:"time"`

	UserID   int64  `gorm:"index:idx_bookings_user;not null" json:"user_id"`
	Username string `gorm:"size:100" json:"username"`

	ServiceID       uint `gorm:"not null" json:"service_id"`
	DurationMinutes int  `gorm:"not null;default:60" json:"duration_minutes"`

	CreatedAt time.Time `json:"created_at"`
}
