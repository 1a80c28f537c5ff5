package models

import "time"

// BlockedSlot marks a slot an administrator closed for booking. Blocks
// always occupy one working-hour unit, they do not carry a duration.
type BlockedSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date string `gorm:"size:10;not null;uniqueIndex:idx_blocked_date_time" json:"date"`
	Time string `gorm:"size:5;not null;uniqueIndex:idx_blocked_date_time" json:"time"`

	Reason    string `gorm:"size:255" json:"reason"`
	BlockedBy int64  `gorm:"not null" json:"blocked_by"`

	BlockedAt time.Time `json:"blocked_at"`
}
