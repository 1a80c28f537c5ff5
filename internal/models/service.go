package models

import "time"

// Service is the catalog entry a booking references. The core consumes it
// read-only; a booking captures duration_minutes at creation time and is
// unaffected by later catalog edits.
type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name            string `gorm:"size:100;not null" json:"name"`
	DurationMinutes int    `gorm:"not null;default:60" json:"duration_minutes"`
	Price           string `gorm:"size:50" json:"price"`

	IsActive     bool `gorm:"default:true" json:"is_active"`
	DisplayOrder int  `gorm:"default:0" json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
