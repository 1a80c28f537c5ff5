package models

import "time"

const (
	RoleSuperAdmin = "super_admin"
	RoleModerator  = "moderator"
)

type Admin struct {
	UserID   int64  `gorm:"primaryKey" json:"user_id"`
	Username string `gorm:"size:100" json:"username"`
	Role     string `gorm:"size:20;not null;default:'moderator'" json:"role"`

	PasswordHash string `gorm:"size:255" json:"-"`

	AddedBy   int64     `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}
