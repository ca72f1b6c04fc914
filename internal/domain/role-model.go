package domain

import "time"

const (
	RoleAdmin     = "admin"
	RoleAnonymous = "anonymous"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"` // admin | anonymous
	Description string    `gorm:"type:text" json:"description"`
	Status      bool      `gorm:"not null;default:true" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// One role per user; assigning a new role replaces the old link.
type UserRole struct {
	UserID uint `gorm:"primaryKey" json:"user_id"`
	RoleID uint `gorm:"primaryKey" json:"role_id"`
}
