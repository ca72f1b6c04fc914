package domain

import "time"

type UserSession struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	IsAnonymous bool       `gorm:"not null;default:false" json:"is_anonymous"`
	LoginAt     time.Time  `gorm:"autoCreateTime" json:"login_at"`
	LogoutAt    *time.Time `json:"logout_at,omitempty"`
}
