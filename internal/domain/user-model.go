package domain

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Status    bool      `gorm:"not null;default:true" json:"status"` // false = soft deleted
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
