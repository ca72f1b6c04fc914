package domain

import "time"

const (
	NotifStatusPending = "PENDING"
	NotifStatusSent    = "SENT"
	NotifStatusError   = "ERROR"
)

type NotificationStatus struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AdminNotification tracks delivery of one grouped change email to one
// admin recipient. Rows are written PENDING before the send and flipped
// once, batch-wide, to SENT or ERROR. Never deleted.
type AdminNotification struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ChangeLogID     *uint     `gorm:"index" json:"change_log_id,omitempty"`      // product change batch (last entry)
	UserChangeLogID *uint     `gorm:"index" json:"user_change_log_id,omitempty"` // user change batch (last entry)
	SentTo          uint      `gorm:"not null;index" json:"sent_to"`
	StatusID        uint      `gorm:"not null" json:"status_id"`
	Message         string    `gorm:"type:text;not null" json:"message"`
	ErrorMessage    *string   `gorm:"type:text" json:"error_message,omitempty"`
	SentAt          time.Time `gorm:"autoCreateTime" json:"sent_at"`
}
