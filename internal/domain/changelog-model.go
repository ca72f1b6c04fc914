package domain

import "time"

// Snapshot maps audited field names to their stringified values.
// A nil value means the field had no value; it is stored as NULL so it
// stays distinguishable from an explicit empty string.
type Snapshot map[string]*string

// Action is the deduplicated taxonomy of why a change happened,
// e.g. UPDATE_PRODUCT. Created on first use, never mutated.
type Action struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:varchar(100)" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// One row per changed field of one product mutation. Immutable.
type ProductChangeLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"not null;index" json:"product_id"`
	ChangedBy    uint      `gorm:"not null" json:"changed_by"`
	ActionID     uint      `gorm:"not null" json:"action_id"`
	FieldChanged string    `gorm:"type:text;not null" json:"field_changed"`
	OldValue     *string   `gorm:"type:text" json:"old_value"`
	NewValue     *string   `gorm:"type:text" json:"new_value"`
	ChangedAt    time.Time `gorm:"autoCreateTime" json:"changed_at"`
}

// One row per changed field of one user mutation. Immutable.
type UserChangeLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	ChangedBy    uint      `gorm:"not null" json:"changed_by"`
	ActionID     uint      `gorm:"not null" json:"action_id"`
	FieldChanged string    `gorm:"type:text;not null" json:"field_changed"`
	OldValue     *string   `gorm:"type:text" json:"old_value"`
	NewValue     *string   `gorm:"type:text" json:"new_value"`
	ChangedAt    time.Time `gorm:"autoCreateTime" json:"changed_at"`
}
