package domain

import "time"

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SKU         string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	BrandID     uint      `gorm:"not null;index" json:"brand_id"`
	Status      bool      `gorm:"not null;default:true" json:"status"` // false = soft deleted
	ImageURL    string    `gorm:"type:text" json:"image_url,omitempty"`
	CreatedBy   uint      `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ProductView counts reads made by anonymous-role users.
type ProductView struct {
	ProductID    uint      `gorm:"primaryKey" json:"product_id"`
	ViewCount    int64     `gorm:"not null;default:0" json:"view_count"`
	LastViewedAt time.Time `gorm:"autoCreateTime" json:"last_viewed_at"`
}
