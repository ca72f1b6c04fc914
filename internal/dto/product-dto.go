package dto

type ProductCreate struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	BrandID     uint    `json:"brand_id"`
	Status      *bool   `json:"status,omitempty"`
}

type ProductUpdate struct {
	SKU         *string  `json:"sku,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	BrandID     *uint    `json:"brand_id,omitempty"`
	Status      *bool    `json:"status,omitempty"`
}
