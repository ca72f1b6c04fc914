package dto

type BrandCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      *bool  `json:"status,omitempty"`
}

type BrandUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *bool   `json:"status,omitempty"`
}
