package dto

type RoleCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      *bool  `json:"status,omitempty"`
}

type RoleUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *bool   `json:"status,omitempty"`
}

type AssignRoleRequest struct {
	UserID uint `json:"user_id"`
	RoleID uint `json:"role_id"`
}
