package dto

type PermissionCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      *bool  `json:"status,omitempty"`
}

type PermissionUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *bool   `json:"status,omitempty"`
}

type AssignPermissionRequest struct {
	RoleID       uint `json:"role_id"`
	PermissionID uint `json:"permission_id"`
}
