package dto

type ProductChangeLogResponse struct {
	ID           uint    `json:"id"`
	ProductID    uint    `json:"product_id"`
	ChangedBy    uint    `json:"changed_by"`
	ActionID     uint    `json:"action_id"`
	ActionName   string  `json:"action_name,omitempty"`
	FieldChanged string  `json:"field_changed"`
	OldValue     *string `json:"old_value"`
	NewValue     *string `json:"new_value"`
	ChangedAt    string  `json:"changed_at"`
}

type UserChangeLogResponse struct {
	ID           uint    `json:"id"`
	UserID       uint    `json:"user_id"`
	ChangedBy    uint    `json:"changed_by"`
	ActionID     uint    `json:"action_id"`
	ActionName   string  `json:"action_name,omitempty"`
	FieldChanged string  `json:"field_changed"`
	OldValue     *string `json:"old_value"`
	NewValue     *string `json:"new_value"`
	ChangedAt    string  `json:"changed_at"`
}
