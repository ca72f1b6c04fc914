package dto

type ActiveSessionResponse struct {
	HasActive bool  `json:"has_active"`
	SessionID *uint `json:"session_id,omitempty"`
}
