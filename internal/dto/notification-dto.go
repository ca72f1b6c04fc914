package dto

type AdminNotificationResponse struct {
	ID              uint    `json:"id"`
	ChangeLogID     *uint   `json:"change_log_id,omitempty"`
	UserChangeLogID *uint   `json:"user_change_log_id,omitempty"`
	SentTo          uint    `json:"sent_to"`
	SentToEmail     string  `json:"sent_to_email,omitempty"`
	Status          string  `json:"status"`
	Message         string  `json:"message"`
	ErrorMessage    *string `json:"error_message,omitempty"`
	SentAt          string  `json:"sent_at"`
}
