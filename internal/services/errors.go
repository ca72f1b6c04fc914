package services

import "errors"

// Sentinel errors handlers map onto HTTP statuses. Failures before any
// durable write wrap one of these; failures after the primary mutation
// committed are logged and never surfaced.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)
