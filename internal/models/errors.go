package models

import "errors"

// Sentinel errors shared by repositories, services and handlers.
// Handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrUnauthorized      = errors.New("caller is not the resource owner")
	ErrNotVerified       = errors.New("payment not verified")
	ErrMemoCollision     = errors.New("memo already reserved")
	ErrInvalidTransition = errors.New("invalid status transition")
)
