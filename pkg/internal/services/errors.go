package services

import "errors"

// Failure taxonomy shared by every service. Handlers translate these into
// status codes; anything else bubbles up as an internal error.
var (
	ErrNotFound     = errors.New("record not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
)
