package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Record state errors
	ErrInvalidStatus = errors.New("invalid status")

	// Account state errors
	ErrAccountPending  = errors.New("account pending approval")
	ErrAccountRejected = errors.New("account rejected")
	ErrAlreadyDecided  = errors.New("account already decided")
)
