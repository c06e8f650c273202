package services

import "errors"

// Failure kinds returned by the services. All are recoverable and
// user-facing; handlers map them to transport status codes.
var (
	ErrAlreadyPaired        = errors.New("user is already in an active couple")
	ErrSelfPairing          = errors.New("cannot pair with yourself")
	ErrMissingCode          = errors.New("pairing code is required")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired pairing code")
	ErrRateLimited          = errors.New("too many pairing attempts, try again later")
	ErrAlreadyCompleted     = errors.New("task already completed")
	ErrUnauthorized         = errors.New("not authorized for this action")
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
)
