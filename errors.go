package secureurl

import "errors"

var (
	// ErrInvalidInput is returned when request validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrObjectNotFound is returned when the requested object does not exist in the bucket
	ErrObjectNotFound = errors.New("object not found")
	// ErrAuthFailed is returned when the signing credential is missing, invalid,
	// or rejected by the storage backend
	ErrAuthFailed = errors.New("authentication failed")
	// ErrBackendUnavailable is returned on transient storage backend failures
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)
