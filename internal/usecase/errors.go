package usecase

import "errors"

// Sentinel errors shared by every service. Callers classify failures with
// errors.Is; the HTTP layer maps each sentinel to a status code. Wrap them
// with fmt.Errorf("%w: ...") to attach the human-readable detail.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
