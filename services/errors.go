package services

import "errors"

// Domain errors are expected and recoverable; callers map them to specific
// responses. Anything else coming out of a service is a storage failure and
// propagates as-is.
var (
	ErrWindowClosed      = errors.New("check-in window closed")
	ErrNotEnrolled       = errors.New("not enrolled in challenge")
	ErrChallengeNotFound = errors.New("challenge not found")
)
