package model

import "errors"

// Token verification failures. Callers outside the service see all of them
// as "unauthorized"; the distinction is kept for logging.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
	ErrSubjectMissing = errors.New("token subject not found")
)
