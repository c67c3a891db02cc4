package model

import "errors"

var (
	// ErrNotFound is returned by stores when no record matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateIdentity is returned when registering an id that is
	// already present in the credential store.
	ErrDuplicateIdentity = errors.New("identity already exists")
	// ErrAuthFailure covers both an unknown id and a wrong password.
	ErrAuthFailure = errors.New("incorrect id or password")
	// ErrInvalidCredentials is returned when id or password is empty.
	ErrInvalidCredentials = errors.New("id and password are required")
	// ErrMalformedSeat marks reservation data that does not describe a
	// seat of the configured layout.
	ErrMalformedSeat = errors.New("malformed reservation")
)
