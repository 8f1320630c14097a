package models

import "errors"

// Error taxonomy shared by the lifecycle services. Every operation that
// returns one of these aborts with zero side effects.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthorizationDenied    = errors.New("authorization denied")
	ErrNotFound               = errors.New("not found")
	ErrInvalidState           = errors.New("invalid state")
	ErrInvalidMove            = errors.New("invalid move")
	ErrAlreadyExists          = errors.New("already exists")
)
