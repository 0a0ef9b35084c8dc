package review

import "errors"

var (
	// ErrNoResume is returned by editor operations before a record exists.
	ErrNoResume = errors.New("no resume loaded")
	// ErrInvalidInput marks malformed requests such as unknown sections.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a session id is unknown.
	ErrNotFound = errors.New("session not found")
)
