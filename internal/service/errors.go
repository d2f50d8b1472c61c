package service

import "errors"

var (
	// ErrSessionBusy is returned when a session already has a model request
	// in flight. The rejected request has no side effects.
	ErrSessionBusy = errors.New("session has a request in flight")

	ErrSessionNotFound = errors.New("chat session not found")
	ErrMistakeNotFound = errors.New("mistake record not found")
)
