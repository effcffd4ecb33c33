package repository

import "errors"

// Common backend errors.
// Implementations wrap these so callers can use errors.Is regardless of transport.
var (
	// ErrUnexpectedStatus indicates the backend answered with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected backend status")

	// ErrBackendUnavailable indicates the request never got a response.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrInvalidResponse indicates the backend response could not be decoded.
	ErrInvalidResponse = errors.New("invalid backend response")
)
