// Package apperr defines the error taxonomy shared by all layers.
// Handlers match these sentinels with errors.Is and map them to HTTP
// responses; nothing below the handler layer knows about status codes.
package apperr

import "errors"

var (
	// ErrValidation marks rejected input. Recoverable by resubmission.
	ErrValidation = errors.New("invalid input")

	// ErrUnauthenticated means the caller must log in first. The handler
	// redirects to the login page preserving the requested URL.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means the caller is authenticated but not allowed.
	// Terminal for the request.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrProcessing marks an image decode/encode failure. The upload is
	// aborted and no catalog record is created.
	ErrProcessing = errors.New("processing failed")
)
