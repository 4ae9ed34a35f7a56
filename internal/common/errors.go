// Package common defines shared constants and sentinel errors used across
// filevault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Registration validation errors.
	ErrMissingEmail    = errors.New("missing email")
	ErrMissingPassword = errors.New("missing password")

	// Upload validation errors.
	ErrMissingName = errors.New("missing name")
	ErrMissingType = errors.New("missing type")
	ErrMissingData = errors.New("missing data")

	// Hierarchy validation errors.
	ErrParentNotFound  = errors.New("parent not found")
	ErrParentNotFolder = errors.New("parent is not a folder")

	// Content access errors. A folder has no byte content to serve.
	ErrNotReadable = errors.New("folder has no content")
)
