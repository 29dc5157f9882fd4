// Package common defines shared constants and sentinel errors used across
// client and server layers of essaydesk. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorIDTaken  = errors.New("id already taken")

	// Service-level errors (generic/internal flow control).
	ErrorInternal  = errors.New("internal error")
	ErrorForbidden = errors.New("forbidden")

	// Validation errors for malformed input.
	ErrorValidation = errors.New("validation error")

	// Credential store errors.
	ErrorAlreadyExists      = errors.New("login already exists")
	ErrorInvalidCredentials = errors.New("invalid login or password")

	// Submission ledger errors.
	ErrorDuplicateSubmission = errors.New("duplicate submission")
	ErrorEvaluationFailed    = errors.New("evaluation failed")
	ErrorExportDisabled      = errors.New("export storage is not configured")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
