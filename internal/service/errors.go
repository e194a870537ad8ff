package service

import "errors"

var (
	// ErrValidation marks a payload that failed a required-field or format
	// check before reaching the store.
	ErrValidation = errors.New("invalid payload")

	// ErrEmailTaken marks an email already registered to another account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrPlateTaken marks a license plate already registered to another bus.
	ErrPlateTaken = errors.New("license plate already registered")

	// ErrInvalidCredentials marks a failed login or password verification.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden marks an action the acting user is not allowed to perform.
	ErrForbidden = errors.New("action not allowed for this user")

	// ErrNoUpdateFields marks an update request carrying nothing to change.
	ErrNoUpdateFields = errors.New("no fields to update")
)
