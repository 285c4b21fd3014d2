// Package usecase implements signup, login and identity lookup.
package usecase

import "errors"

var (
	// ErrUserExists is returned when signing up with an email that is already registered.
	ErrUserExists = errors.New("User already exists")

	// ErrInvalidCredentials is returned for an unknown email and for a wrong password alike.
	ErrInvalidCredentials = errors.New("Invalid credentials")

	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("User not found")
)
