package domain

import "errors"

var (
	// ErrUserNotFound indicates the requested user was not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists indicates the username or email is already registered.
	ErrUserExists = errors.New("username or email already registered")
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrPermissionDenied indicates the acting user lacks the required role.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrTokenInvalid indicates an auth token that is unknown, used or expired.
	ErrTokenInvalid = errors.New("token is invalid or expired")
)
