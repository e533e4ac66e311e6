package auth

import "errors"

var (
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters")
	ErrAdminNotFound       = errors.New("admin not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
