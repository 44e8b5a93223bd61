package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for any username/password mismatch.
	// Callers must surface it identically whether the username is unknown or
	// the password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates a token that is malformed, carries the wrong
	// signing method, or fails signature verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)
