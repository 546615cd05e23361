package auth

import "errors"

var (
	// ErrInvalidCredentials indicates a password mismatch during the first
	// login phase.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidToken indicates a token that failed signature or claim
	// validation.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrExpiredToken indicates a structurally valid token past its expiry.
	// Checked before any role or permission evaluation.
	ErrExpiredToken = errors.New("auth: token expired")
)
