package jwt

import "errors"

var (
	ErrInvalidToken         = errors.New("jwt: invalid token")
	ErrMissingToken         = errors.New("jwt: missing token")
	ErrExpiredToken         = errors.New("jwt: token is expired")
	ErrInvalidSignature     = errors.New("jwt: invalid signature")
	ErrMissingSigningKey    = errors.New("jwt: missing signing key")
	ErrInvalidSigningKey    = errors.New("jwt: invalid signing key")
	ErrMissingClaims        = errors.New("jwt: missing claims")
	ErrSigningNotConfigured = errors.New("jwt: service can only verify tokens")
)
