// Package jwt verifies identity provider session tokens and exposes their
// claims to HTTP handlers.
//
// Signature verification is delegated to github.com/golang-jwt/jwt/v5. A
// Service is built either from a shared HS256 secret (New, NewFromString) or
// from the provider's RS256 public key (NewRSAVerifier). The signing algorithm
// is pinned per Service, so tokens signed with any other algorithm, including
// "none", are rejected.
//
// # Middleware
//
// Middleware extracts a token from the Authorization bearer header or the
// provider's "__session" cookie, verifies it and stores the raw claims with
// SetClaims. Requests without a valid token pass through untouched so the
// authorization layer can answer with its own structured 401.
//
//	svc, err := jwt.NewFromString(cfg.SessionSecret)
//	if err != nil {
//		return err
//	}
//	r.Use(jwt.Middleware(svc))
//
//	// later, in a handler
//	raw, ok := jwt.GetClaims(r.Context())
//
// # Errors
//
// Parse returns ErrMissingToken, ErrExpiredToken, ErrInvalidSignature or
// ErrInvalidToken, each comparable with errors.Is.
package jwt
