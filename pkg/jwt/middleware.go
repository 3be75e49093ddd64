package jwt

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// DefaultSessionCookie is the cookie the identity provider sets for browser sessions.
const DefaultSessionCookie = "__session"

// TokenExtractorFunc extracts a token from an HTTP request.
// It returns ErrMissingToken when the request carries none.
type TokenExtractorFunc func(r *http.Request) (string, error)

// SkipFunc determines whether to skip token verification for a request.
type SkipFunc func(r *http.Request) bool

// MiddlewareConfig configures the session middleware.
type MiddlewareConfig struct {
	Verifier   Verifier
	Extractors []TokenExtractorFunc // tried in order; defaults to bearer then session cookie
	Skip       SkipFunc
	Logger     *slog.Logger
}

// Middleware verifies the session token with the default extractors.
func Middleware(v Verifier) func(next http.Handler) http.Handler {
	return MiddlewareWithConfig(MiddlewareConfig{Verifier: v})
}

// MiddlewareWithConfig verifies the request's session token, if any, and
// stores its claims in the request context.
//
// A missing or invalid token never fails the request. The request continues
// without claims and the authorization layer decides how to respond.
func MiddlewareWithConfig(cfg MiddlewareConfig) func(next http.Handler) http.Handler {
	if len(cfg.Extractors) == 0 {
		cfg.Extractors = []TokenExtractorFunc{
			BearerTokenExtractor,
			CookieTokenExtractor(DefaultSessionCookie),
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			token := extract(r, cfg.Extractors)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := cfg.Verifier.Parse(token)
			if err != nil {
				cfg.Logger.DebugContext(r.Context(), "session token rejected",
					slog.String("path", r.URL.Path),
					slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := SetToken(r.Context(), token)
			ctx = SetClaims(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extract(r *http.Request, extractors []TokenExtractorFunc) string {
	for _, ex := range extractors {
		token, err := ex(r)
		if err == nil && token != "" {
			return token
		}
		if err != nil && !errors.Is(err, ErrMissingToken) {
			return ""
		}
	}
	return ""
}

// BearerTokenExtractor reads "Authorization: Bearer <token>".
func BearerTokenExtractor(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}

// CookieTokenExtractor reads the token from the named cookie.
func CookieTokenExtractor(name string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", ErrMissingToken
		}
		return c.Value, nil
	}
}

// HeaderTokenExtractor reads the token from a custom header.
func HeaderTokenExtractor(name string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		token := r.Header.Get(name)
		if token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}
}
