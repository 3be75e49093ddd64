package access

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/payrollguard/pkg/claims"
	"github.com/dmitrymomot/payrollguard/pkg/jwt"
	"github.com/dmitrymomot/payrollguard/pkg/logger"
)

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	logger    *slog.Logger
	namespace string
}

// WithLogger sets the logger used for unusable sessions.
func WithLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClaimsNamespace sets the legacy claims namespace passed to claims.Decode.
func WithClaimsNamespace(ns string) MiddlewareOption {
	return func(c *middlewareConfig) { c.namespace = ns }
}

// Middleware resolves the verified session claims into a Checker and stores
// it in the request context, along with the decoded claims. It never rejects
// a request; enforcement is left to routeauth and guards.
func Middleware(p *Provider, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}
	decodeOpts := []claims.DecodeOption{claims.WithNamespace(cfg.namespace)}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw, _ := jwt.GetClaims(ctx)
			checker := p.Resolve(raw, decodeOpts...)

			if err := checker.Err(); err != nil {
				cfg.logger.WarnContext(ctx, "session claims unusable",
					slog.String("path", r.URL.Path),
					logger.Error(err))
			}
			if checker.IsAuthenticated() {
				ctx = claims.WithClaims(ctx, checker.Claims())
			}

			next.ServeHTTP(w, r.WithContext(WithChecker(ctx, checker)))
		})
	}
}
