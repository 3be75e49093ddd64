package clientip

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/payrollguard/pkg/logger"
)

// Middleware stores the client IP resolved with DefaultHeaders in the
// request context.
func Middleware(next http.Handler) http.Handler {
	return NewMiddleware(defaultResolver)(next)
}

// NewMiddleware is Middleware with a custom Resolver.
func NewMiddleware(res *Resolver) func(http.Handler) http.Handler {
	if res == nil {
		res = defaultResolver
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := SetIPToContext(r.Context(), res.Resolve(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggerExtractor adds the client IP to log records as "client_ip".
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ip := GetIPFromContext(ctx); ip != "" {
			return slog.String("client_ip", ip), true
		}
		return slog.Attr{}, false
	}
}
