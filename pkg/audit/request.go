package audit

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/payrollguard/pkg/clientip"
	"github.com/dmitrymomot/payrollguard/pkg/requestid"
)

// RequestContext carries the request metadata attached to audit records.
type RequestContext struct {
	Method    string
	Path      string
	IP        string
	UserAgent string
	RequestID string
}

type requestCtxKey struct{}

// NewRequestContext extracts audit metadata from r. The client IP resolved by
// clientip.Middleware wins over re-parsing the request headers.
func NewRequestContext(r *http.Request) RequestContext {
	ctx := r.Context()
	ip := clientip.GetIPFromContext(ctx)
	if ip == "" {
		ip = clientip.GetIP(r)
	}
	return RequestContext{
		Method:    r.Method,
		Path:      r.URL.Path,
		IP:        ip,
		UserAgent: r.UserAgent(),
		RequestID: requestid.FromContext(ctx),
	}
}

// WithRequestContext stores rc in ctx.
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, requestCtxKey{}, rc)
}

// RequestFromContext returns the stored request metadata. When none was stored
// it falls back to whatever clientip and requestid placed in the context.
func RequestFromContext(ctx context.Context) RequestContext {
	if rc, ok := ctx.Value(requestCtxKey{}).(RequestContext); ok {
		return rc
	}
	return RequestContext{
		IP:        clientip.GetIPFromContext(ctx),
		RequestID: requestid.FromContext(ctx),
	}
}

// Middleware captures request metadata for audit records written later in
// the request lifecycle.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithRequestContext(r.Context(), NewRequestContext(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
