package access

import "context"

type checkerCtxKey struct{}

// WithChecker stores c in the context.
func WithChecker(ctx context.Context, c *Checker) context.Context {
	return context.WithValue(ctx, checkerCtxKey{}, c)
}

// FromContext returns the request's checker, or Pending when none was
// resolved yet.
func FromContext(ctx context.Context) *Checker {
	if c, ok := ctx.Value(checkerCtxKey{}).(*Checker); ok && c != nil {
		return c
	}
	return Pending()
}
