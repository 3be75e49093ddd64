package claims

import "context"

type claimsCtxKey struct{}

// WithClaims stores decoded session claims in the context.
func WithClaims(ctx context.Context, c SessionClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey{}, c)
}

// FromContext returns the decoded session claims, if any.
func FromContext(ctx context.Context) (SessionClaims, bool) {
	c, ok := ctx.Value(claimsCtxKey{}).(SessionClaims)
	return c, ok
}
