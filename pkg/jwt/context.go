package jwt

import "context"

type (
	tokenCtxKey  struct{}
	claimsCtxKey struct{}
)

// SetToken stores the raw token string in the context.
func SetToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey{}, token)
}

// GetToken returns the raw token string from the context.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenCtxKey{}).(string)
	return token, ok
}

// SetClaims stores verified claims in the context.
func SetClaims(ctx context.Context, claims map[string]any) context.Context {
	return context.WithValue(ctx, claimsCtxKey{}, claims)
}

// GetClaims returns verified claims from the context. It reports false when
// the request carried no valid token.
func GetClaims(ctx context.Context) (map[string]any, bool) {
	claims, ok := ctx.Value(claimsCtxKey{}).(map[string]any)
	return claims, ok && claims != nil
}
