package folioauth

import "context"

type principalContextKey struct{}
type returnURLContextKey struct{}

// ContextWithPrincipal attaches the authenticated principal to ctx. The
// route guard sets it before admitting entry so protected views can read
// identity without another state lookup.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext returns the principal attached by the route guard,
// if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}

// WithReturnURL attaches the originally attempted location to ctx so a
// post-login redirect can restore it.
func WithReturnURL(ctx context.Context, returnURL string) context.Context {
	return context.WithValue(ctx, returnURLContextKey{}, returnURL)
}

// ReturnURLFromContext returns the attempted location recorded by
// WithReturnURL, or "".
func ReturnURLFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	u, _ := ctx.Value(returnURLContextKey{}).(string)
	return u
}
