package gate

import "context"

type principalContextKey struct{}

// ContextWithPrincipal stores the verified principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the verified principal, or nil when the
// request was anonymous or reached a handler through a bypass route.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
