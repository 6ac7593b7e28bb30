package auth

import "context"

type ctxKey struct{}

// WithGrant returns a copy of ctx carrying the allowed grant, so handlers
// and logging see the identity without re-verifying the credential.
func WithGrant(ctx context.Context, g *Grant) context.Context {
	return context.WithValue(ctx, ctxKey{}, g)
}

// GrantFromContext extracts the grant from ctx. Returns nil if absent.
func GrantFromContext(ctx context.Context) *Grant {
	g, _ := ctx.Value(ctxKey{}).(*Grant)
	return g
}
