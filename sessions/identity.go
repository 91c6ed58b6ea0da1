package sessions

import (
	"context"
)

// Identity is the caller resolved from a validated session cookie. It is bound
// to a single request's context and never outlives it.
type Identity struct {
	Kind        string
	PrincipalID uint
	SessionID   uint
	Token       string
}

type identityContextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
