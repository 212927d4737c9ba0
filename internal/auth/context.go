package auth

import "context"

type contextKey string

const identityContextKey contextKey = "yaar_identity"

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID string
	Email  string
	Plan   string
}

func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	return id, ok
}
