package auth

import "context"

// Identity is the caller resolved by the auth middleware. Services receive
// it explicitly where ownership matters (cart item updates, own-transaction
// listing); role enforcement stays in the HTTP layer.
type Identity struct {
	UserID  uint
	IsAdmin bool
}

type identityKey struct{}

// WithIdentity stores the resolved caller in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromCtx returns the caller stored by the auth middleware.
// ok is false on unauthenticated requests.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
