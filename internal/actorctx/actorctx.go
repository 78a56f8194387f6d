// Package actorctx carries the authenticated caller through a
// context.Context so services never depend on the HTTP layer.
package actorctx

import (
	"context"

	"github.com/nomzodai/nomzod-api/internal/domain/user"
)

type ctxKey struct{}

func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFrom(ctx context.Context) (user.User, bool) {
	v, ok := ctx.Value(ctxKey{}).(user.User)

	return v, ok && v.ID != 0
}
