package auth

import (
	"context"

	"github.com/boxdrop/boxdrop/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user attached by the session
// middleware, or nil when the request was not authenticated.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}
