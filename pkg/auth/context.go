package auth

import (
	"context"
	"fmt"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// WithUser stores the authenticated claims on the request context.
func WithUser(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

// GetUserFromContext returns the authenticated claims, or an error when the
// request was not authenticated.
func GetUserFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(userContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	return claims, nil
}
