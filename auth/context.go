package auth

import "context"

// contextKey is a private type for context keys, preventing collisions with
// keys set by other packages.
type contextKey string

const userContextKey contextKey = "auth_user"

// NewContextWithUser returns a child context carrying the resolved user.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the resolved user placed in the context by the
// RequireUser middleware. The second return value is false when no user is
// present, i.e. the request never passed authentication.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}
