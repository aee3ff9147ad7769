package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/user/projecthub-go/apperror"
)

// Resolver resolves a bearer token string into a live user. *Service
// satisfies it; tests substitute a stub.
type Resolver interface {
	Resolve(ctx context.Context, tokenString string) (*User, error)
}

// RequireUser returns middleware that authenticates a request from its
// Authorization header. On success the resolved user is placed in the
// request context; on any failure the request is rejected with 401 and a
// WWW-Authenticate: Bearer header. There is no session: every request
// re-runs this gate from the bearer token alone.
func RequireUser(resolver Resolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError("authorization header is missing", nil))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				WriteError(w, r, apperror.NewAuthError("authorization header format must be Bearer {token}", nil))
				return
			}

			user, err := resolver.Resolve(r.Context(), parts[1])
			if err != nil {
				WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContextWithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin is middleware enforcing the admin role on an already
// authenticated request. It must run after RequireUser. The check is exact
// equality; no role implies another.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("could not validate credentials", nil))
			return
		}
		if user.Role != RoleAdmin {
			WriteError(w, r, apperror.NewForbiddenError("not enough permissions", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}
