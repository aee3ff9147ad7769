// Package users provides user account queries that sit outside the
// authentication flow itself: the current-user endpoint and the
// admin-restricted account listing.
package users

import (
	"context"

	"github.com/user/projecthub-go/apperror"
	"github.com/user/projecthub-go/auth"
)

// defaultListLimit caps a listing when the client does not ask for a limit.
const defaultListLimit = 100

// UserService provides read access to user accounts.
type UserService struct {
	store auth.UserStore
}

// NewUserService creates a UserService.
func NewUserService(store auth.UserStore) *UserService {
	return &UserService{store: store}
}

// ListUsers returns a page of user accounts ordered by id.
func (s *UserService) ListUsers(ctx context.Context, skip, limit int) ([]auth.User, error) {
	if skip < 0 || limit < 0 {
		return nil, apperror.NewValidationError("skip and limit must be non-negative", nil)
	}
	if limit == 0 {
		limit = defaultListLimit
	}

	users, err := s.store.ListUsers(ctx, skip, limit)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list users", err)
	}
	if users == nil {
		users = []auth.User{}
	}
	return users, nil
}
