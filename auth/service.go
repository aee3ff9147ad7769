// Package auth is responsible for authentication and authorization: user
// registration, credential verification, access-token issuance, and
// resolving a bearer token back into a live user record.
package auth

import (
	"context"
	"errors"
	"log"

	"github.com/user/projecthub-go/apperror"
)

// enumerationGuardDigest is a throwaway bcrypt digest compared against when
// a login names an unknown user, so that the miss costs roughly the same as
// a wrong password and usernames cannot be probed through response timing.
const enumerationGuardDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service orchestrates the password hasher, the token codec, and the user
// store. It holds no per-request state and is safe for concurrent use.
type Service struct {
	store  UserStore
	hasher *Hasher
	codec  *Codec
}

// NewService creates a Service from its collaborators.
func NewService(store UserStore, hasher *Hasher, codec *Codec) *Service {
	return &Service{store: store, hasher: hasher, codec: codec}
}

// Register creates a new user with a hashed password. The role defaults to
// "user" when the request leaves it empty. A username collision — whether
// found by this insert or by a concurrent one — surfaces as the same
// 400-mapped error, since the unique constraint is the arbiter either way.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	role := req.Role
	if role == "" {
		role = RoleUser
	}
	if !role.Valid() {
		return nil, apperror.NewValidationError("role must be 'admin' or 'user'", nil)
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &User{
		Username:       req.Username,
		HashedPassword: digest,
		Role:           role,
	}

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, apperror.NewBadRequestError("username already registered", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return created, nil
}

// Authenticate verifies a username/password pair. An unknown username and a
// wrong password return the identical error, so responses reveal nothing
// about which usernames exist.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Burn a comparison so the unknown-user path is not measurably
			// faster than a failed verify.
			s.hasher.Verify(password, enumerationGuardDigest)
			return nil, apperror.NewAuthError("incorrect username or password", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, apperror.NewAuthError("incorrect username or password", nil)
	}
	return user, nil
}

// Login authenticates the credentials and issues a bearer access token
// embedding the username, user id, and role.
func (s *Service) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	accessToken, _, err := s.codec.Issue(user)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue access token", err)
	}

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	}, nil
}

// Resolve verifies a bearer token and looks the subject up fresh in the
// store. The fresh lookup means deleting a user invalidates all of their
// outstanding tokens on next use, even though the tokens themselves remain
// cryptographically valid until expiry. Every failure mode maps to the same
// client-visible 401.
func (s *Service) Resolve(ctx context.Context, tokenString string) (*User, error) {
	claims, err := s.codec.Verify(tokenString)
	if err != nil {
		// Expired and invalid stay distinct in the log, identical on the wire.
		if errors.Is(err, ErrTokenExpired) {
			log.Printf("auth: rejected expired token")
		}
		return nil, apperror.NewAuthError("could not validate credentials", err)
	}

	user, err := s.store.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NewAuthError("could not validate credentials", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}
