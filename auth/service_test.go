package auth

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/projecthub-go/apperror"
)

// fakeUserStore is an in-memory UserStore used across the package tests.
type fakeUserStore struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: make(map[string]*User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *User) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[user.Username]; exists {
		return nil, ErrDuplicateUsername
	}
	stored := *user
	stored.ID = f.nextID
	stored.CreatedAt = time.Now().UTC()
	f.nextID++
	f.users[user.Username] = &stored
	out := stored
	return &out, nil
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id int) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == id {
			out := *user
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserStore) ListUsers(_ context.Context, skip, limit int) ([]User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []User
	for _, user := range f.users {
		all = append(all, *user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// deleteUser simulates an administrative deletion done directly in the store.
func (f *fakeUserStore) deleteUser(username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, username)
}

func newTestService(ttl time.Duration) (*Service, *fakeUserStore) {
	store := newFakeUserStore()
	svc := NewService(store, NewHasher(bcrypt.MinCost), NewCodec("test-secret", ttl))
	return svc, store
}

func TestService_Register(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, RoleUser, user.Role, "role defaults to user")
	assert.NotZero(t, user.ID)

	// The stored secret is a digest, never the plaintext.
	stored, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.HashedPassword)
	assert.True(t, NewHasher(bcrypt.MinCost).Verify("password123", stored.HashedPassword))
}

func TestService_Register_AdminRole(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(time.Hour)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Username: "root", Password: "password123", Role: RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, user.Role)
}

func TestService_Register_UsernameTaken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "pw1-password"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "alice", Password: "pw2-password"})
	require.Error(t, err)
	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
}

func TestService_Authenticate_EnumerationResistance(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "realuser", Password: "rightpassword"})
	require.NoError(t, err)

	_, errUnknown := svc.Authenticate(ctx, "nouser", "x")
	_, errWrongPass := svc.Authenticate(ctx, "realuser", "wrongpass")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)

	// Unknown user and wrong password are indistinguishable to the caller.
	unknownErr, ok := apperror.FromError(errUnknown)
	require.True(t, ok)
	wrongPassErr, ok := apperror.FromError(errWrongPass)
	require.True(t, ok)
	assert.Equal(t, unknownErr.Type, wrongPassErr.Type)
	assert.Equal(t, unknownErr.Message, wrongPassErr.Message)
	assert.Equal(t, http.StatusUnauthorized, unknownErr.StatusCode())
}

func TestService_LoginAndResolve(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "bob", Password: "bobs-password"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, "bob", "bobs-password")
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)

	user, err := svc.Resolve(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, RoleUser, user.Role)
}

func TestService_Login_BadCredentials(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(time.Hour)

	_, err := svc.Login(context.Background(), "ghost", "whatever-pass")
	require.True(t, apperror.IsAuthError(err))
}

func TestService_Resolve_Expired(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(-time.Minute)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "carol", Password: "carols-password"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, "carol", "carols-password")
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, resp.AccessToken)
	require.True(t, apperror.IsAuthError(err))
}

func TestService_Resolve_Tampered(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "dave", Password: "daves-password"})
	require.NoError(t, err)
	resp, err := svc.Login(ctx, "dave", "daves-password")
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, resp.AccessToken+"x")
	require.True(t, apperror.IsAuthError(err))
}

func TestService_Resolve_DeletedUser(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "erin", Password: "erins-password"})
	require.NoError(t, err)
	resp, err := svc.Login(ctx, "erin", "erins-password")
	require.NoError(t, err)

	// Deleting the row invalidates the still-unexpired token on next use.
	store.deleteUser("erin")

	_, err = svc.Resolve(ctx, resp.AccessToken)
	require.True(t, apperror.IsAuthError(err))
}
