package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *User {
	return &User{
		ID:        42,
		Username:  "alice",
		Role:      RoleUser,
		CreatedAt: time.Now().UTC(),
	}
}

func TestCodec_IssueAndVerify(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret", time.Hour)

	tok, expiresAt, err := codec.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := codec.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, RoleUser, claims.Role)
}

func TestCodec_Expired(t *testing.T) {
	t.Parallel()

	// A non-positive TTL issues a token that is already expired.
	codec := NewCodec("test-secret", -time.Minute)

	tok, _, err := codec.Issue(testUser())
	require.NoError(t, err)

	_, err = codec.Verify(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_TamperedToken(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret", time.Hour)

	tok, _, err := codec.Issue(testUser())
	require.NoError(t, err)

	// Flip one byte of the signature segment.
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Verify(tampered)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewCodec("right-secret", time.Hour)
	verifier := NewCodec("wrong-secret", time.Hour)

	tok, _, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret", time.Hour)

	// A token signed with HS512 under the same secret must be rejected:
	// only the configured algorithm is accepted.
	claims := &Claims{
		UserID: 42,
		Role:   RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = codec.Verify(hs512)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_Malformed(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret", time.Hour)

	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		_, err := codec.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tok)
	}
}

func TestCodec_MissingSubject(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret", time.Hour)

	// Correctly signed but without the claims this service issues.
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = codec.Verify(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
