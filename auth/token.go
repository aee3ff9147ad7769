package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors returned by Codec.Verify. Expiry is kept distinct from
// every other failure so callers can log the two differently; both must be
// presented to clients as the same generic 401.
var (
	// ErrTokenExpired is returned for a well-formed, correctly signed token
	// whose expiry has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid is returned for malformed tokens, bad signatures, and
	// tokens signed with an unexpected algorithm.
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims is the JWT payload issued at login: the username as subject, the
// numeric user id, and the role captured at issuance time. The role is a
// snapshot; resolution re-fetches the user, which is what actually
// invalidates tokens for deleted accounts.
type Claims struct {
	UserID int  `json:"user_id"`
	Role   Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies access tokens with a symmetric HMAC-SHA256 key.
// Issue and Verify are pure apart from reading the clock, so a single Codec
// is safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a Codec signing with secret and issuing tokens valid for
// ttl.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the user, expiring at now + ttl.
func (c *Codec) Issue(user *User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(c.ttl)
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Verify parses the token string and validates its signature and expiry.
// The accepted algorithm is pinned to HS256 both through the parser option
// and in the keyfunc, so a token claiming a different algorithm is rejected
// before signature checking.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	// A token without a subject or user id was not issued by this service.
	if claims.Subject == "" || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
