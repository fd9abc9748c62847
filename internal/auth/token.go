package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cimillas/gatepass/internal/clock"
	"github.com/cimillas/gatepass/internal/domain"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is a validated caller: the subject id plus the role claim the
// access control gate dispatches on.
type Identity struct {
	UserID string
	Email  string
	Role   domain.Role
}

type claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates the bearer credentials handed out at login.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

const defaultTokenTTL = 24 * time.Hour

func NewTokenIssuer(secret []byte, clk clock.Clock, opts ...TokenIssuerOption) *TokenIssuer {
	iss := &TokenIssuer{
		secret: secret,
		ttl:    defaultTokenTTL,
		clock:  clk,
	}
	for _, opt := range opts {
		opt(iss)
	}
	return iss
}

type TokenIssuerOption func(*TokenIssuer)

// WithTokenTTL overrides the default credential lifetime.
func WithTokenTTL(d time.Duration) TokenIssuerOption {
	return func(i *TokenIssuer) {
		if d > 0 {
			i.ttl = d
		}
	}
}

// Issue signs an HS256 token carrying the user's id, email and role.
func (i *TokenIssuer) Issue(user domain.User) (string, error) {
	now := i.clock.Now()
	c := claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(i.secret)
}

// Verify parses the token string and returns the identity it asserts.
// Any parse, signature or expiry failure collapses into ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string) (Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.clock.Now))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	role := domain.Role(c.Role)
	if c.UserID == "" || !role.Valid() {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: c.UserID, Email: c.Email, Role: role}, nil
}
