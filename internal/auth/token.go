// Package auth issues and verifies session tokens, attaches the caller's
// identity to requests and decides whether an operation may run.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that cannot be trusted.
var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	ID int64 `json:"id"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 tokens carrying a user id.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec creates a codec. A zero ttl issues tokens without expiry.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Sign returns a token for subjectID. Without a ttl the output is
// deterministic for a given secret.
func (c *TokenCodec) Sign(subjectID int64) (string, error) {
	cl := claims{ID: subjectID}
	if c.ttl > 0 {
		now := c.now()
		cl.IssuedAt = jwt.NewNumericDate(now)
		cl.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and returns the subject id.
func (c *TokenCodec) Verify(token string) (int64, error) {
	var cl claims
	parsed, err := jwt.ParseWithClaims(token, &cl, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	if cl.ID <= 0 {
		return 0, ErrInvalidToken
	}
	return cl.ID, nil
}
