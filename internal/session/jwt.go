package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Signer wraps a session id in an HS256 token. The session id travels as
// the jti claim, so revoking the session revokes the token.
type Signer struct {
	secret []byte
	now    func() time.Time
}

func NewSigner(secret []byte) *Signer {
	return &Signer{secret: secret, now: time.Now}
}

func (s *Signer) Sign(sess Session, lifetime time.Duration) (string, error) {
	claims := Claims{
		Username: sess.Username,
		Role:     sess.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.Token,
			Subject:   sess.Username,
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.CreatedAt.Add(lifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// SessionID verifies tokenStr and returns the session id it carries.
// An expired but otherwise valid token returns the id with ErrExpired.
func (s *Signer) SessionID(tokenStr string) (string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, s.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
		return claims.ID, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return claims.ID, ErrExpired
	default:
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
}

func (s *Signer) key(*jwt.Token) (any, error) {
	return s.secret, nil
}
