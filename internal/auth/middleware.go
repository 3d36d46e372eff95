package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AlmaURepos/practice-next-js/internal/server"
)

const identityKey = "identity"

var (
	ErrMissingHeader = server.Unauthorized("Not authenticated")
	ErrInvalidScheme = server.Unauthorized("Invalid authentication scheme")
	ErrInvalidToken  = server.Unauthorized("Invalid token")
	ErrTokenExpired  = server.Unauthorized("Token expired")
)

// Identity is the caller a bearer token resolved to.
type Identity struct {
	UserID   uint
	Username string
	Role     string
}

// Resolver maps a bearer token to an Identity. Rejections should be
// *server.Error values so the middleware can pass the detail through.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

type ResolverFunc func(ctx context.Context, token string) (Identity, error)

func (f ResolverFunc) Resolve(ctx context.Context, token string) (Identity, error) {
	return f(ctx, token)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingHeader
	}
	tok, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", ErrInvalidScheme
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", ErrInvalidToken
	}
	return tok, nil
}

func RequireAuth(res Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			server.Abort(c, err)
			return
		}
		id, err := res.Resolve(c.Request.Context(), tok)
		if err != nil {
			server.Abort(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and
// lets the request through either way.
func OptionalAuth(res Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, err := BearerToken(c.GetHeader("Authorization")); err == nil {
			if id, err := res.Resolve(c.Request.Context(), tok); err == nil {
				c.Set(identityKey, id)
			} else {
				var he *server.Error
				if !errors.As(err, &he) {
					server.Abort(c, err)
					return
				}
			}
		}
		c.Next()
	}
}

// RequireRole must run after RequireAuth. A nil denied gives a generic 403.
func RequireRole(role string, denied *server.Error) gin.HandlerFunc {
	if denied == nil {
		denied = server.Forbidden(role + " role required")
	}
	return func(c *gin.Context) {
		id, ok := Current(c)
		if !ok {
			server.Abort(c, ErrMissingHeader)
			return
		}
		if id.Role != role {
			server.Abort(c, denied)
			return
		}
		c.Next()
	}
}

func Current(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
