package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlmaURepos/practice-next-js/internal/server"
	"github.com/AlmaURepos/practice-next-js/internal/session"
	"github.com/AlmaURepos/practice-next-js/internal/users"
)

var ErrAdminRequired = server.Forbidden("Требуется роль администратора")

// SessionResolver resolves tokens issued by a session.Manager.
type SessionResolver struct {
	Sessions *session.Manager
}

func (r SessionResolver) Resolve(ctx context.Context, token string) (Identity, error) {
	s, err := r.Sessions.Validate(ctx, token)
	switch {
	case errors.Is(err, session.ErrExpired):
		return Identity{}, ErrTokenExpired
	case errors.Is(err, session.ErrNotFound):
		return Identity{}, ErrInvalidToken
	case err != nil:
		return Identity{}, err
	}
	return Identity{Username: s.Username, Role: s.Role}, nil
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	Username    string `json:"username"`
}

// Handler serves the token login flow: login, logout and two protected
// resources, one of them for admins only.
type Handler struct {
	users    users.Directory
	sessions *session.Manager
}

func NewHandler(dir users.Directory, sessions *session.Manager) *Handler {
	return &Handler{users: dir, sessions: sessions}
}

func (h *Handler) Register(r gin.IRouter) {
	protected := RequireAuth(SessionResolver{Sessions: h.sessions})

	api := r.Group("/api")
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	api.GET("/secret-data", protected, h.SecretData)
	api.GET("/admin-data", protected, RequireRole(users.RoleAdmin, ErrAdminRequired), h.AdminData)
}

// Login accepts a form (OAuth2 password flow style) or a JSON body.
func (h *Handler) Login(c *gin.Context) {
	var creds users.Credentials
	if err := c.ShouldBind(&creds); err != nil || creds.Username == "" || creds.Password == "" {
		server.Abort(c, server.BadRequest("username and password are required"))
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), creds.Username, creds.Password)
	if errors.Is(err, users.ErrInvalidCredentials) {
		server.Abort(c, server.Unauthorized("Incorrect username or password"))
		return
	}
	if err != nil {
		server.Abort(c, err)
		return
	}

	tok, _, err := h.sessions.Issue(c.Request.Context(), u.Username, u.Role)
	if err != nil {
		server.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		AccessToken: tok,
		TokenType:   "bearer",
		Role:        u.Role,
		Username:    u.Username,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	tok, err := BearerToken(c.GetHeader("Authorization"))
	if err != nil {
		server.Abort(c, err)
		return
	}
	if err := h.sessions.Revoke(c.Request.Context(), tok); err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Вы успешно вышли"})
}

func (h *Handler) SecretData(c *gin.Context) {
	id, _ := Current(c)
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Привет, %s! Секретное сообщение: 42.", id.Username),
	})
}

func (h *Handler) AdminData(c *gin.Context) {
	id, _ := Current(c)
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Привет, %s! Это данные только для администратора.", id.Username),
	})
}
