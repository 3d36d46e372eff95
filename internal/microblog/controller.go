package microblog

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AlmaURepos/practice-next-js/internal/auth"
	"github.com/AlmaURepos/practice-next-js/internal/server"
	"github.com/AlmaURepos/practice-next-js/internal/users"
)

// UsernameResolver treats the bearer token as a username. It is the
// microblog's whole auth scheme.
type UsernameResolver struct {
	Users users.Directory
}

func (r UsernameResolver) Resolve(ctx context.Context, token string) (auth.Identity, error) {
	u, err := r.Users.ByUsername(ctx, token)
	if errors.Is(err, users.ErrNotFound) {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	if err != nil {
		return auth.Identity{}, err
	}
	return auth.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// SeedUsers are created on first start.
var SeedUsers = []users.Credentials{
	{Username: "user1", Password: "password1"},
	{Username: "user2", Password: "password2"},
}

type Handler struct {
	posts *Repository
	users *users.Repository
}

func NewHandler(posts *Repository, u *users.Repository) *Handler {
	return &Handler{posts: posts, users: u}
}

func (h *Handler) Register(r gin.IRouter) {
	res := UsernameResolver{Users: h.users}
	required := auth.RequireAuth(res)
	optional := auth.OptionalAuth(res)

	api := r.Group("/api")
	api.POST("/login", h.Login)
	api.POST("/users", users.CreateUserHandler(h.users))
	api.GET("/users/:username/posts", optional, h.UserPosts)

	api.GET("/posts", optional, h.ListPosts)
	api.POST("/posts", required, h.CreatePost)
	api.DELETE("/posts/:id", required, h.DeletePost)
	api.POST("/posts/:id/like", required, h.Like)
	api.DELETE("/posts/:id/like", required, h.Unlike)
}

func (h *Handler) Login(c *gin.Context) {
	var creds users.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
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
	c.JSON(http.StatusOK, gin.H{
		"access_token": u.Username,
		"token_type":   "bearer",
		"user":         users.ToResponse(u),
	})
}

func viewerID(c *gin.Context) uint {
	id, _ := auth.Current(c)
	return id.UserID
}

func (h *Handler) ListPosts(c *gin.Context) {
	feed, err := h.posts.Feed(c.Request.Context(), 0, viewerID(c))
	if err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *Handler) UserPosts(c *gin.Context) {
	owner, err := h.users.ByUsername(c.Request.Context(), c.Param("username"))
	if errors.Is(err, users.ErrNotFound) {
		server.Abort(c, server.NotFound("User not found"))
		return
	}
	if err != nil {
		server.Abort(c, err)
		return
	}
	feed, err := h.posts.Feed(c.Request.Context(), owner.ID, viewerID(c))
	if err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *Handler) CreatePost(c *gin.Context) {
	var body CreatePostDTO
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Text) == "" {
		server.Abort(c, server.BadRequest("text is required"))
		return
	}
	me, _ := auth.Current(c)

	p, err := h.posts.Create(c.Request.Context(), me.UserID, body.Text)
	if err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, PostRead{
		ID:            p.ID,
		Text:          p.Text,
		Timestamp:     p.Timestamp,
		OwnerID:       p.OwnerID,
		OwnerUsername: me.Username,
	})
}

func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		server.Abort(c, server.BadRequest("invalid post id"))
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	me, _ := auth.Current(c)

	if err := h.posts.Delete(c.Request.Context(), id, me.UserID); err != nil {
		server.Abort(c, postError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Like(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	me, _ := auth.Current(c)

	if err := h.posts.Like(c.Request.Context(), id, me.UserID); err != nil {
		server.Abort(c, postError(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Liked"})
}

func (h *Handler) Unlike(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	me, _ := auth.Current(c)

	if err := h.posts.Unlike(c.Request.Context(), id, me.UserID); err != nil {
		server.Abort(c, postError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func postError(err error) error {
	switch {
	case errors.Is(err, ErrPostNotFound):
		return server.NotFound("Post not found")
	case errors.Is(err, ErrNotOwner):
		return server.Forbidden("Not authorized to delete this post")
	case errors.Is(err, ErrAlreadyLiked):
		return server.BadRequest("Already liked")
	case errors.Is(err, ErrLikeNotFound):
		return server.NotFound("Like not found")
	}
	return err
}
