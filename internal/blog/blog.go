// Package blog serves a small set of posts addressed by slug.
package blog

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"

	"github.com/AlmaURepos/practice-next-js/internal/server"
	"github.com/AlmaURepos/practice-next-js/internal/store"
)

type Summary struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type Post struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Author   string `json:"author"`
	Date     string `json:"date"`
	Category string `json:"category"`
}

type CreatePostDTO struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

var SeedPosts = []Post{
	{
		Slug:     "first-post",
		Title:    "Мой первый пост",
		Content:  "Это содержимое моего первого поста. Здесь много интересного текста о веб-разработке!",
		Author:   "Иванов Иван",
		Date:     "2025-06-30",
		Category: "Веб разработка",
	},
	{
		Slug:     "fastapi-and-nextjs",
		Title:    "FastAPI + Next.js = ❤️",
		Content:  "Сочетание FastAPI для бэкенда и Next.js для фронтенда - это мощный и современный стек. Асинхронность FastAPI и рендеринг Next.js творят чудеса.",
		Author:   "Петров Петр",
		Date:     "2025-05-30",
		Category: "Бэкенд разработка",
	},
	{
		Slug:     "why-i-love-python",
		Title:    "Почему я люблю Python",
		Content:  "Python - это язык с простым синтаксисом и огромной экосистемой. Он отлично подходит для бэкенда, анализа данных и многого другого.",
		Author:   "Сергеев Сергей",
		Date:     "2025-07-30",
		Category: "питон разработка",
	},
}

// Seed puts posts into s in order.
func Seed(ctx context.Context, s store.Store[Post], posts ...Post) error {
	for _, p := range posts {
		if err := s.Put(ctx, p.Slug, p); err != nil {
			return err
		}
	}
	return nil
}

type Handler struct {
	posts store.Store[Post]
	now   func() time.Time

	// serialises the slug check and insert of CreatePost
	mu sync.Mutex
}

func NewHandler(posts store.Store[Post]) *Handler {
	return &Handler{posts: posts, now: time.Now}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Blog API is running"})
	})
	api := r.Group("/api")
	api.GET("/posts", h.ListPosts)
	api.GET("/posts/:slug", h.GetPost)
	api.POST("/posts", h.CreatePost)
}

func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		server.Abort(c, err)
		return
	}
	out := make([]Summary, 0, len(posts))
	for _, p := range posts {
		out = append(out, Summary{Slug: p.Slug, Title: p.Title})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetPost(c *gin.Context) {
	p, err := h.posts.Get(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, store.ErrNotFound) {
		server.Abort(c, server.NotFound("Post not found"))
		return
	}
	if err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreatePost(c *gin.Context) {
	var body CreatePostDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		server.Abort(c, server.BadRequest("invalid request body"))
		return
	}
	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" || strings.TrimSpace(body.Content) == "" {
		server.Abort(c, server.BadRequest("title and content are required"))
		return
	}

	s := body.Slug
	if s == "" {
		s = body.Title
	}
	s = slug.Make(s)
	if s == "" {
		server.Abort(c, server.BadRequest("title does not produce a usable slug"))
		return
	}

	date := body.Date
	if date == "" {
		date = h.now().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, date); err != nil {
		server.Abort(c, server.BadRequest("date must be YYYY-MM-DD"))
		return
	}

	p := Post{
		Slug:     s,
		Title:    body.Title,
		Content:  body.Content,
		Author:   body.Author,
		Date:     date,
		Category: body.Category,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	ctx := c.Request.Context()
	if _, err := h.posts.Get(ctx, s); err == nil {
		server.Abort(c, server.Conflict("A post with this slug already exists"))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		server.Abort(c, err)
		return
	}
	if err := h.posts.Put(ctx, s, p); err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}
