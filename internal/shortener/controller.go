package shortener

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AlmaURepos/practice-next-js/internal/server"
)

type ShortenDTO struct {
	LongURL    string  `json:"long_url"`
	CustomCode *string `json:"custom_code"`
}

type ShortenResponse struct {
	ShortURL  string    `json:"short_url"`
	Clicks    int       `json:"clicks"`
	CreatedAt time.Time `json:"created_at"`
}

type Handler struct {
	svc *Service
	// baseURL prefixes short codes; empty means derive it from the request.
	baseURL string
}

func NewHandler(svc *Service, baseURL string) *Handler {
	return &Handler{svc: svc, baseURL: strings.TrimRight(baseURL, "/")}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/api/shorten", h.Shorten)
	r.GET("/api/stats/:code", h.Stats)
	r.GET("/:code", h.Redirect)
}

func (h *Handler) Shorten(c *gin.Context) {
	var body ShortenDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		server.Abort(c, server.BadRequest("invalid request body"))
		return
	}

	l, err := h.svc.Shorten(c.Request.Context(), body.LongURL, body.CustomCode)
	if err != nil {
		server.Abort(c, linkError(err))
		return
	}
	c.JSON(http.StatusOK, ShortenResponse{
		ShortURL:  h.base(c) + "/" + l.Code,
		Clicks:    l.Clicks,
		CreatedAt: l.CreatedAt,
	})
}

func (h *Handler) Redirect(c *gin.Context) {
	l, err := h.svc.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		server.Abort(c, linkError(err))
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, l.LongURL)
}

func (h *Handler) Stats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context(), c.Param("code"))
	if err != nil {
		server.Abort(c, linkError(err))
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) base(c *gin.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if p := c.GetHeader("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + c.Request.Host
}

func linkError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return server.NotFound("Short URL not found")
	case errors.Is(err, ErrExpired):
		return server.NotFound("Link has expired")
	case errors.Is(err, ErrInvalidURL):
		return server.BadRequest("long_url must be an absolute http(s) URL")
	case errors.Is(err, ErrInvalidCode):
		return server.BadRequest("Custom code may only contain letters, digits, hyphens and underscores")
	case errors.Is(err, ErrReserved):
		return server.BadRequest("This code is reserved")
	case errors.Is(err, ErrCodeTaken):
		return server.Conflict("This code is already taken")
	}
	return err
}
