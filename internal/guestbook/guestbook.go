// Package guestbook is a paginated guestbook persisted to a JSON file.
package guestbook

import (
	"cmp"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AlmaURepos/practice-next-js/internal/pagination"
	"github.com/AlmaURepos/practice-next-js/internal/server"
	"github.com/AlmaURepos/practice-next-js/internal/store"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type Entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func Key(e Entry) string { return e.ID }

type CreateEntryDTO struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type UpdateEntryDTO struct {
	Message string `json:"message"`
}

type PageResponse struct {
	Entries    []Entry `json:"entries"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}

var errNotFound = server.NotFound("Запись не найдена")

type Handler struct {
	entries store.Store[Entry]
	now     func() time.Time
}

func NewHandler(entries store.Store[Entry]) *Handler {
	return &Handler{entries: entries, now: time.Now}
}

func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/entries", h.List)
	api.POST("/entries", h.Create)
	api.PUT("/entries/:id", h.Update)
	api.DELETE("/entries/:id", h.Delete)
}

// List returns one page of entries, newest first.
func (h *Handler) List(c *gin.Context) {
	p, err := pagination.Parse(c, defaultLimit, maxLimit)
	if err != nil {
		server.Abort(c, server.BadRequest(err.Error()))
		return
	}

	all, err := h.entries.List(c.Request.Context())
	if err != nil {
		server.Abort(c, err)
		return
	}
	slices.SortStableFunc(all, func(a, b Entry) int {
		return cmp.Compare(b.Timestamp.UnixNano(), a.Timestamp.UnixNano())
	})

	pg := pagination.Paginate(all, p)
	c.JSON(http.StatusOK, PageResponse{
		Entries:    pg.Items,
		Total:      pg.Total,
		Page:       pg.Page,
		Limit:      pg.Limit,
		TotalPages: pg.TotalPages,
	})
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateEntryDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		server.Abort(c, server.BadRequest("invalid request body"))
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || strings.TrimSpace(body.Message) == "" {
		server.Abort(c, server.BadRequest("name and message are required"))
		return
	}

	e := Entry{
		ID:        uuid.NewString(),
		Name:      body.Name,
		Message:   body.Message,
		Timestamp: h.now().UTC(),
	}
	if err := h.entries.Put(c.Request.Context(), e.ID, e); err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) Update(c *gin.Context) {
	var body UpdateEntryDTO
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Message) == "" {
		server.Abort(c, server.BadRequest("message is required"))
		return
	}

	e, err := h.entries.Update(c.Request.Context(), c.Param("id"), func(e *Entry) error {
		e.Message = body.Message
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		server.Abort(c, errNotFound)
		return
	}
	if err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) Delete(c *gin.Context) {
	err := h.entries.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		server.Abort(c, errNotFound)
		return
	}
	if err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Запись успешно удалена"})
}
