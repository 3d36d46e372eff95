// Package todo is a plain todo list API.
package todo

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AlmaURepos/practice-next-js/internal/server"
	"github.com/AlmaURepos/practice-next-js/internal/store"
)

type Todo struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

type TaskDTO struct {
	Task string `json:"task"`
}

var errNotFound = server.NotFound("Todo not found")

type Handler struct {
	todos store.Store[Todo]
}

func NewHandler(todos store.Store[Todo]) *Handler {
	return &Handler{todos: todos}
}

func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api/todos")
	api.GET("", h.List)
	api.POST("", h.Create)
	api.DELETE("/completed", h.ClearCompleted)
	api.PATCH("/:id", h.Toggle)
	api.PUT("/:id", h.Rename)
	api.DELETE("/:id", h.Delete)
}

func bindTask(c *gin.Context) (string, bool) {
	var body TaskDTO
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Task) == "" {
		server.Abort(c, server.BadRequest("task is required"))
		return "", false
	}
	return strings.TrimSpace(body.Task), true
}

func (h *Handler) List(c *gin.Context) {
	todos, err := h.todos.List(c.Request.Context())
	if err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

func (h *Handler) Create(c *gin.Context) {
	task, ok := bindTask(c)
	if !ok {
		return
	}
	t := Todo{ID: uuid.NewString(), Task: task}
	if err := h.todos.Put(c.Request.Context(), t.ID, t); err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) Toggle(c *gin.Context) {
	h.update(c, func(t *Todo) error {
		t.Completed = !t.Completed
		return nil
	})
}

func (h *Handler) Rename(c *gin.Context) {
	task, ok := bindTask(c)
	if !ok {
		return
	}
	h.update(c, func(t *Todo) error {
		t.Task = task
		return nil
	})
}

func (h *Handler) update(c *gin.Context, fn func(*Todo) error) {
	t, err := h.todos.Update(c.Request.Context(), c.Param("id"), fn)
	if errors.Is(err, store.ErrNotFound) {
		server.Abort(c, errNotFound)
		return
	}
	if err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) Delete(c *gin.Context) {
	err := h.todos.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		server.Abort(c, errNotFound)
		return
	}
	if err != nil {
		server.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearCompleted deletes every completed todo and reports how many went.
func (h *Handler) ClearCompleted(c *gin.Context) {
	ctx := c.Request.Context()
	todos, err := h.todos.List(ctx)
	if err != nil {
		server.Abort(c, err)
		return
	}
	n := 0
	for _, t := range todos {
		if !t.Completed {
			continue
		}
		err := h.todos.Delete(ctx, t.ID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			server.Abort(c, err)
			return
		}
		n++
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
