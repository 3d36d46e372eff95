package poll

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlmaURepos/practice-next-js/internal/server"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/polls", h.ListPolls)
	api.POST("/poll/create", h.CreatePoll)
	api.GET("/poll/:id", h.GetPoll)
	api.POST("/poll/:id/vote/:option", h.Vote)

	// single-poll API, acting on the first poll
	api.GET("/poll", h.GetFirst)
	api.POST("/poll/vote/:option", h.VoteFirst)
}

func (h *Handler) ListPolls(c *gin.Context) {
	all, err := h.svc.List(c.Request.Context())
	if err != nil {
		server.Abort(c, err)
		return
	}
	ix := make(Index, 0, len(all))
	for _, p := range all {
		ix = append(ix, p.View())
	}
	c.JSON(http.StatusOK, ix)
}

func (h *Handler) GetPoll(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.Abort(c, pollError(err))
		return
	}
	c.JSON(http.StatusOK, p.View())
}

func (h *Handler) CreatePoll(c *gin.Context) {
	var body CreatePollDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		server.Abort(c, server.BadRequest("invalid request body"))
		return
	}
	p, err := h.svc.Create(c.Request.Context(), body.Question, body.Options)
	if err != nil {
		server.Abort(c, pollError(err))
		return
	}
	c.JSON(http.StatusOK, p.View())
}

func (h *Handler) Vote(c *gin.Context) {
	p, err := h.svc.Vote(c.Request.Context(), c.Param("id"), c.Param("option"))
	if err != nil {
		server.Abort(c, pollError(err))
		return
	}
	c.JSON(http.StatusOK, p.View())
}

func (h *Handler) GetFirst(c *gin.Context) {
	p, err := h.svc.First(c.Request.Context())
	if err != nil {
		server.Abort(c, pollError(err))
		return
	}
	c.JSON(http.StatusOK, p.View())
}

func (h *Handler) VoteFirst(c *gin.Context) {
	first, err := h.svc.First(c.Request.Context())
	if err != nil {
		server.Abort(c, pollError(err))
		return
	}
	p, err := h.svc.Vote(c.Request.Context(), first.ID, c.Param("option"))
	if err != nil {
		server.Abort(c, pollError(err))
		return
	}
	c.JSON(http.StatusOK, p.View())
}

func pollError(err error) error {
	switch {
	case errors.Is(err, ErrPollNotFound):
		return server.NotFound("Poll not found")
	case errors.Is(err, ErrOptionNotFound):
		return server.NotFound("Option not found")
	case errors.Is(err, ErrNoPolls):
		return server.NotFound("No polls available")
	case errors.Is(err, ErrTooFewOptions):
		return server.BadRequest("At least 2 options are required")
	case errors.Is(err, ErrNoQuestion):
		return server.BadRequest("Question is required")
	}
	return err
}
