package products

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AlmaURepos/practice-next-js/internal/server"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/categories", h.Categories)
	api.GET("/products", h.List)
}

func (h *Handler) Categories(c *gin.Context) {
	cats, err := h.repo.Categories(c.Request.Context())
	if err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (h *Handler) List(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		server.Abort(c, err)
		return
	}
	items, err := h.repo.Find(c.Request.Context(), f)
	if err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func parseFilter(c *gin.Context) (Filter, error) {
	f := Filter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	}
	switch f.Sort {
	case "", SortPriceAsc, SortPriceDesc:
	default:
		return Filter{}, server.BadRequest("sort must be price_asc or price_desc")
	}

	var err error
	if f.MinPrice, err = priceParam(c, "min_price"); err != nil {
		return Filter{}, err
	}
	if f.MaxPrice, err = priceParam(c, "max_price"); err != nil {
		return Filter{}, err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return Filter{}, server.BadRequest("min_price must not exceed max_price")
	}
	return f, nil
}

func priceParam(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, server.BadRequest(name + " must be a non-negative number")
	}
	return &v, nil
}
