package weather

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AlmaURepos/practice-next-js/internal/server"
)

// Provider is the part of Client the handlers use.
type Provider interface {
	CurrentByCity(ctx context.Context, city string) (*Current, error)
	CurrentByCoords(ctx context.Context, lat, lon float64) (*Current, error)
	Forecast(ctx context.Context, city string) (*Forecast, error)
}

type Handler struct {
	weather Provider
}

func NewHandler(p Provider) *Handler {
	return &Handler{weather: p}
}

func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/weather/coords", h.ByCoords)
	api.GET("/weather/:city", h.ByCity)
	api.GET("/forecast/:city", h.Forecast)
}

func (h *Handler) ByCity(c *gin.Context) {
	cur, err := h.weather.CurrentByCity(c.Request.Context(), c.Param("city"))
	if err != nil {
		server.Abort(c, upstreamError(err))
		return
	}
	c.JSON(http.StatusOK, cur)
}

func (h *Handler) ByCoords(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		server.Abort(c, server.BadRequest("lat must be a number between -90 and 90"))
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		server.Abort(c, server.BadRequest("lon must be a number between -180 and 180"))
		return
	}

	cur, err := h.weather.CurrentByCoords(c.Request.Context(), lat, lon)
	if err != nil {
		server.Abort(c, upstreamError(err))
		return
	}
	c.JSON(http.StatusOK, cur)
}

func (h *Handler) Forecast(c *gin.Context) {
	fc, err := h.weather.Forecast(c.Request.Context(), c.Param("city"))
	if err != nil {
		server.Abort(c, upstreamError(err))
		return
	}
	c.JSON(http.StatusOK, fc)
}

func upstreamError(err error) error {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrNoAPIKey):
		return server.Internal("API key is not configured")
	case errors.Is(err, ErrCityNotFound):
		return server.NotFound("City not found")
	case errors.As(err, &apiErr):
		return server.NewError(apiErr.Status, apiErr.Message)
	}
	return err
}
