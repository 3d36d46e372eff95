// Package pagination slices in-memory sequences into numbered pages.
package pagination

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Params struct {
	Page  int
	Limit int
}

type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// TotalPages rounds up; zero items give zero pages.
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Paginate returns page p (1-based) of items. Pages past the end are empty.
func Paginate[T any](items []T, p Params) Page[T] {
	total := len(items)
	start, end := total, total
	// compare before multiplying so huge page numbers cannot overflow
	if p.Limit > 0 && p.Page >= 1 && p.Page-1 <= total/p.Limit {
		start = (p.Page - 1) * p.Limit
		end = min(start+p.Limit, total)
	}
	return Page[T]{
		Items:      items[start:end],
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: TotalPages(total, p.Limit),
	}
}

// Parse reads ?page= and ?limit= from the query string.
func Parse(c *gin.Context, defaultLimit, maxLimit int) (Params, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return Params{}, fmt.Errorf("page must be an integer >= 1")
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > maxLimit {
		return Params{}, fmt.Errorf("limit must be an integer between 1 and %d", maxLimit)
	}
	return Params{Page: page, Limit: limit}, nil
}
