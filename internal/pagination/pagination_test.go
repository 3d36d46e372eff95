package pagination

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestPaginateWalksEveryPage(t *testing.T) {
	items := seq(23)
	limit := 5

	var seen []int
	pages := TotalPages(len(items), limit)
	require.Equal(t, 5, pages)
	for p := 1; p <= pages; p++ {
		pg := Paginate(items, Params{Page: p, Limit: limit})
		assert.Equal(t, 23, pg.Total)
		assert.Equal(t, pages, pg.TotalPages)
		seen = append(seen, pg.Items...)
	}
	assert.Equal(t, items, seen)

	last := Paginate(items, Params{Page: pages, Limit: limit})
	assert.Equal(t, []int{21, 22, 23}, last.Items)
}

func TestPaginatePastEnd(t *testing.T) {
	pg := Paginate(seq(3), Params{Page: 4, Limit: 2})
	assert.Empty(t, pg.Items)
	assert.Equal(t, 2, pg.TotalPages)
}

func TestPaginateHugePage(t *testing.T) {
	for _, page := range []int{math.MaxInt64, math.MaxInt64 / 100, math.MaxInt64/100 + 1} {
		pg := Paginate(seq(3), Params{Page: page, Limit: 100})
		assert.NotNil(t, pg.Items)
		assert.Empty(t, pg.Items, page)
		assert.Equal(t, 3, pg.Total)
		assert.Equal(t, 1, pg.TotalPages)
		assert.Equal(t, page, pg.Page)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		query   string
		want    Params
		wantErr bool
	}{
		{"", Params{Page: 1, Limit: 10}, false},
		{"page=3&limit=25", Params{Page: 3, Limit: 25}, false},
		{"page=0", Params{}, true},
		{"page=x", Params{}, true},
		{"limit=0", Params{}, true},
		{"limit=101", Params{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)

			got, err := Parse(c, 10, 100)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
