package todo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlmaURepos/practice-next-js/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func create(t *testing.T, r *gin.Engine, task string) Todo {
	t.Helper()
	w := do(r, http.MethodPost, "/api/todos", `{"task":"`+task+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var td Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &td))
	return td
}

func list(t *testing.T, r *gin.Engine) []Todo {
	t.Helper()
	w := do(r, http.MethodGet, "/api/todos", "")
	require.Equal(t, http.StatusOK, w.Code)
	var out []Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func testTodos(t *testing.T, s store.Store[Todo]) {
	r := gin.New()
	NewHandler(s).Register(r)

	assert.Empty(t, list(t, r))

	milk := create(t, r, "buy milk")
	assert.False(t, milk.Completed)
	bread := create(t, r, "buy bread")
	create(t, r, "walk")

	w := do(r, http.MethodPatch, "/api/todos/"+milk.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"completed":true`)
	require.Equal(t, http.StatusOK, do(r, http.MethodPatch, "/api/todos/"+bread.ID, "").Code)

	w = do(r, http.MethodPut, "/api/todos/"+bread.ID, `{"task":"buy rye bread"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"task":"buy rye bread"`)
	assert.Contains(t, w.Body.String(), `"completed":true`)

	w = do(r, http.MethodDelete, "/api/todos/completed", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":2}`, w.Body.String())

	left := list(t, r)
	require.Len(t, left, 1)
	assert.Equal(t, "walk", left[0].Task)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/todos/"+left[0].ID, "").Code)
	assert.Empty(t, list(t, r))
}

func TestTodosInMemory(t *testing.T) {
	testTodos(t, store.NewMemory[Todo]())
}

func TestTodosOnRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	testTodos(t, store.NewRedis[Todo](client, "todos"))
}

func TestNotFoundAndValidation(t *testing.T) {
	r := gin.New()
	NewHandler(store.NewMemory[Todo]()).Register(r)

	for _, m := range []string{http.MethodPatch, http.MethodDelete} {
		w := do(r, m, "/api/todos/missing", "")
		assert.Equal(t, http.StatusNotFound, w.Code, m)
		assert.JSONEq(t, `{"detail":"Todo not found"}`, w.Body.String())
	}
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/api/todos/missing", `{"task":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/todos", `{"task":"   "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/todos", ``).Code)
	assert.JSONEq(t, `{"deleted":0}`, do(r, http.MethodDelete, "/api/todos/completed", "").Body.String())
}
