package poll

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlmaURepos/practice-next-js/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	r := gin.New()
	NewHandler(svc).Register(r)
	return r
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

func decode(t *testing.T, w *httptest.ResponseRecorder) View {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var v View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestOptionsKeepOrder(t *testing.T) {
	opts := Options{
		{Key: "zeta", Option: Option{Label: "Z", Votes: 2}},
		{Key: "alpha", Option: Option{Label: "A"}},
	}
	b, err := json.Marshal(opts)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":{"label":"Z","votes":2},"alpha":{"label":"A","votes":0}}`, string(b))

	var back Options
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, opts, back)

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &back))
	b, err = json.Marshal(Options(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

func TestSeedAndPersist(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "polls.json")

	polls, err := store.OpenJSONFile(path, Key)
	require.NoError(t, err)
	require.True(t, polls.Fresh())
	svc := NewService(polls)
	def, err := svc.SeedDefault(ctx)
	require.NoError(t, err)

	r := newRouter(t, svc)
	v := decode(t, do(r, http.MethodPost, "/api/poll/vote/flask", ""))
	assert.Equal(t, def.ID, v.ID)
	assert.Equal(t, 1, v.Options[v.Options.Index("flask")].Votes)

	reopened, err := store.OpenJSONFile(path, Key)
	require.NoError(t, err)
	assert.False(t, reopened.Fresh())
	p, err := NewService(reopened).First(ctx)
	require.NoError(t, err)
	assert.Equal(t, def.ID, p.ID)
	assert.Equal(t, []string{"fastapi", "django", "flask", "nodejs"}, keys(p.Options))
	assert.Equal(t, 1, p.Options[2].Votes)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Node.js (Express)")
}

func TestLoadsKeyedPollFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "polls.json")
	legacy := `{
  "p-2": {"id": "p-2", "question": "Second?", "created_at": "2025-07-02T09:30:00.123456",
          "options": {"b": {"label": "B", "votes": 1}, "a": {"label": "A", "votes": 0}}},
  "p-1": {"id": "p-1", "question": "First?", "created_at": "2025-07-01T09:30:00",
          "options": {"yes": {"label": "Yes", "votes": 4}, "no": {"label": "No", "votes": 2}}}
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	polls, err := store.OpenJSONFile(path, Key)
	require.NoError(t, err)
	assert.False(t, polls.Fresh())
	svc := NewService(polls)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// file order is kept, so the single-poll endpoints use the first member
	first, err := svc.First(ctx)
	require.NoError(t, err)
	assert.Equal(t, "p-2", first.ID)
	assert.Equal(t, []string{"b", "a"}, keys(first.Options))

	p1, err := svc.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 7, 1, 9, 30, 0, 0, time.Local).Equal(p1.CreatedAt))
	assert.Equal(t, 4, p1.Options[0].Votes)

	r := newRouter(t, svc)
	v := decode(t, do(r, http.MethodPost, "/api/poll/p-2/vote/a", ""))
	assert.Equal(t, 1, v.Options[v.Options.Index("a")].Votes)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(raw)), "["), string(raw))
}

func TestPollRejectsBadTimestamp(t *testing.T) {
	var p Poll
	assert.Error(t, json.Unmarshal([]byte(`{"id":"x","created_at":"yesterday"}`), &p))
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","created_at":"2025-07-01T09:30:00Z"}`), &p))
	assert.Equal(t, time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC), p.CreatedAt.UTC())
}

func keys(o Options) []string {
	out := make([]string, len(o))
	for i, k := range o {
		out[i] = k.Key
	}
	return out
}

func TestCreateAndVote(t *testing.T) {
	svc := NewService(store.NewMemory[Poll]())
	r := newRouter(t, svc)

	v := decode(t, do(r, http.MethodPost, "/api/poll/create", `{"question":"Tabs or spaces?","options":["Tabs"," ","Spaces"]}`))
	assert.Equal(t, "Tabs or spaces?", v.Question)
	assert.Equal(t, []string{"option_0", "option_1"}, keys(v.Options))
	assert.Equal(t, "Spaces", v.Options[1].Label)

	for range 3 {
		v = decode(t, do(r, http.MethodPost, "/api/poll/"+v.ID+"/vote/option_1", ""))
	}
	assert.Equal(t, 3, v.Options[1].Votes)
	assert.Equal(t, 3, decode(t, do(r, http.MethodGet, "/api/poll/"+v.ID, "")).Options[1].Votes)

	w := do(r, http.MethodPost, "/api/poll/"+v.ID+"/vote/option_9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Option not found"}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/poll/nope/vote/option_0", "")
	assert.JSONEq(t, `{"detail":"Poll not found"}`, w.Body.String())
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/poll/nope", "").Code)
}

func TestCreateValidation(t *testing.T) {
	r := newRouter(t, NewService(store.NewMemory[Poll]()))

	w := do(r, http.MethodPost, "/api/poll/create", `{"question":"Q","options":["only one"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"At least 2 options are required"}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/poll/create", `{"question":"Q","options":["a","  "]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/poll/create", `{"question":" ","options":["a","b"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPollsInCreationOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory[Poll]())
	var ids []string
	for _, q := range []string{"first", "second", "third"} {
		p, err := svc.Create(ctx, q, []string{"a", "b"})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	w := do(newRouter(t, svc), http.MethodGet, "/api/polls", "")
	require.Equal(t, http.StatusOK, w.Code)

	dec := json.NewDecoder(strings.NewReader(w.Body.String()))
	_, err := dec.Token()
	require.NoError(t, err)
	var got []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		got = append(got, tok.(string))
		var v View
		require.NoError(t, dec.Decode(&v))
	}
	assert.Equal(t, ids, got)
}

func TestNoPolls(t *testing.T) {
	r := newRouter(t, NewService(store.NewMemory[Poll]()))

	w := do(r, http.MethodGet, "/api/poll", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"No polls available"}`, w.Body.String())
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/poll/vote/x", "").Code)
	assert.Equal(t, "{}", do(r, http.MethodGet, "/api/polls", "").Body.String())
}

func TestConcurrentVotesAreCounted(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory[Poll]())
	p, err := svc.Create(ctx, "q", []string{"a", "b"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Vote(ctx, p.ID, "option_0")
		}()
	}
	wg.Wait()

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Options[0].Votes)
}
