package gallery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	dir    string
	router *gin.Engine
}

func newFixture(t *testing.T, maxBytes int64) *fixture {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "static", "images")
	disk, err := NewDisk(dir, "")
	require.NoError(t, err)
	r := gin.New()
	NewHandler(disk, maxBytes).Register(r)
	return &fixture{dir: dir, router: r}
}

func (f *fixture) upload(field, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, _ := mw.CreatePart(h)
	_, _ = part.Write(data)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) do(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestUploadListServeDelete(t *testing.T) {
	f := newFixture(t, 0)
	png := []byte("\x89PNG fake image bytes")

	w := f.upload("file", "cat.png", "image/png", png)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct{ URL string }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, strings.HasPrefix(resp.URL, "/static/images/"), resp.URL)
	assert.True(t, strings.HasSuffix(resp.URL, ".png"))

	// a subdirectory is never listed
	require.NoError(t, os.Mkdir(filepath.Join(f.dir, "thumbs"), 0o755))

	w = f.do(http.MethodGet, "/api/images")
	require.Equal(t, http.StatusOK, w.Code)
	var urls []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &urls))
	assert.Equal(t, []string{resp.URL}, urls)

	w = f.do(http.MethodGet, resp.URL)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, png, w.Body.Bytes())

	name := strings.TrimPrefix(resp.URL, "/static/images/")
	w = f.do(http.MethodDelete, "/api/images/"+name)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/api/images/"+name).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodDelete, "/api/images/thumbs").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodDelete, "/api/images/..").Code)
}

func TestUploadValidation(t *testing.T) {
	f := newFixture(t, 16)

	assert.Equal(t, http.StatusBadRequest, f.upload("file", "notes.txt", "text/plain", []byte("hi")).Code)
	assert.Equal(t, http.StatusBadRequest, f.upload("other", "a.png", "image/png", []byte("hi")).Code)

	w := f.upload("file", "big.png", "image/png", bytes.Repeat([]byte{1}, 17))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, f.upload("file", "ok.jpg", "image/jpeg", bytes.Repeat([]byte{1}, 16)).Code)
}

func TestUploadDropsUnsafeExtension(t *testing.T) {
	f := newFixture(t, 0)

	w := f.upload("file", "x.png#a", "image/png", []byte("img"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct{ URL string }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	name := strings.TrimPrefix(resp.URL, "/static/images/")
	assert.NotContains(t, name, "#")
	assert.NotContains(t, name, ".")

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, resp.URL).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/api/images/"+name).Code)
}

func TestSafeExt(t *testing.T) {
	tests := map[string]string{
		"cat.png":       ".png",
		"photo.JPEG":    ".JPEG",
		"a.b.webp":      ".webp",
		"x.png#a":       "",
		"x.p?g":         "",
		"noext":         "",
		"dot.":          "",
		"x.verylongext": "",
		"x.пнг":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeExt(in), in)
	}
}

func TestListEmpty(t *testing.T) {
	w := newFixture(t, 0).do(http.MethodGet, "/api/images")
	assert.Equal(t, "[]", w.Body.String())
}

func TestValidName(t *testing.T) {
	for _, ok := range []string{"a.png", "3f2c-1.jpeg", "x"} {
		assert.NoError(t, ValidName(ok), ok)
	}
	for _, bad := range []string{"", ".", "..", "a/b", `a\b`, "..png", "a..b"} {
		assert.ErrorIs(t, ValidName(bad), ErrInvalidName, bad)
	}
}

func TestMinIOURLAndErrors(t *testing.T) {
	m := newMinIO(nil, MinIOConfig{Bucket: "gallery", PublicURL: "http://127.0.0.1:9000/"})
	assert.Equal(t, "http://127.0.0.1:9000/gallery/a.png", m.URL("a.png"))

	assert.True(t, isNoSuchKey(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.False(t, isNoSuchKey(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isNoSuchKey(fmt.Errorf("dial tcp: refused")))
}
