package gallery

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AlmaURepos/practice-next-js/internal/server"
)

const DefaultMaxUpload = 5 << 20

type Handler struct {
	storage  Storage
	maxBytes int64
}

func NewHandler(s Storage, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUpload
	}
	return &Handler{storage: s, maxBytes: maxBytes}
}

func (h *Handler) Register(r gin.IRouter) {
	if m, ok := h.storage.(interface{ Mount(gin.IRouter) }); ok {
		m.Mount(r)
	}
	api := r.Group("/api")
	api.POST("/upload", h.Upload)
	api.GET("/images", h.List)
	api.DELETE("/images/:filename", h.Delete)
}

func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		server.Abort(c, server.BadRequest("Файл не передан."))
		return
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		server.Abort(c, server.BadRequest("Загруженный файл не является изображением."))
		return
	}
	if fh.Filename == "" {
		server.Abort(c, server.BadRequest("Загруженный файл не имеет имени."))
		return
	}
	if fh.Size > h.maxBytes {
		server.Abort(c, server.BadRequest(fmt.Sprintf(
			"Размер файла превышает максимально допустимый (%d МБ).", h.maxBytes>>20)))
		return
	}

	name := uuid.NewString() + safeExt(fh.Filename)

	src, err := fh.Open()
	if err != nil {
		server.Abort(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer src.Close()

	if err := h.storage.Save(c.Request.Context(), name, src, fh.Size, fh.Header.Get("Content-Type")); err != nil {
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": h.storage.URL(name)})
}

// safeExt keeps the client's extension only when it is short and
// alphanumeric, so stored names stay addressable in URLs.
func safeExt(filename string) string {
	ext := filepath.Ext(filepath.Base(filename))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return ""
		}
	}
	return ext
}

func (h *Handler) List(c *gin.Context) {
	names, err := h.storage.List(c.Request.Context())
	if err != nil {
		server.Abort(c, err)
		return
	}
	urls := make([]string, 0, len(names))
	for _, n := range names {
		urls = append(urls, h.storage.URL(n))
	}
	c.JSON(http.StatusOK, urls)
}

func (h *Handler) Delete(c *gin.Context) {
	name := c.Param("filename")
	if err := ValidName(name); err != nil {
		server.Abort(c, server.BadRequest("Недопустимое имя файла."))
		return
	}

	err := h.storage.Delete(c.Request.Context(), name)
	switch {
	case errors.Is(err, ErrNotFound):
		server.Abort(c, server.NotFound("Изображение не найдено."))
		return
	case errors.Is(err, ErrNotAFile):
		server.Abort(c, server.BadRequest("Указанный путь не является файлом."))
		return
	case err != nil:
		server.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Изображение успешно удалено."})
}
