// Package gallery stores uploaded images on disk or in a MinIO bucket.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const DefaultURLPrefix = "/static/images"

var (
	ErrNotFound    = errors.New("image not found")
	ErrNotAFile    = errors.New("not a regular file")
	ErrInvalidName = errors.New("invalid file name")
)

// Storage keeps image objects by flat name.
type Storage interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

// ValidName rejects anything that could address outside the storage root.
func ValidName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return ErrInvalidName
	}
	return nil
}

type Disk struct {
	dir       string
	urlPrefix string
}

func NewDisk(dir, urlPrefix string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = DefaultURLPrefix
	}
	return &Disk{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (d *Disk) path(name string) string {
	return filepath.Join(d.dir, name)
}

func (d *Disk) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	f, err := os.OpenFile(d.path(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(d.path(name))
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}

// List returns regular files only, sorted by name.
func (d *Disk) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		info, err := os.Stat(d.path(e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (d *Disk) Delete(_ context.Context, name string) error {
	info, err := os.Stat(d.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		return ErrNotAFile
	}
	if err := os.Remove(d.path(name)); err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func (d *Disk) URL(name string) string {
	return d.urlPrefix + "/" + name
}

// Mount serves the image directory under the URL prefix.
func (d *Disk) Mount(r gin.IRouter) {
	r.Static(d.urlPrefix, d.dir)
}
