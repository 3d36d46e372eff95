package gallery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/AlmaURepos/practice-next-js/internal/config"
)

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PublicURL is where browsers reach the endpoint, e.g. http://127.0.0.1:9000.
	PublicURL string
}

func LoadMinIOConfig() MinIOConfig {
	endpoint := config.String("MINIO_ENDPOINT", "127.0.0.1:9000")
	useSSL := config.String("MINIO_USE_SSL", "false") == "true"
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return MinIOConfig{
		Endpoint:  endpoint,
		AccessKey: config.String("MINIO_ACCESS_KEY", ""),
		SecretKey: config.String("MINIO_SECRET_KEY", ""),
		UseSSL:    useSSL,
		Bucket:    config.String("MINIO_BUCKET", "gallery"),
		PublicURL: config.String("MINIO_PUBLIC_URL", scheme+"://"+endpoint),
	}
}

type MinIO struct {
	client *minio.Client
	bucket string
	public string
}

// NewMinIO connects and creates the bucket when it is missing.
func NewMinIO(ctx context.Context, cfg MinIOConfig) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		slog.Info("created bucket", "bucket", cfg.Bucket)
	}
	return newMinIO(client, cfg), nil
}

func newMinIO(client *minio.Client, cfg MinIOConfig) *MinIO {
	return &MinIO{client: client, bucket: cfg.Bucket, public: strings.TrimRight(cfg.PublicURL, "/")}
}

func (m *MinIO) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", name, err)
	}
	return nil
}

// List skips "directory" prefixes; only top-level objects are images.
func (m *MinIO) List(ctx context.Context) ([]string, error) {
	names := []string{}
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		names = append(names, obj.Key)
	}
	return names, nil
}

func (m *MinIO) Delete(ctx context.Context, name string) error {
	if _, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return ErrNotFound
		}
		return fmt.Errorf("stat object %s: %w", name, err)
	}
	if err := m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", name, err)
	}
	return nil
}

func (m *MinIO) URL(name string) string {
	return m.public + "/" + m.bucket + "/" + name
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
