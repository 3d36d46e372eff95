package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlmaURepos/practice-next-js/internal/config"
	"github.com/AlmaURepos/practice-next-js/internal/gallery"
	"github.com/AlmaURepos/practice-next-js/internal/server"
)

func main() {
	config.Load()
	cfg := config.LoadHTTP("http://localhost:3001")
	server.SetupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := openStorage(ctx)
	if err != nil {
		slog.Error("failed to open image storage", "err", err)
		os.Exit(1)
	}

	r := server.New(cfg)
	gallery.NewHandler(storage, config.Int64("MAX_UPLOAD_BYTES", gallery.DefaultMaxUpload)).Register(r)

	if err := server.Run(ctx, cfg.Addr(), r); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func openStorage(ctx context.Context) (gallery.Storage, error) {
	if config.String("GALLERY_BACKEND", "disk") == "minio" {
		return gallery.NewMinIO(ctx, gallery.LoadMinIOConfig())
	}
	return gallery.NewDisk(config.String("IMAGE_DIR", "static/images"), "")
}
