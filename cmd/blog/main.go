package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlmaURepos/practice-next-js/internal/blog"
	"github.com/AlmaURepos/practice-next-js/internal/config"
	"github.com/AlmaURepos/practice-next-js/internal/server"
	"github.com/AlmaURepos/practice-next-js/internal/store"
)

func main() {
	config.Load()
	cfg := config.LoadHTTP(
		"http://localhost",
		"http://localhost:3000",
		"http://localhost:3001",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:3001",
	)
	server.SetupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	posts := store.NewMemory[blog.Post]()
	if err := blog.Seed(ctx, posts, blog.SeedPosts...); err != nil {
		slog.Error("seeding posts failed", "err", err)
		os.Exit(1)
	}

	r := server.New(cfg)
	blog.NewHandler(posts).Register(r)

	if err := server.Run(ctx, cfg.Addr(), r); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
