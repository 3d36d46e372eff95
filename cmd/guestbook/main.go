package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlmaURepos/practice-next-js/internal/config"
	"github.com/AlmaURepos/practice-next-js/internal/guestbook"
	"github.com/AlmaURepos/practice-next-js/internal/server"
	"github.com/AlmaURepos/practice-next-js/internal/store"
)

func main() {
	config.Load()
	cfg := config.LoadHTTP("http://localhost:3001")
	server.SetupLogger(cfg.LogLevel)

	entries, err := store.OpenJSONFile(config.String("DATA_FILE", "data/guestbook.json"), guestbook.Key)
	if err != nil {
		slog.Error("failed to open guestbook data", "err", err)
		os.Exit(1)
	}

	r := server.New(cfg)
	guestbook.NewHandler(entries).Register(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, cfg.Addr(), r); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
