package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlmaURepos/practice-next-js/internal/config"
	"github.com/AlmaURepos/practice-next-js/internal/poll"
	"github.com/AlmaURepos/practice-next-js/internal/server"
	"github.com/AlmaURepos/practice-next-js/internal/store"
)

func main() {
	config.Load()
	cfg := config.LoadHTTP("http://localhost:3000")
	server.SetupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	polls, err := store.OpenJSONFile(config.String("DATA_FILE", "polls.json"), poll.Key)
	if err != nil {
		slog.Error("failed to open poll data", "err", err)
		os.Exit(1)
	}

	svc := poll.NewService(polls)
	if polls.Fresh() {
		if _, err := svc.SeedDefault(ctx); err != nil {
			slog.Error("seeding default poll failed", "err", err)
			os.Exit(1)
		}
	}

	r := server.New(cfg)
	poll.NewHandler(svc).Register(r)

	if err := server.Run(ctx, cfg.Addr(), r); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
