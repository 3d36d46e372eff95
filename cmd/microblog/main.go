package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlmaURepos/practice-next-js/internal/config"
	"github.com/AlmaURepos/practice-next-js/internal/database"
	"github.com/AlmaURepos/practice-next-js/internal/microblog"
	"github.com/AlmaURepos/practice-next-js/internal/server"
	"github.com/AlmaURepos/practice-next-js/internal/users"
)

func main() {
	config.Load()
	cfg := config.LoadHTTP("http://localhost:3001")
	server.SetupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(database.LoadConfig("microblog.db"))
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer database.Close(db)

	// run migrations to create tables
	if err := database.Migrate(db, microblog.Models()...); err != nil {
		slog.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(db)
	if err := userRepo.Seed(ctx, microblog.SeedUsers...); err != nil {
		slog.Error("seeding users failed", "err", err)
		os.Exit(1)
	}

	r := server.New(cfg)
	microblog.NewHandler(microblog.NewRepository(db), userRepo).Register(r)

	if err := server.Run(ctx, cfg.Addr(), r); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
