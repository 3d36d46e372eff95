package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlmaURepos/practice-next-js/internal/config"
	"github.com/AlmaURepos/practice-next-js/internal/database"
	"github.com/AlmaURepos/practice-next-js/internal/products"
	"github.com/AlmaURepos/practice-next-js/internal/server"
)

func main() {
	config.Load()
	cfg := config.LoadHTTP("http://localhost:3000")
	server.SetupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(database.LoadConfig("products.db"))
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db, &products.Product{}); err != nil {
		slog.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	repo := products.NewRepository(db)
	if err := repo.Seed(ctx, products.Catalogue); err != nil {
		slog.Error("seeding products failed", "err", err)
		os.Exit(1)
	}

	r := server.New(cfg)
	products.NewHandler(repo).Register(r)

	if err := server.Run(ctx, cfg.Addr(), r); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
