package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlmaURepos/practice-next-js/internal/config"
	"github.com/AlmaURepos/practice-next-js/internal/database"
	"github.com/AlmaURepos/practice-next-js/internal/server"
	"github.com/AlmaURepos/practice-next-js/internal/store"
	"github.com/AlmaURepos/practice-next-js/internal/todo"
)

func main() {
	config.Load()
	cfg := config.LoadHTTP("http://localhost:3000")
	server.SetupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var todos store.Store[todo.Todo] = store.NewMemory[todo.Todo]()
	if config.String("STORE_BACKEND", "memory") == "redis" {
		rdb, err := database.NewRedis(ctx, config.String("REDIS_URL", "redis://localhost:6379/0"))
		if err != nil {
			slog.Error("failed to connect to redis", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		todos = store.NewRedis[todo.Todo](rdb, "todos")
	}

	r := server.New(cfg)
	todo.NewHandler(todos).Register(r)

	if err := server.Run(ctx, cfg.Addr(), r); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
