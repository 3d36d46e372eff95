package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlmaURepos/practice-next-js/internal/auth"
	"github.com/AlmaURepos/practice-next-js/internal/config"
	"github.com/AlmaURepos/practice-next-js/internal/database"
	"github.com/AlmaURepos/practice-next-js/internal/server"
	"github.com/AlmaURepos/practice-next-js/internal/session"
	"github.com/AlmaURepos/practice-next-js/internal/users"
)

var fixedUsers = []users.Credentials{
	{Username: "user", Password: "password", Role: users.RoleUser},
	{Username: "admin", Password: "adminpass", Role: users.RoleAdmin},
}

func main() {
	config.Load()
	cfg := config.LoadHTTP("http://localhost:3001")
	server.SetupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir, err := users.NewStatic(fixedUsers...)
	if err != nil {
		slog.Error("failed to build user directory", "err", err)
		os.Exit(1)
	}

	lifetime := config.Duration("TOKEN_LIFETIME", session.DefaultLifetime)

	var sessions session.Store
	if config.String("STORE_BACKEND", "memory") == "redis" {
		rdb, err := database.NewRedis(ctx, config.String("REDIS_URL", "redis://localhost:6379/0"))
		if err != nil {
			slog.Error("failed to connect to redis", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		sessions = session.NewRedis(rdb, lifetime)
	} else {
		mem := session.NewMemory()
		go mem.Janitor(ctx, time.Minute, lifetime)
		sessions = mem
	}

	var opts []session.Option
	if secret := config.String("AUTH_JWT_SECRET", ""); secret != "" {
		opts = append(opts, session.WithSigner(session.NewSigner([]byte(secret))))
	}

	r := server.New(cfg)
	auth.NewHandler(dir, session.NewManager(sessions, lifetime, opts...)).Register(r)

	if err := server.Run(ctx, cfg.Addr(), r); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
