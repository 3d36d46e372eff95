package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlmaURepos/practice-next-js/internal/config"
	"github.com/AlmaURepos/practice-next-js/internal/server"
	"github.com/AlmaURepos/practice-next-js/internal/weather"
)

func main() {
	config.Load()
	cfg := config.LoadHTTP("http://localhost:3001")
	server.SetupLogger(cfg.LogLevel)

	wcfg := weather.NewConfig()
	if wcfg.APIKey == "" {
		slog.Warn("OPENWEATHER_API_KEY is not set, weather requests will fail")
	}

	r := server.New(cfg)
	weather.NewHandler(weather.NewClient(wcfg)).Register(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, cfg.Addr(), r); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
