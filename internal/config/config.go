package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads a .env file from the working directory if there is one.
// Values already present in the environment win.
func Load() {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not loaded, continuing with environment variables")
	}
}

func String(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func Int(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("ignoring invalid integer", "key", key, "value", v)
	}
	return def
}

func Int64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		slog.Warn("ignoring invalid integer", "key", key, "value", v)
	}
	return def
}

// Duration accepts Go duration syntax ("90m", "720h").
func Duration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		slog.Warn("ignoring invalid duration", "key", key, "value", v)
	}
	return def
}

// List splits a comma separated value, dropping blanks.
func List(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// HTTP holds the settings every service shares.
type HTTP struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
	LogLevel       string
}

func (h HTTP) Addr() string {
	return ":" + h.Port
}

// LoadHTTP reads the HTTP settings. defaultOrigins is the project's own
// frontend allow-list, used when CORS_ORIGINS is unset.
func LoadHTTP(defaultOrigins ...string) HTTP {
	return HTTP{
		Port:           String("PORT", "8000"),
		GinMode:        os.Getenv("GIN_MODE"),
		AllowedOrigins: List("CORS_ORIGINS", defaultOrigins),
		LogLevel:       String("LOG_LEVEL", "info"),
	}
}
