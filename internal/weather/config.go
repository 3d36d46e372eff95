package weather

import (
	"time"

	"github.com/AlmaURepos/practice-next-js/internal/config"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

type Config struct {
	APIKey  string
	BaseURL string
	Units   string
	Lang    string
	Timeout time.Duration
}

func NewConfig() *Config {
	return &Config{
		APIKey:  config.String("OPENWEATHER_API_KEY", ""),
		BaseURL: config.String("OPENWEATHER_BASE_URL", DefaultBaseURL),
		Units:   config.String("OPENWEATHER_UNITS", "metric"),
		Lang:    config.String("OPENWEATHER_LANG", "ru"),
		Timeout: config.Duration("OPENWEATHER_TIMEOUT", 10*time.Second),
	}
}
