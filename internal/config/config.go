package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	SourceBaseURL string
	DBPath        string
	ServerPort    string
	LogLevel      string

	// Seat calibration for the maintenance system. These are per-sport,
	// per-season tuning values, not structural algorithm inputs, so they
	// are injected rather than hard-coded.
	DirectRelegationCount int
	MaintenanceOffset     int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		SourceBaseURL:         getEnv("SOURCE_BASE_URL", ""),
		DBPath:                getEnv("DB_PATH", "uniliga.db"),
		ServerPort:            getEnv("SERVER_PORT", "8080"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		DirectRelegationCount: getEnvInt("DIRECT_RELEGATION_COUNT", 2),
		MaintenanceOffset:     getEnvInt("MAINTENANCE_OFFSET", 3),
	}

	if cfg.SourceBaseURL == "" {
		return nil, fmt.Errorf("SOURCE_BASE_URL is required")
	}

	logger.Info().
		Str("source_base_url", cfg.SourceBaseURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int("direct_relegation_count", cfg.DirectRelegationCount).
		Int("maintenance_offset", cfg.MaintenanceOffset).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
