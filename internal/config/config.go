package config

import (
	"os"
	"strings"

	"github.com/ojosproject/iris-store/internal/logger"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Logger LoggerConfig
}

type ServerConfig struct {
	Addr string
}

// DBConfig selects the storage backend. The default is a single-file
// sqlite database next to the application data, which keeps the store
// local and authoritative on this device. Postgres is available for
// installs that already run one.
type DBConfig struct {
	Backend string // "sqlite" or "postgres"
	Path    string // sqlite database file

	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Addr: getEnvOrDefault("SERVER_ADDR", "127.0.0.1:8743"),
		},
		DB: DBConfig{
			Backend:  strings.ToLower(getEnvOrDefault("DB_BACKEND", "sqlite")),
			Path:     getEnvOrDefault("DB_PATH", "data/iris.db"),
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "iris_store"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}, nil
}
