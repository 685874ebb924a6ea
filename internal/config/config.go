package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr      string
	DBPath          string
	AuthSecret      string
	SessionTTL      time.Duration
	ExportPath      string
	InsightsBackend string
	ClaudeAPIKey    string
	ClaudeModel     string
	LogLevel        string
	LogFile         string
	TestMode        bool
}

func Load() *Config {
	return &Config{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		DBPath:          getEnv("DB_PATH", "/data/inventory.db"),
		AuthSecret:      getEnv("AUTH_SECRET", ""),
		SessionTTL:      getDuration("SESSION_TTL", 24*time.Hour),
		ExportPath:      getEnv("EXPORT_LOCAL_PATH", "/data/exports"),
		InsightsBackend: getEnv("INSIGHTS_BACKEND", "none"),
		ClaudeAPIKey:    getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:     getEnv("CLAUDE_MODEL", "claude-sonnet-4-5"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", ""),
		TestMode:        os.Getenv("INVENTORY_TEST_MODE") == "1",
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

// getDuration reads a duration env var, accepting either a Go duration
// string ("24h") or a plain number of seconds.
func getDuration(key string, defaultVal time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}
