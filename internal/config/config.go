package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration shared by the API and the background
// task workers. Database settings stay in internal/db, which builds its DSN
// from the DB_* environment variables directly.
type Config struct {
	Env                string
	HTTPPort           string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	TaskQueueKey       string
	WorkerCount        int
	WorkerPollInterval time.Duration
	UploadDir          string
}

// Load reads configuration from environment variables with defaults suitable
// for local development.
func Load() Config {
	return Config{
		Env:                getEnv("ENV", "development"),
		HTTPPort:           getEnv("PORT", "8080"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		TaskQueueKey:       getEnv("TASK_QUEUE_KEY", "cataloghub:tasks"),
		WorkerCount:        getEnvInt("WORKER_COUNT", 4),
		WorkerPollInterval: getEnvDuration("WORKER_POLL_INTERVAL", time.Second),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads/imports"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
