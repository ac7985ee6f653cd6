package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "REDIS_ADDR", "REDIS_DB", "TASK_QUEUE_KEY", "WORKER_COUNT", "WORKER_POLL_INTERVAL", "UPLOAD_DIR"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Env != "development" {
		t.Errorf("Env = %q, expected development", cfg.Env)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, expected 8080", cfg.HTTPPort)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("WorkerCount = %d, expected 4", cfg.WorkerCount)
	}
	if cfg.WorkerPollInterval != time.Second {
		t.Errorf("WorkerPollInterval = %v, expected 1s", cfg.WorkerPollInterval)
	}
	if cfg.TaskQueueKey != "cataloghub:tasks" {
		t.Errorf("TaskQueueKey = %q", cfg.TaskQueueKey)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("WORKER_POLL_INTERVAL", "250ms")

	cfg := Load()

	if cfg.Env != "production" {
		t.Errorf("Env = %q, expected production", cfg.Env)
	}
	if cfg.RedisAddr != "redis:6380" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.RedisDB != 2 {
		t.Errorf("RedisDB = %d, expected 2", cfg.RedisDB)
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("WorkerCount = %d, expected 8", cfg.WorkerCount)
	}
	if cfg.WorkerPollInterval != 250*time.Millisecond {
		t.Errorf("WorkerPollInterval = %v, expected 250ms", cfg.WorkerPollInterval)
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("WORKER_COUNT", "lots")
	if got := getEnvInt("WORKER_COUNT", 4); got != 4 {
		t.Errorf("getEnvInt = %d, expected fallback 4", got)
	}
}
