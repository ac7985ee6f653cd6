package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"cataloghub/internal/config"
	"cataloghub/internal/telemetry"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Task types routed by the worker.
const (
	TypeImportProcess   = "import.process"
	TypeWebhookDispatch = "webhook.dispatch"
)

// Task is the envelope pushed through the queue.
type Task struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ImportProcessPayload identifies the job a worker should run end-to-end.
type ImportProcessPayload struct {
	JobID uuid.UUID `json:"job_id"`
}

// WebhookDispatchPayload identifies one event fan-out.
type WebhookDispatchPayload struct {
	EventType string    `json:"event_type"`
	ProductID uuid.UUID `json:"product_id"`
}

// Queue is a Redis-list-backed task queue. Producers RPush JSON envelopes,
// workers LPop them in FIFO order.
type Queue struct {
	client *redis.Client
	key    string
}

// NewQueue builds a queue client from config.
func NewQueue(cfg config.Config) *Queue {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return &Queue{client: client, key: cfg.TaskQueueKey}
}

// NewQueueWithClient wraps an existing client. Used by tests.
func NewQueueWithClient(client *redis.Client, key string) *Queue {
	return &Queue{client: client, key: key}
}

// Enqueue marshals a task envelope and appends it to the queue.
func (q *Queue) Enqueue(ctx context.Context, taskType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}
	data, err := json.Marshal(Task{Type: taskType, Payload: raw})
	if err != nil {
		return fmt.Errorf("failed to marshal task envelope: %w", err)
	}
	if err := q.client.RPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	telemetry.TasksEnqueued.WithLabelValues(taskType).Inc()
	return nil
}

// Dequeue pops the oldest task. It returns (nil, nil) when the queue is empty.
func (q *Queue) Dequeue(ctx context.Context) (*Task, error) {
	data, err := q.client.LPop(ctx, q.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var task Task
	if err := json.Unmarshal([]byte(data), &task); err != nil {
		return nil, fmt.Errorf("failed to decode task envelope: %w", err)
	}
	return &task, nil
}

// Depth returns the number of pending tasks.
func (q *Queue) Depth(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// Ping verifies the Redis connection at startup.
func (q *Queue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}
