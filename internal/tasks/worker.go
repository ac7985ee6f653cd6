package tasks

import (
	"context"
	"sync"
	"time"

	"cataloghub/internal/telemetry"

	"github.com/rs/zerolog/log"
)

// Handler executes one task of a given type.
type Handler func(ctx context.Context, task *Task) error

// Worker consumes the task queue with a fixed pool of goroutines and routes
// tasks to registered handlers. Failed tasks are logged and dropped, never
// retried: the import pipeline records its own failures in the job ledger
// and webhook deliveries record theirs in the delivery log.
type Worker struct {
	queue        *Queue
	handlers     map[string]Handler
	concurrency  int
	pollInterval time.Duration
}

func NewWorker(queue *Queue, concurrency int, pollInterval time.Duration) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Worker{
		queue:        queue,
		handlers:     make(map[string]Handler),
		concurrency:  concurrency,
		pollInterval: pollInterval,
	}
}

// RegisterHandler binds a handler to a task type. Must be called before Run.
func (w *Worker) RegisterHandler(taskType string, handler Handler) {
	if taskType == "" || handler == nil {
		return
	}
	w.handlers[taskType] = handler
}

// Run blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.loop(ctx)
		}()
	}
	wg.Wait()
}

func (w *Worker) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		task, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("Failed to dequeue task")
			w.sleep(ctx)
			continue
		}
		if task == nil {
			if depth, err := w.queue.Depth(ctx); err == nil {
				telemetry.QueueDepthGauge.Set(float64(depth))
			}
			w.sleep(ctx)
			continue
		}

		handler, ok := w.handlers[task.Type]
		if !ok {
			log.Warn().Str("type", task.Type).Msg("No handler registered for task type")
			telemetry.TasksProcessed.WithLabelValues(task.Type, "dropped").Inc()
			continue
		}

		if err := handler(ctx, task); err != nil {
			log.Error().Err(err).Str("type", task.Type).Msg("Task handler failed")
			telemetry.TasksProcessed.WithLabelValues(task.Type, "error").Inc()
			continue
		}
		telemetry.TasksProcessed.WithLabelValues(task.Type, "ok").Inc()
	}
}

func (w *Worker) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(w.pollInterval):
	}
}
