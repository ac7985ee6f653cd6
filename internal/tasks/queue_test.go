package tasks

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewQueueWithClient(client, "test:tasks")
}

func TestQueueFIFO(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	first := ImportProcessPayload{JobID: uuid.New()}
	second := WebhookDispatchPayload{EventType: "product.created", ProductID: uuid.New()}

	require.NoError(t, q.Enqueue(ctx, TypeImportProcess, first))
	require.NoError(t, q.Enqueue(ctx, TypeWebhookDispatch, second))

	depth, err := q.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), depth)

	task, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, TypeImportProcess, task.Type)

	var gotFirst ImportProcessPayload
	require.NoError(t, json.Unmarshal(task.Payload, &gotFirst))
	assert.Equal(t, first.JobID, gotFirst.JobID)

	task, err = q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, TypeWebhookDispatch, task.Type)

	var gotSecond WebhookDispatchPayload
	require.NoError(t, json.Unmarshal(task.Payload, &gotSecond))
	assert.Equal(t, second, gotSecond)

	depth, err = q.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), depth)
}

func TestQueueDequeueEmpty(t *testing.T) {
	q := newTestQueue(t)

	task, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestWorkerRoutesTasks(t *testing.T) {
	q := newTestQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handled := make(chan uuid.UUID, 1)
	worker := NewWorker(q, 2, 10*time.Millisecond)
	worker.RegisterHandler(TypeImportProcess, func(ctx context.Context, task *Task) error {
		var payload ImportProcessPayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			return err
		}
		handled <- payload.JobID
		return nil
	})

	jobID := uuid.New()
	require.NoError(t, q.Enqueue(ctx, TypeImportProcess, ImportProcessPayload{JobID: jobID}))

	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	select {
	case got := <-handled:
		assert.Equal(t, jobID, got)
	case <-time.After(2 * time.Second):
		t.Fatal("task was not handled in time")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestWorkerDropsUnknownTaskType(t *testing.T) {
	q := newTestQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, q.Enqueue(ctx, "unknown.type", struct{}{}))

	worker := NewWorker(q, 1, 10*time.Millisecond)
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	// The task has no handler so the queue should simply drain.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		depth, err := q.Depth(context.Background())
		require.NoError(t, err)
		if depth == 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	depth, err := q.Depth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), depth)

	cancel()
	<-done
}
