package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"task-management-system/backend/internal/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestQueue(t *testing.T) (*worker.JobQueue, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return worker.NewJobQueue(client), client
}

func TestJobQueue_Enqueue(t *testing.T) {
	queue, _ := newTestQueue(t)

	err := queue.Enqueue(worker.QueueNotifications, worker.JobTypeTaskAssigned, map[string]interface{}{
		"task_id": 1,
	})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	size, err := queue.GetQueueSize(worker.QueueNotifications)
	if err != nil {
		t.Fatalf("GetQueueSize failed: %v", err)
	}
	if size != 1 {
		t.Errorf("Expected queue size 1, got %d", size)
	}
}

func TestWorker_ProcessesEnqueuedJob(t *testing.T) {
	queue, client := newTestQueue(t)

	w := worker.NewWorker(worker.Config{
		RedisClient: client,
		Queues:      []string{worker.QueueNotifications},
	})

	var mu sync.Mutex
	var received *worker.Job
	done := make(chan struct{})

	w.RegisterHandler(worker.JobTypeTaskAssigned, func(ctx context.Context, job *worker.Job) error {
		mu.Lock()
		received = job
		mu.Unlock()
		close(done)
		return nil
	})

	err := queue.Enqueue(worker.QueueNotifications, worker.JobTypeTaskAssigned, map[string]interface{}{
		"task_id": float64(7),
	})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	w.Start(1)
	defer w.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for the job to be processed")
	}

	mu.Lock()
	defer mu.Unlock()
	if received.Type != worker.JobTypeTaskAssigned {
		t.Errorf("Expected task_assigned job, got %s", received.Type)
	}
	if received.Payload["task_id"] != float64(7) {
		t.Errorf("Expected payload to round-trip, got %v", received.Payload["task_id"])
	}
	if received.ID == "" {
		t.Error("Expected the job to carry a generated id")
	}
}

func TestWorker_FailedJobMovesTowardRetry(t *testing.T) {
	queue, client := newTestQueue(t)

	w := worker.NewWorker(worker.Config{
		RedisClient: client,
		Queues:      []string{worker.QueueNotifications},
	})

	attempted := make(chan struct{})
	var once sync.Once

	w.RegisterHandler(worker.JobTypeTaskReminder, func(ctx context.Context, job *worker.Job) error {
		once.Do(func() { close(attempted) })
		return errors.New("delivery failed")
	})

	err := queue.Enqueue(worker.QueueNotifications, worker.JobTypeTaskReminder, nil)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	w.Start(1)
	defer w.Stop()

	select {
	case <-attempted:
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for the job attempt")
	}

	// The failed job lands on the retry queue with a backoff timestamp.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		size, err := queue.GetQueueSize("retry_queue")
		if err != nil {
			t.Fatalf("GetQueueSize failed: %v", err)
		}
		if size == 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("Expected the failed job to reach the retry queue")
}
