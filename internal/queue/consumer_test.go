package queue_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"

	"github.com/saisrinu135/cleverhire/internal/queue"
)

func newTestQueue(t *testing.T) (*miniredis.Miniredis, *queue.Queue) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, queue.New(rdb)
}

func testPolicy() queue.RetryPolicy {
	return queue.RetryPolicy{
		MaxAttempts:     2,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
	}
}

// ── Delivery guarantees ────────────────────────────────────────────────────

func TestDequeueKeepsPayloadUntilAck(t *testing.T) {
	ctx := context.Background()
	_, q := newTestQueue(t)

	if err := q.EnqueueExtractResume(ctx, "p-1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	task, raw, err := q.Dequeue(ctx, time.Second, 0)
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if task == nil || task.ID != "p-1" {
		t.Fatalf("dequeued %+v, want extract_resume(p-1)", task)
	}

	// The worker dies here without acking. A fresh start must redrive the
	// payload instead of losing it.
	n, err := q.Recover(ctx)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if n != 1 {
		t.Fatalf("Recover re-queued %d task(s), want 1", n)
	}

	again, raw2, err := q.Dequeue(ctx, time.Second, 0)
	if err != nil {
		t.Fatalf("second dequeue: %v", err)
	}
	if again == nil || again.ID != "p-1" || raw2 != raw {
		t.Fatalf("recovered task = %+v, want the original payload back", again)
	}

	if err := q.Ack(ctx, 0, raw2); err != nil {
		t.Fatalf("ack: %v", err)
	}
	if n, _ := q.Recover(ctx); n != 0 {
		t.Errorf("Recover after ack re-queued %d task(s), want 0", n)
	}
}

func TestShutdownLeavesInFlightTaskForRecovery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, q := newTestQueue(t)

	entered := make(chan struct{})
	var once sync.Once
	c := queue.NewConsumer(q, 1, testPolicy())
	c.Handle(queue.TaskRecomputeCandidate, func(hctx context.Context, _ queue.Task) error {
		once.Do(func() { close(entered) })
		<-hctx.Done()
		return hctx.Err()
	})
	c.Start(ctx)

	if err := q.EnqueueRecomputeCandidate(ctx, "c-1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("handler never received the task")
	}

	cancel()
	c.Wait()

	// Shutdown interrupted the handler; the sole copy of the task must not
	// have evaporated with the worker.
	n, err := q.Recover(context.Background())
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if n != 1 {
		t.Fatalf("Recover re-queued %d task(s) after shutdown, want 1", n)
	}
	task, raw, err := q.Dequeue(context.Background(), time.Second, 0)
	if err != nil || task == nil || task.ID != "c-1" {
		t.Fatalf("redriven task = %+v (err %v), want recompute_candidate(c-1)", task, err)
	}
	if err := q.Ack(context.Background(), 0, raw); err != nil {
		t.Fatalf("ack: %v", err)
	}
}

func TestPermanentFailureDeadLettersAndAcks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mr, q := newTestQueue(t)

	c := queue.NewConsumer(q, 1, testPolicy())
	c.Handle(queue.TaskExtractResume, func(context.Context, queue.Task) error {
		return backoff.Permanent(errors.New("document rejected"))
	})
	c.Start(ctx)

	if err := q.EnqueueExtractResume(ctx, "p-9"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for !mr.Exists("match:tasks:dead") {
		if time.Now().After(deadline) {
			t.Fatal("task never reached the dead-letter list")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	c.Wait()

	entries, err := mr.List("match:tasks:dead")
	if err != nil {
		t.Fatalf("read dead letters: %v", err)
	}
	if len(entries) != 1 || !strings.Contains(entries[0], `"id":"p-9"`) {
		t.Fatalf("dead letters = %v, want one entry for p-9", entries)
	}
	// A dead-lettered task is settled: nothing left to redrive.
	if n, _ := q.Recover(context.Background()); n != 0 {
		t.Errorf("Recover re-queued %d task(s) after dead-letter, want 0", n)
	}
}

func TestSuccessfulTaskLeavesNoResidue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mr, q := newTestQueue(t)

	done := make(chan struct{})
	var once sync.Once
	c := queue.NewConsumer(q, 1, testPolicy())
	c.Handle(queue.TaskRecomputeJob, func(context.Context, queue.Task) error {
		once.Do(func() { close(done) })
		return nil
	})
	c.Start(ctx)

	if err := q.EnqueueRecomputeJob(ctx, "j-1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler never ran")
	}

	cancel()
	c.Wait()

	if mr.Exists("match:tasks:dead") {
		t.Error("successful task landed in the dead-letter list")
	}
	if n, _ := q.Recover(context.Background()); n != 0 {
		t.Errorf("Recover re-queued %d task(s) after success, want 0", n)
	}
}
