package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Handler executes one task. Returning nil acknowledges the task; returning
// an error triggers a retry unless the error is wrapped with
// backoff.Permanent.
type Handler func(ctx context.Context, task Task) error

// RetryPolicy bounds per-task retries.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Consumer runs a pool of workers draining the queue. Workers score
// different tasks concurrently; no cross-task coordination is needed because
// every handler commits independently per pair.
type Consumer struct {
	q        *Queue
	handlers map[string]Handler
	workers  int
	retry    RetryPolicy
	wg       sync.WaitGroup
}

// NewConsumer returns a Consumer with the given pool size and retry policy.
func NewConsumer(q *Queue, workers int, retry RetryPolicy) *Consumer {
	if workers < 1 {
		workers = 1
	}
	return &Consumer{
		q:        q,
		handlers: make(map[string]Handler),
		workers:  workers,
		retry:    retry,
	}
}

// Handle registers the handler for a task type. Must be called before Start.
func (c *Consumer) Handle(taskType string, h Handler) {
	c.handlers[taskType] = h
}

// Start redrives tasks a previous process left in flight, then launches the
// worker pool. Workers exit when ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	n, err := c.q.Recover(ctx)
	if err != nil {
		log.Printf("[queue] recovery error: %v", err)
	}
	if n > 0 {
		log.Printf("[queue] re-queued %d in-flight task(s) from previous run", n)
	}
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go func(worker int) {
			defer c.wg.Done()
			c.run(ctx, worker)
		}(i)
	}
	log.Printf("[queue] %d worker(s) started", c.workers)
}

// Wait blocks until all workers have drained after ctx cancellation.
func (c *Consumer) Wait() {
	c.wg.Wait()
	log.Println("[queue] workers stopped")
}

func (c *Consumer) run(ctx context.Context, worker int) {
	for {
		if ctx.Err() != nil {
			return
		}
		task, raw, err := c.q.Dequeue(ctx, time.Second, worker)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[queue] worker %d dequeue error: %v", worker, err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}
		if task == nil {
			continue
		}
		c.process(ctx, worker, *task, raw)
	}
}

// process executes one task with bounded exponential-backoff retries, then
// dead-letters it. A failed task never blocks the owning entity's lifecycle.
// The payload is acked out of the processing list only once the outcome is
// settled; a shutdown mid-handler leaves it there for the next Recover.
func (c *Consumer) process(ctx context.Context, worker int, task Task, raw string) {
	handler, ok := c.handlers[task.Type]
	if !ok {
		c.fail(ctx, task, fmt.Errorf("no handler for task type %q", task.Type))
		c.ack(ctx, worker, raw)
		return
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.retry.InitialInterval
	eb.MaxInterval = c.retry.MaxInterval

	started := time.Now()
	_, err := backoff.Retry(ctx,
		func() (struct{}, error) { return struct{}{}, handler(ctx, task) },
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(uint(c.retry.MaxAttempts)),
	)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Shutdown, not a task failure. The payload stays in the
			// processing list and Recover re-queues it on the next start.
			log.Printf("[queue] worker %d interrupted %s(%s) — left for recovery", worker, task.Type, task.ID)
			return
		}
		c.fail(ctx, task, err)
		c.ack(ctx, worker, raw)
		return
	}
	c.ack(ctx, worker, raw)
	log.Printf("[queue] worker %d done %s(%s) in %s", worker, task.Type, task.ID, time.Since(started).Round(time.Millisecond))
}

func (c *Consumer) fail(ctx context.Context, task Task, cause error) {
	log.Printf("[queue] task %s(%s) failed permanently: %v", task.Type, task.ID, cause)
	// The pool ctx may already be cancelled; parking must still go through.
	if err := c.q.DeadLetter(context.WithoutCancel(ctx), task, cause); err != nil {
		log.Printf("[queue] dead-letter error: %v", err)
	}
}

func (c *Consumer) ack(ctx context.Context, worker int, raw string) {
	if err := c.q.Ack(context.WithoutCancel(ctx), worker, raw); err != nil {
		log.Printf("[queue] worker %d ack error: %v", worker, err)
	}
}
