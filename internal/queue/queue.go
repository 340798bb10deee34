// Package queue implements the Redis-backed background task queue.
//
// A task payload carries only an entity identifier — workers re-read fresh
// state from the database at execution time, never at enqueue time, so the
// last completed recompute for a pair always reflects the newest data and
// out-of-order completions collapse harmlessly in the store's upsert.
// Delivery is at-least-once: a dequeued payload sits in a per-worker
// processing list until acked, and Recover redrives anything left there by a
// crash or shutdown. Every handler is idempotent.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Task types exposed to the rest of the platform.
const (
	TaskExtractResume      = "extract_resume"
	TaskRecomputeJob       = "recompute_job"
	TaskRecomputeCandidate = "recompute_candidate"
)

const (
	tasksKey         = "match:tasks"
	deadKey          = "match:tasks:dead"
	processingPrefix = "match:tasks:processing:"
)

// processingKey is the per-worker list holding the task currently in flight.
// A payload sits there from dequeue until Ack, so a crash or shutdown never
// leaves the worker's memory as the sole copy.
func processingKey(worker int) string {
	return fmt.Sprintf("%s%d", processingPrefix, worker)
}

// Task is one unit of background work.
type Task struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Validate rejects malformed tasks before they enter the queue.
func (t Task) Validate() error {
	switch t.Type {
	case TaskExtractResume, TaskRecomputeJob, TaskRecomputeCandidate:
	default:
		return fmt.Errorf("unknown task type %q", t.Type)
	}
	if t.ID == "" {
		return fmt.Errorf("task id is empty")
	}
	return nil
}

// Queue pushes and pops tasks on a Redis list.
type Queue struct {
	rdb *redis.Client
}

// New returns a Queue on the given client.
func New(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// Enqueue appends a task to the queue.
func (q *Queue) Enqueue(ctx context.Context, t Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	if err := q.rdb.RPush(ctx, tasksKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue %s(%s): %w", t.Type, t.ID, err)
	}
	return nil
}

// EnqueueExtractResume schedules resume extraction for a profile.
func (q *Queue) EnqueueExtractResume(ctx context.Context, profileID string) error {
	return q.Enqueue(ctx, Task{Type: TaskExtractResume, ID: profileID})
}

// EnqueueRecomputeJob schedules rescoring of a job against all candidates.
func (q *Queue) EnqueueRecomputeJob(ctx context.Context, jobID string) error {
	return q.Enqueue(ctx, Task{Type: TaskRecomputeJob, ID: jobID})
}

// EnqueueRecomputeCandidate schedules rescoring of a candidate against all
// published jobs.
func (q *Queue) EnqueueRecomputeCandidate(ctx context.Context, candidateID string) error {
	return q.Enqueue(ctx, Task{Type: TaskRecomputeCandidate, ID: candidateID})
}

// Dequeue blocks up to timeout for the next task, moving its payload into
// the worker's processing list. The raw payload is returned alongside the
// task and must be passed back to Ack once handling finishes; until then the
// payload survives a worker crash. Returns (nil, "", nil) when the wait
// times out.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration, worker int) (*Task, string, error) {
	raw, err := q.rdb.BLMove(ctx, tasksKey, processingKey(worker), "LEFT", "RIGHT", timeout).Result()
	if errors.Is(err, redis.Nil) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("dequeue: %w", err)
	}
	var t Task
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		// Undecodable payloads must not wedge the processing list.
		q.rdb.LRem(ctx, processingKey(worker), 1, raw)
		return nil, "", fmt.Errorf("unmarshal task: %w", err)
	}
	return &t, raw, nil
}

// Ack removes a handled payload from the worker's processing list. Called
// after the handler returns, whether the task succeeded or was dead-lettered.
func (q *Queue) Ack(ctx context.Context, worker int, raw string) error {
	if err := q.rdb.LRem(ctx, processingKey(worker), 1, raw).Err(); err != nil {
		return fmt.Errorf("ack: %w", err)
	}
	return nil
}

// Recover moves every payload left in a processing list back onto the queue.
// Run at startup: anything found there was in flight when the previous
// process stopped, and at-least-once delivery requires redriving it. A task
// recovered after a mid-flight restart may run twice; handlers are
// idempotent.
func (q *Queue) Recover(ctx context.Context) (int, error) {
	recovered := 0
	var cursor uint64
	for {
		keys, next, err := q.rdb.Scan(ctx, cursor, processingPrefix+"*", 100).Result()
		if err != nil {
			return recovered, fmt.Errorf("recover scan: %w", err)
		}
		for _, key := range keys {
			for {
				_, err := q.rdb.LMove(ctx, key, tasksKey, "LEFT", "RIGHT").Result()
				if errors.Is(err, redis.Nil) {
					break
				}
				if err != nil {
					return recovered, fmt.Errorf("recover %s: %w", key, err)
				}
				recovered++
			}
		}
		cursor = next
		if cursor == 0 {
			return recovered, nil
		}
	}
}

// DeadLetter parks a task that exhausted its retries, for operator
// inspection. Failure to park is logged by the caller; it never blocks.
func (q *Queue) DeadLetter(ctx context.Context, t Task, cause error) error {
	payload, err := json.Marshal(struct {
		Task
		Error    string    `json:"error"`
		FailedAt time.Time `json:"failedAt"`
	}{Task: t, Error: cause.Error(), FailedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal dead letter: %w", err)
	}
	if err := q.rdb.RPush(ctx, deadKey, payload).Err(); err != nil {
		return fmt.Errorf("dead-letter %s(%s): %w", t.Type, t.ID, err)
	}
	return nil
}
