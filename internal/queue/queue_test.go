package queue_test

import (
	"testing"

	"github.com/saisrinu135/cleverhire/internal/queue"
)

// ── Task validation ────────────────────────────────────────────────────────

func TestTaskValidate_KnownTypes(t *testing.T) {
	for _, typ := range []string{
		queue.TaskExtractResume,
		queue.TaskRecomputeJob,
		queue.TaskRecomputeCandidate,
	} {
		task := queue.Task{Type: typ, ID: "3f1e8a50-0000-0000-0000-000000000001"}
		if err := task.Validate(); err != nil {
			t.Errorf("Validate(%s) returned unexpected error: %v", typ, err)
		}
	}
}

func TestTaskValidate_UnknownType(t *testing.T) {
	task := queue.Task{Type: "reticulate_splines", ID: "x"}
	if err := task.Validate(); err == nil {
		t.Error("Validate(unknown type) expected error, got nil")
	}
}

func TestTaskValidate_EmptyID(t *testing.T) {
	task := queue.Task{Type: queue.TaskRecomputeJob}
	if err := task.Validate(); err == nil {
		t.Error("Validate(empty id) expected error, got nil")
	}
}
