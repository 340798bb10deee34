package model_test

import (
	"errors"
	"testing"

	"github.com/saisrinu135/cleverhire/internal/model"
)

// ── ParseExperienceLevel ───────────────────────────────────────────────────

func TestParseExperienceLevel_ValidValues(t *testing.T) {
	valid := []string{"ENTRY", "MID", "SENIOR", "EXECUTIVE"}
	for _, s := range valid {
		got, err := model.ParseExperienceLevel(s)
		if err != nil {
			t.Errorf("ParseExperienceLevel(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseExperienceLevel(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseExperienceLevel_InvalidValue(t *testing.T) {
	for _, s := range []string{"PRINCIPAL", "", "mid"} {
		if _, err := model.ParseExperienceLevel(s); err == nil {
			t.Errorf("ParseExperienceLevel(%q) expected error, got nil", s)
		}
	}
}

// ── ParseJobStatus ─────────────────────────────────────────────────────────

func TestParseJobStatus(t *testing.T) {
	for _, s := range []string{"DRAFT", "PUBLISHED", "CLOSED"} {
		if _, err := model.ParseJobStatus(s); err != nil {
			t.Errorf("ParseJobStatus(%q) returned unexpected error: %v", s, err)
		}
	}
	if _, err := model.ParseJobStatus("ARCHIVED"); err == nil {
		t.Error("ParseJobStatus(\"ARCHIVED\") expected error, got nil")
	}
}

// ── Lifecycle ──────────────────────────────────────────────────────────────

func TestLifecycle_IsActive(t *testing.T) {
	if !model.LifecycleActive.IsActive() {
		t.Error("IsActive(active) should be true")
	}
	if model.LifecycleSoftDeleted.IsActive() {
		t.Error("IsActive(soft_deleted) should be false")
	}
}

// ── SalaryRange ────────────────────────────────────────────────────────────

func TestSalaryRange_Validate(t *testing.T) {
	var nilRange *model.SalaryRange
	if err := nilRange.Validate(); err != nil {
		t.Errorf("nil range Validate() = %v, want nil", err)
	}
	if err := (&model.SalaryRange{Min: 50, Max: 100}).Validate(); err != nil {
		t.Errorf("valid range Validate() = %v, want nil", err)
	}
	err := (&model.SalaryRange{Min: 100, Max: 50}).Validate()
	if !errors.Is(err, model.ErrInvalidRange) {
		t.Errorf("inverted range Validate() = %v, want ErrInvalidRange", err)
	}
}

func TestSalaryRange_Midpoint(t *testing.T) {
	r := &model.SalaryRange{Min: 80000, Max: 100000}
	if got := r.Midpoint(); got != 90000 {
		t.Errorf("Midpoint = %v, want 90000", got)
	}
}
