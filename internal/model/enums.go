package model

import "fmt"

// ExperienceLevel is the ordinal seniority ladder for a job posting:
//
//	ENTRY < MID < SENIOR < EXECUTIVE
//
// Values mirror the experience_level enum in PostgreSQL.
type ExperienceLevel string

const (
	LevelEntry     ExperienceLevel = "ENTRY"
	LevelMid       ExperienceLevel = "MID"
	LevelSenior    ExperienceLevel = "SENIOR"
	LevelExecutive ExperienceLevel = "EXECUTIVE"
)

// ParseExperienceLevel converts a raw string to an ExperienceLevel, returning
// an error for unknown values.
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	lvl := ExperienceLevel(s)
	switch lvl {
	case LevelEntry, LevelMid, LevelSenior, LevelExecutive:
		return lvl, nil
	}
	return "", fmt.Errorf("unknown experience level %q", s)
}

// JobStatus is the lifecycle state of a posting. Only PUBLISHED jobs are
// eligible for match scoring.
type JobStatus string

const (
	StatusDraft     JobStatus = "DRAFT"
	StatusPublished JobStatus = "PUBLISHED"
	StatusClosed    JobStatus = "CLOSED"
)

// ParseJobStatus converts a raw string to a JobStatus, returning an error for
// unknown values.
func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(s)
	switch st {
	case StatusDraft, StatusPublished, StatusClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// Lifecycle distinguishes live rows from soft-deleted ones. The store refuses
// to write a score for any entity that is not active.
type Lifecycle string

const (
	LifecycleActive      Lifecycle = "active"
	LifecycleSoftDeleted Lifecycle = "soft_deleted"
)

// IsActive reports whether the entity may still receive derived data.
func (l Lifecycle) IsActive() bool { return l == LifecycleActive }
