// Package model defines the shared data structures for the match service.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// GeoPoint is a WGS84 coordinate. A nil *GeoPoint means "location unknown".
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SalaryRange is an annual salary band. A nil *SalaryRange means "not stated".
type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Validate rejects inverted ranges at entity-write time, before anything
// reaches the scoring pipeline.
func (r *SalaryRange) Validate() error {
	if r == nil {
		return nil
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: salary min %d > max %d", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

// Midpoint returns the middle of the range.
func (r *SalaryRange) Midpoint() float64 {
	return float64(r.Min+r.Max) / 2
}

// Skill is a canonical catalog entry. Aliases disambiguate synonyms
// ("golang" → "Go"). The catalog is append-only.
type Skill struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Aliases   []string  `json:"aliases"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CandidateProfile mirrors the profiles table row relevant to matching.
type CandidateProfile struct {
	ID                string       `json:"id"`
	UserID            string       `json:"userId"`
	SkillIDs          []string     `json:"skillIds"`
	YearsExperience   float64      `json:"yearsExperience"`
	Location          *GeoPoint    `json:"location,omitempty"`
	DesiredSalary     *SalaryRange `json:"desiredSalary,omitempty"`
	ResumeText        string       `json:"resumeText,omitempty"`
	ResumeKey         string       `json:"resumeKey,omitempty"`
	OpenToRemote      bool         `json:"openToRemote"`
	IsActivelyLooking bool         `json:"isActivelyLooking"`
	Completeness      int          `json:"completeness"`
	Lifecycle         Lifecycle    `json:"lifecycle"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// JobPosting mirrors the jobs table row relevant to matching.
type JobPosting struct {
	ID               string          `json:"id"`
	EmployerID       string          `json:"employerId"`
	RequiredSkillIDs []string        `json:"requiredSkillIds"`
	ExperienceLevel  ExperienceLevel `json:"experienceLevel"`
	Location         *GeoPoint       `json:"location,omitempty"`
	IsRemote         bool            `json:"isRemote"`
	Salary           *SalaryRange    `json:"salary,omitempty"`
	Status           JobStatus       `json:"status"`
	Lifecycle        Lifecycle       `json:"lifecycle"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Breakdown is the structured explanation stored alongside a match score.
// It replaces the untyped analysis blob the clients used to receive.
type Breakdown struct {
	MatchedSkills   []string `json:"matchedSkills"`
	MissingSkills   []string `json:"missingSkills"`
	ExperienceDelta float64  `json:"experienceDelta"`
	DistanceKm      *float64 `json:"distanceKm,omitempty"`
	SalaryGap       *int     `json:"salaryGap,omitempty"`
	JobRemote       bool     `json:"jobRemote"`
}

// ScoreResult holds the four sub-scores, the weighted aggregate and the
// breakdown for one (job, candidate) pair. All scores are in [0,100].
type ScoreResult struct {
	SkillScore      float64   `json:"skillScore"`
	ExperienceScore float64   `json:"experienceScore"`
	LocationScore   float64   `json:"locationScore"`
	SalaryScore     float64   `json:"salaryScore"`
	OverallScore    float64   `json:"overallScore"`
	Breakdown       Breakdown `json:"breakdown"`
}

// MatchScore is the persisted form of a ScoreResult, keyed by the unique
// (job, candidate) pair.
type MatchScore struct {
	JobID       string `json:"jobId"`
	CandidateID string `json:"candidateId"`
	ScoreResult
	ComputedAt time.Time `json:"computedAt"`
}

// MarshalBreakdown serialises a breakdown for the jsonb column.
func MarshalBreakdown(b Breakdown) ([]byte, error) {
	return json.Marshal(b)
}

// ErrInvalidRange is returned when a salary range or experience value fails
// validation at write time.
var ErrInvalidRange = fmt.Errorf("invalid range")
