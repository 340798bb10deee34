// Package store persists the entities the matching pipeline reads and the
// derived match scores it writes.
//
// Match scores are a best-effort eventually-consistent derived index, not a
// source of truth: every write is keyed by the unique (job, candidate) pair
// and independently committed, so recomputation is safe to re-run after a
// partial failure.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saisrinu135/cleverhire/internal/model"
)

// ErrMissingEntity is returned when the target row is absent or soft-deleted.
// Callers in the task layer discard their result instead of erroring loudly.
var ErrMissingEntity = fmt.Errorf("entity missing or deleted")

// Store wraps the connection pool with pipeline-specific queries.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store backed by pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ─── Entity reads ────────────────────────────────────────────────────────────

// GetCandidate fetches a profile by id. Soft-deleted profiles are returned
// with their lifecycle set so callers can invalidate derived data.
func (s *Store) GetCandidate(ctx context.Context, id string) (*model.CandidateProfile, error) {
	var (
		p                    model.CandidateProfile
		lat, lon             *float64
		salaryMin, salaryMax *int
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id::text, user_id::text, COALESCE(skill_ids, '{}'),
		        years_experience, lat, lon,
		        desired_salary_min, desired_salary_max,
		        COALESCE(resume_text, ''), COALESCE(resume_key, ''),
		        open_to_remote, is_actively_looking, completeness,
		        lifecycle, updated_at
		 FROM profiles
		 WHERE id = $1`,
		id,
	).Scan(
		&p.ID, &p.UserID, &p.SkillIDs,
		&p.YearsExperience, &lat, &lon,
		&salaryMin, &salaryMax,
		&p.ResumeText, &p.ResumeKey,
		&p.OpenToRemote, &p.IsActivelyLooking, &p.Completeness,
		&p.Lifecycle, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMissingEntity
	}
	if err != nil {
		return nil, fmt.Errorf("getCandidate %s: %w", id, err)
	}

	if lat != nil && lon != nil {
		p.Location = &model.GeoPoint{Lat: *lat, Lon: *lon}
	}
	if salaryMin != nil && salaryMax != nil {
		r := model.SalaryRange{Min: *salaryMin, Max: *salaryMax}
		// An inverted band would silently score as "no overlap"; surface it.
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("getCandidate %s: %w", id, err)
		}
		p.DesiredSalary = &r
	}
	return &p, nil
}

// GetJob fetches a posting by id. Soft-deleted jobs are returned with their
// lifecycle set so callers can invalidate derived data.
func (s *Store) GetJob(ctx context.Context, id string) (*model.JobPosting, error) {
	var (
		j                    model.JobPosting
		level, status        string
		lat, lon             *float64
		salaryMin, salaryMax *int
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id::text, employer_id::text, COALESCE(required_skill_ids, '{}'),
		        experience_level, lat, lon, is_remote,
		        salary_min, salary_max, status, lifecycle, updated_at
		 FROM jobs
		 WHERE id = $1`,
		id,
	).Scan(
		&j.ID, &j.EmployerID, &j.RequiredSkillIDs,
		&level, &lat, &lon, &j.IsRemote,
		&salaryMin, &salaryMax, &status, &j.Lifecycle, &j.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMissingEntity
	}
	if err != nil {
		return nil, fmt.Errorf("getJob %s: %w", id, err)
	}

	// A corrupt enum value must not slip into scoring as a zero level.
	if j.ExperienceLevel, err = model.ParseExperienceLevel(level); err != nil {
		return nil, fmt.Errorf("getJob %s: %w", id, err)
	}
	if j.Status, err = model.ParseJobStatus(status); err != nil {
		return nil, fmt.Errorf("getJob %s: %w", id, err)
	}

	if lat != nil && lon != nil {
		j.Location = &model.GeoPoint{Lat: *lat, Lon: *lon}
	}
	if salaryMin != nil && salaryMax != nil {
		r := model.SalaryRange{Min: *salaryMin, Max: *salaryMax}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("getJob %s: %w", id, err)
		}
		j.Salary = &r
	}
	return &j, nil
}

// ─── Pair enumeration ────────────────────────────────────────────────────────

// ListActiveCandidateIDs pages through actively-looking, non-deleted profile
// ids in keyset order. Pass the last id of the previous chunk (or "" to
// start) and a chunk size.
func (s *Store) ListActiveCandidateIDs(ctx context.Context, afterID string, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text FROM profiles
		 WHERE lifecycle = 'active' AND is_actively_looking
		   AND id::text > $1
		 ORDER BY id::text
		 LIMIT $2`,
		afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listActiveCandidates: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// ListPublishedJobIDs pages through published, non-deleted job ids in keyset
// order.
func (s *Store) ListPublishedJobIDs(ctx context.Context, afterID string, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text FROM jobs
		 WHERE lifecycle = 'active' AND status = 'PUBLISHED'
		   AND id::text > $1
		 ORDER BY id::text
		 LIMIT $2`,
		afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listPublishedJobs: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

func scanIDs(rows pgx.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ─── Resume ingestion ───────────────────────────────────────────────────────

// SaveResumeText overwrites the extracted text, merged skill set and
// completeness on a profile. Idempotent: re-running the extraction task
// rewrites the same fields. Returns ErrMissingEntity when the profile is
// gone or soft-deleted.
func (s *Store) SaveResumeText(ctx context.Context, profileID, text string, skillIDs []string, completeness int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE profiles
		 SET resume_text = $1, skill_ids = $2, completeness = $3, updated_at = NOW()
		 WHERE id = $4 AND lifecycle = 'active'`,
		text, skillIDs, completeness, profileID,
	)
	if err != nil {
		return fmt.Errorf("saveResumeText %s: %w", profileID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMissingEntity
	}
	return nil
}

// ─── Match scores ───────────────────────────────────────────────────────────

// UpsertMatchScore inserts or overwrites the one score row for a pair. The
// insert is guarded by lifecycle checks on both sides inside the statement
// itself, so a score can never be written for an entity mid-deletion.
// Returns ErrMissingEntity when either side is gone; the caller discards.
func (s *Store) UpsertMatchScore(ctx context.Context, jobID, candidateID string, res model.ScoreResult, computedAt time.Time) error {
	breakdown, err := model.MarshalBreakdown(res.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO match_scores (job_id, candidate_id, skill_score, experience_score,
		                           location_score, salary_score, overall_score, breakdown, computed_at)
		 SELECT $1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9
		 WHERE EXISTS (SELECT 1 FROM jobs     WHERE id = $1 AND lifecycle = 'active')
		   AND EXISTS (SELECT 1 FROM profiles WHERE id = $2 AND lifecycle = 'active')
		 ON CONFLICT (job_id, candidate_id) DO UPDATE
		 SET skill_score      = EXCLUDED.skill_score,
		     experience_score = EXCLUDED.experience_score,
		     location_score   = EXCLUDED.location_score,
		     salary_score     = EXCLUDED.salary_score,
		     overall_score    = EXCLUDED.overall_score,
		     breakdown        = EXCLUDED.breakdown,
		     computed_at      = EXCLUDED.computed_at`,
		jobID, candidateID,
		res.SkillScore, res.ExperienceScore, res.LocationScore, res.SalaryScore,
		res.OverallScore, string(breakdown), computedAt,
	)
	if err != nil {
		return fmt.Errorf("upsertMatchScore (%s,%s): %w", jobID, candidateID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMissingEntity
	}
	return nil
}

// InvalidateJob removes every score touching the given job. Returns the
// number of rows removed.
func (s *Store) InvalidateJob(ctx context.Context, jobID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM match_scores WHERE job_id = $1`, jobID)
	if err != nil {
		return 0, fmt.Errorf("invalidateJob %s: %w", jobID, err)
	}
	return tag.RowsAffected(), nil
}

// InvalidateCandidate removes every score touching the given candidate.
func (s *Store) InvalidateCandidate(ctx context.Context, candidateID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM match_scores WHERE candidate_id = $1`, candidateID)
	if err != nil {
		return 0, fmt.Errorf("invalidateCandidate %s: %w", candidateID, err)
	}
	return tag.RowsAffected(), nil
}

// SyncApplicationScore denormalises the pair's current score onto an
// existing application row, if one exists. No-op otherwise.
func (s *Store) SyncApplicationScore(ctx context.Context, jobID, candidateID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE applications a
		 SET match_score = ms.overall_score,
		     ai_analysis = ms.breakdown,
		     updated_at  = NOW()
		 FROM match_scores ms
		 WHERE ms.job_id = $1 AND ms.candidate_id = $2
		   AND a.job_id = ms.job_id AND a.candidate_id = ms.candidate_id`,
		jobID, candidateID,
	)
	if err != nil {
		return fmt.Errorf("syncApplicationScore (%s,%s): %w", jobID, candidateID, err)
	}
	return nil
}

// ListMatchesForJob returns stored scores for a job, best first.
func (s *Store) ListMatchesForJob(ctx context.Context, jobID string, limit int) ([]model.MatchScore, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT job_id::text, candidate_id::text, skill_score, experience_score,
		        location_score, salary_score, overall_score, breakdown, computed_at
		 FROM match_scores
		 WHERE job_id = $1
		 ORDER BY overall_score DESC, candidate_id::text
		 LIMIT $2`,
		jobID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listMatchesForJob %s: %w", jobID, err)
	}
	defer rows.Close()
	return scanMatches(rows)
}

// ListMatchesForCandidate returns stored scores for a candidate, best first.
func (s *Store) ListMatchesForCandidate(ctx context.Context, candidateID string, limit int) ([]model.MatchScore, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT job_id::text, candidate_id::text, skill_score, experience_score,
		        location_score, salary_score, overall_score, breakdown, computed_at
		 FROM match_scores
		 WHERE candidate_id = $1
		 ORDER BY overall_score DESC, job_id::text
		 LIMIT $2`,
		candidateID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listMatchesForCandidate %s: %w", candidateID, err)
	}
	defer rows.Close()
	return scanMatches(rows)
}

func scanMatches(rows pgx.Rows) ([]model.MatchScore, error) {
	out := make([]model.MatchScore, 0)
	for rows.Next() {
		var m model.MatchScore
		if err := rows.Scan(
			&m.JobID, &m.CandidateID, &m.SkillScore, &m.ExperienceScore,
			&m.LocationScore, &m.SalaryScore, &m.OverallScore, &m.Breakdown, &m.ComputedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match score: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
