// Package match contains the scoring orchestrator: the background-task
// handlers that react to profile, resume and job changes by recomputing the
// derived match-score index.
//
// Handlers re-read entity state at execution time. Combined with the
// store-side upsert keyed by the unique pair, the last recompute to complete
// always leaves the freshest values — no cross-pair locking needed.
package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"

	"github.com/saisrinu135/cleverhire/internal/extract"
	"github.com/saisrinu135/cleverhire/internal/feature"
	"github.com/saisrinu135/cleverhire/internal/model"
	"github.com/saisrinu135/cleverhire/internal/queue"
	"github.com/saisrinu135/cleverhire/internal/scoring"
	"github.com/saisrinu135/cleverhire/internal/skills"
	"github.com/saisrinu135/cleverhire/internal/store"
)

// eventMatchScored is published on Redis after every committed upsert so the
// gateway can forward live updates.
const eventMatchScored = "EVENT_MATCH_SCORED"

// Options configures an Orchestrator.
type Options struct {
	Params         scoring.Params
	ChunkSize      int   // pairs processed per enumeration chunk
	ResumeMaxBytes int64 // extraction size bound
	AutoExtend     bool  // create catalog entries for unmatched resume mentions
}

// Store is the persistence surface the task handlers consume. *store.Store
// implements it.
type Store interface {
	GetCandidate(ctx context.Context, id string) (*model.CandidateProfile, error)
	GetJob(ctx context.Context, id string) (*model.JobPosting, error)
	ListActiveCandidateIDs(ctx context.Context, afterID string, limit int) ([]string, error)
	ListPublishedJobIDs(ctx context.Context, afterID string, limit int) ([]string, error)
	SaveResumeText(ctx context.Context, profileID, text string, skillIDs []string, completeness int) error
	UpsertMatchScore(ctx context.Context, jobID, candidateID string, res model.ScoreResult, computedAt time.Time) error
	InvalidateJob(ctx context.Context, jobID string) (int64, error)
	InvalidateCandidate(ctx context.Context, candidateID string) (int64, error)
	SyncApplicationScore(ctx context.Context, jobID, candidateID string) error
}

// Orchestrator wires the extractor, normalizer, feature builders, scorer and
// store into the three task entry points.
type Orchestrator struct {
	store      Store
	queue      *queue.Queue
	rdb        *redis.Client
	storage    extract.Storage
	normalizer *skills.Normalizer
	skillRepo  *skills.Repo
	opts       Options
}

// New constructs an Orchestrator.
func New(st Store, q *queue.Queue, rdb *redis.Client, storage extract.Storage,
	normalizer *skills.Normalizer, skillRepo *skills.Repo, opts Options) *Orchestrator {
	if opts.ChunkSize < 1 {
		opts.ChunkSize = 500
	}
	return &Orchestrator{
		store:      st,
		queue:      q,
		rdb:        rdb,
		storage:    storage,
		normalizer: normalizer,
		skillRepo:  skillRepo,
		opts:       opts,
	}
}

// Register mounts the task handlers on a consumer.
func (o *Orchestrator) Register(c *queue.Consumer) {
	c.Handle(queue.TaskExtractResume, o.HandleExtractResume)
	c.Handle(queue.TaskRecomputeJob, o.HandleRecomputeJob)
	c.Handle(queue.TaskRecomputeCandidate, o.HandleRecomputeCandidate)
}

// ─── extract_resume ─────────────────────────────────────────────────────────

// HandleExtractResume pulls the profile's stored resume document, extracts
// its text, mines and normalizes skill mentions, and saves everything back.
// Safe to re-run: it overwrites the same fields. A profile that disappeared
// is discarded without error.
func (o *Orchestrator) HandleExtractResume(ctx context.Context, task queue.Task) error {
	p, err := o.store.GetCandidate(ctx, task.ID)
	if errors.Is(err, store.ErrMissingEntity) {
		log.Printf("[match] extract: profile %s gone — discarding", task.ID)
		return nil
	}
	if err != nil {
		return err
	}
	if !p.Lifecycle.IsActive() {
		log.Printf("[match] extract: profile %s soft-deleted — discarding", task.ID)
		return nil
	}
	if p.ResumeKey == "" {
		return nil
	}

	doc, err := o.storage.Fetch(ctx, p.ResumeKey)
	if err != nil {
		return fmt.Errorf("fetch resume: %w", err)
	}
	defer doc.Close()

	text, err := extract.Extract(doc, o.opts.ResumeMaxBytes)
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat), errors.Is(err, extract.ErrTooLarge):
		// Retrying cannot fix the document. The profile stays usable with
		// an empty text field.
		slog.Warn("resume rejected", "profileId", p.ID, "err", err)
		return backoff.Permanent(err)
	case err != nil:
		return err
	}

	ids := o.resolveMentions(ctx, skills.MineText(text))
	merged := mergeSkillIDs(p.SkillIDs, ids)

	updated := *p
	updated.ResumeText = text
	updated.SkillIDs = merged

	err = o.store.SaveResumeText(ctx, p.ID, text, merged, feature.Completeness(updated))
	if errors.Is(err, store.ErrMissingEntity) {
		log.Printf("[match] extract: profile %s deleted mid-flight — discarding", p.ID)
		return nil
	}
	if err != nil {
		return err
	}

	// Fresh text and skills change every score touching this candidate.
	if err := o.queue.EnqueueRecomputeCandidate(ctx, p.ID); err != nil {
		slog.Warn("enqueue recompute after extraction failed", "profileId", p.ID, "err", err)
	}

	log.Printf("[match] extract: profile %s — %d chars, %d skill(s)", p.ID, len(text), len(merged))
	return nil
}

// resolveMentions normalizes mined mentions, optionally extending the
// catalog with verbatim entries for misses when the operator enabled it.
func (o *Orchestrator) resolveMentions(ctx context.Context, mentions []string) []string {
	if !o.opts.AutoExtend {
		return o.normalizer.NormalizeAll(mentions)
	}

	seen := make(map[string]bool, len(mentions))
	var ids []string
	for _, m := range mentions {
		id, ok := o.normalizer.Normalize(m)
		if !ok {
			created, err := o.skillRepo.Create(ctx, m, "")
			if err != nil {
				slog.Warn("catalog extension failed", "mention", m, "err", err)
				continue
			}
			id = created
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// ─── recompute_job ──────────────────────────────────────────────────────────

// HandleRecomputeJob rescores a job against every actively-looking
// candidate, in chunks. A job that disappeared or was soft-deleted has its
// scores invalidated instead.
func (o *Orchestrator) HandleRecomputeJob(ctx context.Context, task queue.Task) error {
	job, err := o.store.GetJob(ctx, task.ID)
	if errors.Is(err, store.ErrMissingEntity) {
		return o.dropJobScores(ctx, task.ID, "gone")
	}
	if err != nil {
		return err
	}
	if !job.Lifecycle.IsActive() {
		return o.dropJobScores(ctx, job.ID, "soft-deleted")
	}
	if job.Status != model.StatusPublished {
		log.Printf("[match] recompute job %s skipped — status %s", job.ID, job.Status)
		return nil
	}

	jf := feature.BuildJob(*job)
	var scored, skipped int

	after := ""
	for {
		ids, err := o.store.ListActiveCandidateIDs(ctx, after, o.opts.ChunkSize)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			break
		}
		for _, candidateID := range ids {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if o.scorePair(ctx, jf, candidateID) {
				scored++
			} else {
				skipped++
			}
		}
		after = ids[len(ids)-1]
		if len(ids) < o.opts.ChunkSize {
			break
		}
	}

	log.Printf("[match] recompute job %s done — scored=%d skipped=%d", job.ID, scored, skipped)
	return nil
}

// ─── recompute_candidate ────────────────────────────────────────────────────

// HandleRecomputeCandidate rescores a candidate against every published job,
// in chunks. A candidate that disappeared or was soft-deleted has their
// scores invalidated instead.
func (o *Orchestrator) HandleRecomputeCandidate(ctx context.Context, task queue.Task) error {
	p, err := o.store.GetCandidate(ctx, task.ID)
	if errors.Is(err, store.ErrMissingEntity) {
		return o.dropCandidateScores(ctx, task.ID, "gone")
	}
	if err != nil {
		return err
	}
	if !p.Lifecycle.IsActive() {
		return o.dropCandidateScores(ctx, p.ID, "soft-deleted")
	}
	if !p.IsActivelyLooking {
		log.Printf("[match] recompute candidate %s skipped — not actively looking", p.ID)
		return nil
	}

	var scored, skipped int

	after := ""
	for {
		ids, err := o.store.ListPublishedJobIDs(ctx, after, o.opts.ChunkSize)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			break
		}
		for _, jobID := range ids {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Fresh read per pair: the job may have changed or closed
			// since enumeration.
			job, err := o.store.GetJob(ctx, jobID)
			if err != nil || !job.Lifecycle.IsActive() || job.Status != model.StatusPublished {
				skipped++
				continue
			}
			if o.scorePair(ctx, feature.BuildJob(*job), p.ID) {
				scored++
			} else {
				skipped++
			}
		}
		after = ids[len(ids)-1]
		if len(ids) < o.opts.ChunkSize {
			break
		}
	}

	log.Printf("[match] recompute candidate %s done — scored=%d skipped=%d", p.ID, scored, skipped)
	return nil
}

// ─── Pair scoring ───────────────────────────────────────────────────────────

// scorePair re-reads the candidate, scores it against the job features and
// commits the result. Each pair is independently committed; failures are
// logged and skipped so one bad row cannot poison a batch.
func (o *Orchestrator) scorePair(ctx context.Context, jf feature.JobFeatures, candidateID string) bool {
	p, err := o.store.GetCandidate(ctx, candidateID)
	if err != nil || !p.Lifecycle.IsActive() || !p.IsActivelyLooking {
		return false
	}

	res := scoring.Score(feature.BuildCandidate(*p), jf, o.opts.Params)

	err = o.store.UpsertMatchScore(ctx, jf.JobID, candidateID, res, time.Now().UTC())
	if errors.Is(err, store.ErrMissingEntity) {
		// Either side deleted mid-flight: discard the result quietly.
		return false
	}
	if err != nil {
		log.Printf("[match] upsert (%s,%s) error: %v — continuing", jf.JobID, candidateID, err)
		return false
	}

	if err := o.store.SyncApplicationScore(ctx, jf.JobID, candidateID); err != nil {
		slog.Warn("sync application score failed", "jobId", jf.JobID, "candidateId", candidateID, "err", err)
	}
	o.publishScored(ctx, jf.JobID, candidateID, res.OverallScore)
	return true
}

func (o *Orchestrator) dropJobScores(ctx context.Context, jobID, reason string) error {
	n, err := o.store.InvalidateJob(ctx, jobID)
	if err != nil {
		return err
	}
	log.Printf("[match] job %s %s — invalidated %d score(s)", jobID, reason, n)
	return nil
}

func (o *Orchestrator) dropCandidateScores(ctx context.Context, candidateID, reason string) error {
	n, err := o.store.InvalidateCandidate(ctx, candidateID)
	if err != nil {
		return err
	}
	log.Printf("[match] candidate %s %s — invalidated %d score(s)", candidateID, reason, n)
	return nil
}

// publishScored emits the score event for SSE forwarding (non-fatal).
func (o *Orchestrator) publishScored(ctx context.Context, jobID, candidateID string, overall float64) {
	event, _ := json.Marshal(map[string]any{
		"type":        eventMatchScored,
		"jobId":       jobID,
		"candidateId": candidateID,
		"overall":     overall,
	})
	if err := o.rdb.Publish(ctx, eventMatchScored, event).Err(); err != nil {
		slog.Warn("publish EVENT_MATCH_SCORED failed", "err", err)
	}
}

// mergeSkillIDs unions two id lists preserving first-seen order.
func mergeSkillIDs(existing, mined []string) []string {
	seen := make(map[string]bool, len(existing)+len(mined))
	out := make([]string, 0, len(existing)+len(mined))
	for _, id := range existing {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, id := range mined {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
