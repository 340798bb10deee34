// Package scheduler wires up the cron job that keeps the derived match-score
// index fresh: a periodic sweep re-enqueues every published job for
// recomputation and reloads the skill-catalog snapshot.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/saisrinu135/cleverhire/internal/queue"
	"github.com/saisrinu135/cleverhire/internal/skills"
	"github.com/saisrinu135/cleverhire/internal/store"
)

// Scheduler wraps robfig/cron and manages the sweep loop.
type Scheduler struct {
	cron       *cron.Cron
	store      *store.Store
	queue      *queue.Queue
	normalizer *skills.Normalizer
	skillRepo  *skills.Repo
	chunkSize  int
	spec       string // cron spec, e.g. "@every 24h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(st *store.Store, q *queue.Queue, normalizer *skills.Normalizer,
	skillRepo *skills.Repo, chunkSize, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DefaultLogger)),
		store:      st,
		queue:      q,
		normalizer: normalizer,
		skillRepo:  skillRepo,
		chunkSize:  chunkSize,
		spec:       fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also refreshes the
// catalog immediately so the normalizer never runs on an empty snapshot.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// RefreshCatalog loads the skill catalog and swaps it into the normalizer.
func (s *Scheduler) RefreshCatalog(ctx context.Context) error {
	entries, err := s.skillRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load skill catalog: %w", err)
	}
	s.normalizer.SetCatalog(skills.NewCatalog(entries))
	log.Printf("[scheduler] Skill catalog refreshed — %d entr(ies)", len(entries))
	return nil
}

// runSweep refreshes the catalog and enqueues a recompute for every
// published job. Enqueueing ids rather than scoring inline keeps the sweep
// cheap; the worker pool absorbs the actual load.
func (s *Scheduler) runSweep(ctx context.Context) {
	log.Println("[scheduler] Sweep started")

	if err := s.RefreshCatalog(ctx); err != nil {
		log.Printf("[scheduler] RefreshCatalog error: %v", err)
	}

	var enqueued int
	after := ""
	for {
		ids, err := s.store.ListPublishedJobIDs(ctx, after, s.chunkSize)
		if err != nil {
			log.Printf("[scheduler] ListPublishedJobIDs error: %v", err)
			return
		}
		if len(ids) == 0 {
			break
		}
		for _, jobID := range ids {
			if err := s.queue.EnqueueRecomputeJob(ctx, jobID); err != nil {
				log.Printf("[scheduler] Enqueue job %s error: %v — continuing", jobID, err)
				continue
			}
			enqueued++
		}
		after = ids[len(ids)-1]
		if len(ids) < s.chunkSize {
			break
		}
	}

	log.Printf("[scheduler] Sweep complete — %d job(s) enqueued", enqueued)
}
