// cleverhire-match-service
//
// Resume ingestion and candidate/job match scoring.
//
// Three task entry points drive the pipeline:
//   - extract_resume(profile_id)        — PDF → text → normalized skills
//   - recompute_job(job_id)             — rescore a job against all candidates
//   - recompute_candidate(candidate_id) — rescore a candidate against all published jobs
//
// Scores land in match_scores keyed by the unique (job, candidate) pair and
// are republished to Redis for gateway SSE forwarding. A cron sweep keeps the
// index fresh and reloads the skill catalog.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saisrinu135/cleverhire/internal/api"
	"github.com/saisrinu135/cleverhire/internal/config"
	"github.com/saisrinu135/cleverhire/internal/db"
	"github.com/saisrinu135/cleverhire/internal/extract"
	"github.com/saisrinu135/cleverhire/internal/match"
	"github.com/saisrinu135/cleverhire/internal/model"
	"github.com/saisrinu135/cleverhire/internal/queue"
	"github.com/saisrinu135/cleverhire/internal/scheduler"
	"github.com/saisrinu135/cleverhire/internal/scoring"
	"github.com/saisrinu135/cleverhire/internal/skills"
	"github.com/saisrinu135/cleverhire/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[match-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[match-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[match-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[match-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[match-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[match-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[match-service] Redis connected ✓")

	// ── Pipeline wiring ──────────────────────────────────────────────────────
	st := store.New(pool)
	q := queue.New(rdb)
	skillRepo := skills.NewRepo(pool)
	normalizer := skills.NewNormalizer(skills.NewCatalog(nil), skills.DefaultMaxDistance)

	params := scoring.Params{
		Weights: scoring.Weights{
			Skill:      float64(cfg.WeightSkill),
			Experience: float64(cfg.WeightExperience),
			Location:   float64(cfg.WeightLocation),
			Salary:     float64(cfg.WeightSalary),
		},
		MaxDistanceKm:     cfg.LocationMaxKm,
		SalaryMaxGap:      cfg.SalaryMaxGap,
		SalaryGapFraction: cfg.SalaryMaxGapFraction,
		MinYears: map[model.ExperienceLevel]float64{
			model.LevelEntry:     0,
			model.LevelMid:       3,
			model.LevelSenior:    6,
			model.LevelExecutive: 10,
		},
	}

	orch := match.New(st, q, rdb, extract.NewFileStorage(cfg.ResumeDir), normalizer, skillRepo, match.Options{
		Params:         params,
		ChunkSize:      cfg.ChunkSize,
		ResumeMaxBytes: cfg.ResumeMaxBytes,
		AutoExtend:     cfg.CatalogAutoExtend,
	})

	consumer := queue.NewConsumer(q, cfg.Workers, queue.RetryPolicy{
		MaxAttempts:     cfg.TaskMaxAttempts,
		InitialInterval: cfg.BackoffInitial,
		MaxInterval:     cfg.BackoffMax,
	})
	orch.Register(consumer)
	consumer.Start(ctx)

	// ── Scheduler ────────────────────────────────────────────────────────────
	sched := scheduler.New(st, q, normalizer, skillRepo, cfg.ChunkSize, cfg.SweepIntervalHours)
	if err := sched.RefreshCatalog(ctx); err != nil {
		log.Fatalf("[match-service] Initial catalog load: %v", err)
	}
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[match-service] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := api.NewHandler(st, q)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[match-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[match-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[match-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[match-service] Shutdown error: %v", err)
	}

	cancel()
	consumer.Wait()
	log.Println("[match-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "match-service",
		"version": version,
	})
}
