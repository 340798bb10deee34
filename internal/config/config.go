// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing or invalid, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the match service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	// Worker pool & task queue
	Workers         int           // concurrent task workers
	ChunkSize       int           // pairs processed per enumeration chunk
	TaskMaxAttempts int           // retry cap before a task is dead-lettered
	BackoffInitial  time.Duration // first retry wait
	BackoffMax      time.Duration // ceiling for retry waits

	// Resume ingestion
	ResumeMaxBytes int64  // uploads above this are rejected
	ResumeDir      string // local document store root

	// Scoring constants. These are configuration, not gospel — see the
	// weights validation in Validate.
	WeightSkill          int
	WeightExperience     int
	WeightLocation       int
	WeightSalary         int
	LocationMaxKm        float64 // distance at which the location score hits 0
	SalaryMaxGap         int     // absolute gap at which the salary score hits 0 (0 = derive from fraction)
	SalaryMaxGapFraction float64 // fallback: gap cap as a fraction of the job's midpoint salary

	CatalogAutoExtend  bool // create verbatim catalog entries for unmatched mentions
	SweepIntervalHours int  // how often the cron sweep fires
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("MATCH_PORT")
	if port == "" {
		port = "8082"
	}

	cfg := &Config{
		Port:                 port,
		DatabaseURL:          dbURL,
		RedisURL:             redisURL,
		Workers:              4,
		ChunkSize:            500,
		TaskMaxAttempts:      5,
		BackoffInitial:       500 * time.Millisecond,
		BackoffMax:           30 * time.Second,
		ResumeMaxBytes:       5 << 20,
		ResumeDir:            "/var/lib/cleverhire/resumes",
		WeightSkill:          40,
		WeightExperience:     25,
		WeightLocation:       15,
		WeightSalary:         20,
		LocationMaxKm:        100,
		SalaryMaxGap:         0,
		SalaryMaxGapFraction: 0.5,
		CatalogAutoExtend:    false,
		SweepIntervalHours:   24,
	}

	var err error
	if cfg.Workers, err = intEnv("MATCH_WORKERS", cfg.Workers); err != nil {
		return nil, err
	}
	if cfg.ChunkSize, err = intEnv("MATCH_CHUNK_SIZE", cfg.ChunkSize); err != nil {
		return nil, err
	}
	if cfg.TaskMaxAttempts, err = intEnv("TASK_MAX_ATTEMPTS", cfg.TaskMaxAttempts); err != nil {
		return nil, err
	}
	if cfg.SweepIntervalHours, err = intEnv("SWEEP_INTERVAL_HOURS", cfg.SweepIntervalHours); err != nil {
		return nil, err
	}
	if cfg.WeightSkill, err = intEnv("WEIGHT_SKILL", cfg.WeightSkill); err != nil {
		return nil, err
	}
	if cfg.WeightExperience, err = intEnv("WEIGHT_EXPERIENCE", cfg.WeightExperience); err != nil {
		return nil, err
	}
	if cfg.WeightLocation, err = intEnv("WEIGHT_LOCATION", cfg.WeightLocation); err != nil {
		return nil, err
	}
	if cfg.WeightSalary, err = intEnv("WEIGHT_SALARY", cfg.WeightSalary); err != nil {
		return nil, err
	}

	if s := os.Getenv("RESUME_MAX_BYTES"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("RESUME_MAX_BYTES must be a positive integer, got %q", s)
		}
		cfg.ResumeMaxBytes = v
	}
	if s := os.Getenv("RESUME_DIR"); s != "" {
		cfg.ResumeDir = s
	}
	if s := os.Getenv("LOCATION_MAX_KM"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("LOCATION_MAX_KM must be a positive number, got %q", s)
		}
		cfg.LocationMaxKm = v
	}
	if s := os.Getenv("SALARY_MAX_GAP"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("SALARY_MAX_GAP must be a non-negative integer, got %q", s)
		}
		cfg.SalaryMaxGap = v
	}
	if s := os.Getenv("SALARY_MAX_GAP_FRACTION"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 || v > 1 {
			return nil, fmt.Errorf("SALARY_MAX_GAP_FRACTION must be in (0,1], got %q", s)
		}
		cfg.SalaryMaxGapFraction = v
	}
	if s := os.Getenv("BACKOFF_INITIAL_MS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("BACKOFF_INITIAL_MS must be a positive integer, got %q", s)
		}
		cfg.BackoffInitial = time.Duration(v) * time.Millisecond
	}
	if s := os.Getenv("BACKOFF_MAX_MS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("BACKOFF_MAX_MS must be a positive integer, got %q", s)
		}
		cfg.BackoffMax = time.Duration(v) * time.Millisecond
	}
	if s := os.Getenv("CATALOG_AUTO_EXTEND"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("CATALOG_AUTO_EXTEND must be a boolean, got %q", s)
		}
		cfg.CatalogAutoExtend = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces cross-field constraints.
func (c *Config) Validate() error {
	sum := c.WeightSkill + c.WeightExperience + c.WeightLocation + c.WeightSalary
	if sum != 100 {
		return fmt.Errorf("scoring weights must sum to 100, got %d", sum)
	}
	if c.BackoffInitial > c.BackoffMax {
		return fmt.Errorf("BACKOFF_INITIAL_MS must not exceed BACKOFF_MAX_MS")
	}
	return nil
}

// intEnv parses an optional positive-integer environment variable.
func intEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}
