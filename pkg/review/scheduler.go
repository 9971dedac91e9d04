package review

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/robfig/cron/v3"

	"mercator-hq/meridian/pkg/compliance"
	"mercator-hq/meridian/pkg/deal"
	"mercator-hq/meridian/pkg/entity"
	"mercator-hq/meridian/pkg/evidence"
)

// reviewScoreFloor mirrors the REVIEW gate threshold: deals whose
// re-checked score falls below it are flagged for re-review.
const reviewScoreFloor = 50

// Config configures the re-review scheduler.
type Config struct {
	// Schedule is a standard cron expression (e.g., "0 6 * * *" for daily
	// at 6 AM). Empty disables scheduling; Run can still be called directly.
	Schedule string

	// EntityDir holds one YAML entity document per entity, named by slug.
	EntityDir string
}

// Result summarizes one re-review pass.
type Result struct {
	Reviewed int `json:"reviewed"`
	Flagged  int `json:"flagged"`
	Skipped  int `json:"skipped"`
}

// Reviewer re-runs the compliance validator over open deals on a schedule.
type Reviewer struct {
	config    Config
	manager   *deal.Manager
	validator *compliance.Validator
	cron      *cron.Cron
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewReviewer creates a re-review scheduler.
func NewReviewer(config Config, manager *deal.Manager, validator *compliance.Validator) *Reviewer {
	return &Reviewer{
		config:    config,
		manager:   manager,
		validator: validator,
		cron:      cron.New(),
		logger:    slog.Default().With("component", "review.scheduler"),
	}
}

// Start begins scheduled re-reviews. An empty schedule is a no-op.
func (r *Reviewer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config.Schedule == "" {
		r.logger.Info("review schedule not configured, skipping scheduler")
		return nil
	}
	if _, err := cron.ParseStandard(r.config.Schedule); err != nil {
		return fmt.Errorf("invalid review schedule %q: %w", r.config.Schedule, err)
	}
	if _, err := r.cron.AddFunc(r.config.Schedule, func() {
		if _, err := r.Run(ctx); err != nil {
			r.logger.Error("scheduled re-review failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule re-review: %w", err)
	}

	r.cron.Start()
	r.running = true
	r.logger.Info("review scheduler started", "schedule", r.config.Schedule)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()
	return nil
}

// Stop stops the scheduler and waits for a running pass to finish.
func (r *Reviewer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		<-r.cron.Stop().Done()
		r.running = false
		r.logger.Info("review scheduler stopped")
	}
}

// Run executes one re-review pass over every non-terminal deal. Deals
// whose entity document cannot be found are skipped, not failed: the
// reviewer is advisory and must not abort the pass over one missing file.
func (r *Reviewer) Run(ctx context.Context) (*Result, error) {
	records, err := r.manager.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals for re-review: %w", err)
	}

	result := &Result{}
	for _, record := range records {
		if record.State.Terminal() || record.State == deal.StateExecuted {
			continue
		}

		e, err := r.loadEntity(record.EntityName)
		if err != nil {
			r.logger.Warn("skipping deal re-review, entity document unavailable",
				"deal_id", record.ID,
				"entity", record.EntityName,
				"error", err,
			)
			result.Skipped++
			continue
		}

		report := r.validator.Check(e, nil, nil)
		result.Reviewed++
		if report.Score() < reviewScoreFloor {
			result.Flagged++
			r.logger.Warn("deal compliance degraded since last transition",
				"deal_id", record.ID,
				"entity", record.EntityName,
				"state", record.State,
				"score", report.Score(),
				"errors", report.Errors(),
				"warnings", report.Warnings(),
			)
		}
	}

	r.logger.Info("re-review pass completed",
		"reviewed", result.Reviewed,
		"flagged", result.Flagged,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (r *Reviewer) loadEntity(name string) (*entity.Entity, error) {
	path := filepath.Join(r.config.EntityDir, evidence.Slug(name)+".yaml")
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return entity.LoadEntity(path)
}
