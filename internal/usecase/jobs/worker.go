package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/vibecut/autoeditor/internal/domain/entities"
	"github.com/vibecut/autoeditor/internal/domain/repositories"
	"github.com/vibecut/autoeditor/internal/usecase/planner"
	"github.com/vibecut/autoeditor/pkg/jobcontext"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultWorkerCount  = 2
)

// Worker polls for pending plan jobs and runs the planner over them.
// Claiming is atomic at the repository level, so multiple instances can run
// the worker safely.
type Worker struct {
	jobs    repositories.PlanJobRepository
	plans   repositories.PlanRepository
	videos  repositories.VideoRepository
	planner planner.Service
	logger  *zap.Logger

	pollInterval time.Duration
	workerCount  int
	sem          chan struct{}
	stopChan     chan struct{}
}

// NewWorker creates a plan-job worker
func NewWorker(jobs repositories.PlanJobRepository, plans repositories.PlanRepository, videos repositories.VideoRepository, plannerSvc planner.Service, logger *zap.Logger) *Worker {
	return &Worker{
		jobs:         jobs,
		plans:        plans,
		videos:       videos,
		planner:      plannerSvc,
		logger:       logger,
		pollInterval: defaultPollInterval,
		workerCount:  defaultWorkerCount,
		sem:          make(chan struct{}, defaultWorkerCount),
		stopChan:     make(chan struct{}),
	}
}

// Start runs the polling loop until Stop is called or ctx is cancelled.
// Call in a goroutine.
func (w *Worker) Start(ctx context.Context) {
	if w.logger != nil {
		w.logger.Info("👷 plan job worker started",
			zap.Duration("poll_interval", w.pollInterval),
			zap.Int("workers", w.workerCount))
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// Stop signals the polling loop to exit
func (w *Worker) Stop() {
	close(w.stopChan)
}

func (w *Worker) poll(ctx context.Context) {
	claimed, err := w.jobs.ClaimPending(ctx, w.workerCount)
	if err != nil {
		if w.logger != nil {
			w.logger.Error("failed to claim plan jobs", zap.Error(err))
		}
		return
	}

	for i, job := range claimed {
		// Acquire a worker slot; blocks when all workers are busy
		w.sem <- struct{}{}
		go func(workerID int, job *entities.PlanJob) {
			defer func() { <-w.sem }()
			w.process(ctx, workerID, job)
		}(i, job)
	}
}

func (w *Worker) process(parentCtx context.Context, workerID int, job *entities.PlanJob) {
	ctx, cancel := jobcontext.JobBegin(parentCtx, job.ID, "plan_generation", workerID)
	defer cancel()

	started := time.Now()
	if w.logger != nil {
		w.logger.Info("🛠 processing plan job", zap.String("job", jobcontext.DescribeJob(ctx)))
	}

	outcome, err := w.planner.Plan(ctx, job.Input)
	if err != nil {
		w.fail(ctx, job, fmt.Errorf("planner run failed: %w", err))
		return
	}

	row := entities.NewPlan(job.VideoID, job.Input.Mode, job.Input.Metadata.Duration, outcome.Plan)
	row.UsedModel = outcome.UsedModel
	row.Provider = outcome.Provider
	row.Model = outcome.Model

	// Plan persistence retries through transient database errors; losing a
	// finished plan to a blip would waste the whole model-query budget.
	attempt := 0
	persist := func() error {
		ctx = jobcontext.SetWorkerMetadata(ctx, workerID, attempt)
		attempt++
		return w.plans.Create(ctx, row)
	}
	expBackoff := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	if err := backoff.Retry(persist, backoff.WithMaxRetries(expBackoff, 3)); err != nil {
		w.fail(ctx, job, fmt.Errorf("failed to store plan: %w", err))
		return
	}

	if err := w.jobs.MarkCompleted(ctx, job.ID, row.ID); err != nil {
		if w.logger != nil {
			w.logger.Error("plan stored but job completion not recorded",
				zap.String("job_id", job.ID.String()), zap.Error(err))
		}
		return
	}

	if err := w.videos.UpdateStatus(ctx, job.VideoID, entities.VideoStatusPlanned); err != nil && w.logger != nil {
		w.logger.Warn("failed to mark video planned", zap.Error(err))
	}

	if w.logger != nil {
		w.logger.Info("✅ plan job completed",
			zap.String("job_id", job.ID.String()),
			zap.String("plan_id", row.ID.String()),
			zap.Bool("used_model", outcome.UsedModel),
			zap.Duration("took", time.Since(started)))
	}
}

func (w *Worker) fail(ctx context.Context, job *entities.PlanJob, cause error) {
	if w.logger != nil {
		w.logger.Error("❌ plan job failed",
			zap.String("job", jobcontext.DescribeJob(ctx)),
			zap.Bool("retryable", jobcontext.IsRetryableError(cause)),
			zap.Error(cause))
	}
	if err := w.jobs.MarkFailed(ctx, job.ID, cause.Error()); err != nil && w.logger != nil {
		w.logger.Error("failed to record job failure", zap.Error(err))
	}
}
