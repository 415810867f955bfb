package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/praxisledger/praxisledger/internal/finance"
	"github.com/praxisledger/praxisledger/internal/observability"
)

// OverviewProvider yields the derived finance overview.
type OverviewProvider interface {
	Overview(ctx context.Context, filter finance.OverviewFilter) (finance.Overview, error)
	Receivables(ctx context.Context) (finance.Receivables, error)
}

// CacheWarmupJob pre-builds the report caches so the first dashboard
// request of the day is served hot.
type CacheWarmupJob struct {
	Provider OverviewProvider
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	clock    func() time.Time
}

// NewCacheWarmupJob initialises the warmup handler.
func NewCacheWarmupJob(provider OverviewProvider, logger *slog.Logger, metrics *observability.Metrics) *CacheWarmupJob {
	return &CacheWarmupJob{
		Provider: provider,
		Logger:   logger,
		Metrics:  metrics,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// NewCacheWarmupTask constructs the warmup task.
func NewCacheWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskFinanceCacheWarmup, nil)
}

// Handle executes the warmup.
func (j *CacheWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Provider == nil {
		return errors.New("cache warmup: handler not configured")
	}
	start := time.Now()
	logger := j.logger()

	err := j.warm(ctx)
	j.Metrics.JobProcessed(TaskFinanceCacheWarmup, err)
	if err != nil {
		logger.Error("cache warmup failed", slog.Any("error", err))
		return err
	}
	logger.Info("completed cache warmup", slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *CacheWarmupJob) warm(ctx context.Context) error {
	if _, err := j.Provider.Overview(ctx, finance.OverviewFilter{}); err != nil {
		return err
	}
	year := j.now().Year()
	if _, err := j.Provider.Overview(ctx, finance.OverviewFilter{Year: &year}); err != nil {
		return err
	}
	_, err := j.Provider.Receivables(ctx)
	return err
}

func (j *CacheWarmupJob) now() time.Time {
	if j != nil && j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

func (j *CacheWarmupJob) logger() *slog.Logger {
	if j != nil && j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
