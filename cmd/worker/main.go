package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/praxisledger/praxisledger/internal/app"
	"github.com/praxisledger/praxisledger/internal/finance"
	"github.com/praxisledger/praxisledger/internal/observability"
	"github.com/praxisledger/praxisledger/internal/platform/db"
	"github.com/praxisledger/praxisledger/internal/records"
	"github.com/praxisledger/praxisledger/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	financeCache := finance.NewCache(redisClient, cfg.CacheTTL)
	recordsRepo := records.NewRepository(pool)
	financeService := finance.NewService(recordsRepo, financeCache, finance.ServiceConfig{
		VATRate:         cfg.VATRate,
		AlertWindowDays: cfg.AlertWindowDays,
	})

	metrics := observability.NewMetrics()

	enqueuer, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := enqueuer.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	mailer := &jobs.Mailer{
		Host:   cfg.SMTPHost,
		Port:   cfg.SMTPPort,
		From:   cfg.SMTPFrom,
		Logger: logger,
	}
	alertScan := &jobs.AlertScanJob{
		Provider: financeService,
		Enqueuer: enqueuer,
		Logger:   logger,
		Metrics:  metrics,
	}
	warmup := jobs.NewCacheWarmupJob(financeService, logger, metrics)

	alertTask, err := jobs.NewAlertScanTask(jobs.AlertScanPayload{Recipient: cfg.AlertRecipient})
	if err != nil {
		logger.Error("build alert scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSendEmail, Handler: mailer.Handle},
			{Type: jobs.TaskFinanceAlertScan, Handler: alertScan.Handle},
			{Type: jobs.TaskFinanceCacheWarmup, Handler: warmup.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 6 * * *", Task: alertTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 5 * * *", Task: jobs.NewCacheWarmupTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
