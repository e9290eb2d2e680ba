package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/vastra-shop/vastra/internal/app"
	"github.com/vastra-shop/vastra/internal/catalog"
	jobmetrics "github.com/vastra-shop/vastra/internal/jobs"
	"github.com/vastra-shop/vastra/internal/notify"
	"github.com/vastra-shop/vastra/internal/platform/db"
	"github.com/vastra-shop/vastra/internal/sheets"
	"github.com/vastra-shop/vastra/jobs"
)

func main() {
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
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	catalogRepo := catalog.NewRepository(pool)
	sheetsRepo := sheets.NewRepository(pool)
	sheetClient := sheets.NewGoogleClient(cfg.GoogleCredentials, cfg.GoogleCredentialsFile)
	sheetCache := sheets.NewCache(sheetClient, cfg.SheetCacheTTL)
	sheetsService := sheets.NewService(sheetsRepo, sheetCache, sheetClient, catalogRepo, logger)

	telegram := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, logger)
	metrics := jobmetrics.NewMetrics(nil)

	warmupJob := jobs.NewSheetWarmupJob(sheetsService, logger, metrics)
	syncJob := jobs.NewSheetSyncJob(sheetsService, logger, metrics)
	notifyJob := jobs.NewNotifySendJob(telegram, logger, metrics)

	warmupTask, err := jobs.NewSheetWarmupTask(time.Now().UTC())
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSheetWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskSheetSync, Handler: syncJob.Handle},
			{Type: jobs.TaskNotifySend, Handler: notifyJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/4 * * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(2)}},
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
