package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/vastra-shop/vastra/internal/app"
	"github.com/vastra-shop/vastra/internal/auth"
	"github.com/vastra-shop/vastra/internal/catalog"
	"github.com/vastra-shop/vastra/internal/notify"
	"github.com/vastra-shop/vastra/internal/payments"
	"github.com/vastra-shop/vastra/internal/platform/db"
	"github.com/vastra-shop/vastra/internal/shared"
	"github.com/vastra-shop/vastra/internal/sheets"
	"github.com/vastra-shop/vastra/jobs"
)

// queueNotifier pushes notification delivery onto the job queue so the
// request path never waits on the Telegram API. When enqueueing fails
// (redis down) it degrades to a direct send.
type queueNotifier struct {
	queue    *jobs.Client
	fallback *notify.Telegram
	logger   *slog.Logger
}

func (n *queueNotifier) Send(ctx context.Context, text string) {
	if n.queue != nil {
		_, err := n.queue.EnqueueNotify(ctx, text)
		if err == nil {
			return
		}
		n.logger.Warn("notify enqueue failed, sending inline", slog.Any("error", err))
	}
	n.fallback.Send(ctx, text)
}

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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Error("ensure schema", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "vastra_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	authService := auth.NewService(cfg.AdminEmail, cfg.AdminPasswordHash)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo, logger)

	// One-shot correction for prices stored in paise by older imports.
	if converted, err := catalogService.NormalizePrices(ctx); err != nil {
		logger.Warn("startup price normalization", slog.Any("error", err))
	} else if converted > 0 {
		logger.Info("startup price normalization", slog.Int("converted", converted))
	}

	sheetsRepo := sheets.NewRepository(pool)
	sheetClient := sheets.NewGoogleClient(cfg.GoogleCredentials, cfg.GoogleCredentialsFile)
	sheetCache := sheets.NewCache(sheetClient, cfg.SheetCacheTTL)
	sheetsService := sheets.NewService(sheetsRepo, sheetCache, sheetClient, catalogRepo, logger)

	resolver := catalog.NewResolver(catalogRepo, sheetsService, logger)
	catalogHandler := catalog.NewHandler(logger, catalogService, resolver, cfg.RazorpayKeyID)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	telegram := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, logger)
	notifier := &queueNotifier{queue: jobsClient, fallback: telegram, logger: logger}

	gateway := payments.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	paymentsRepo := payments.NewRepository(pool)
	paymentsService := payments.NewService(paymentsRepo, gateway, resolver, notifier, cfg.RazorpayKeyID, cfg.RazorpayWebhookSecret, logger)
	paymentsHandler := payments.NewHandler(logger, paymentsService)

	sheetsHandler := sheets.NewHandler(logger, sheetsService, func(r *http.Request) error {
		_, err := jobsClient.EnqueueSheetSync(r.Context(), "admin")
		return err
	})

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		MiddlewareCfg: app.MiddlewareConfig{
			Logger:         logger,
			Config:         cfg,
			SessionManager: sessionManager,
			CSRFManager:    csrfManager,
		},
		AuthHandler:     authHandler,
		CatalogHandler:  catalogHandler,
		PaymentsHandler: paymentsHandler,
		SheetsHandler:   sheetsHandler,
		JobsHandler:     jobsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
