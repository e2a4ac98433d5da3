package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campgo/internal/cache"
	"campgo/internal/config"
	"campgo/internal/events"
	"campgo/internal/http/handlers"
	applog "campgo/internal/log"
	"campgo/internal/mail"
	"campgo/internal/media"
	"campgo/internal/repos"
	"campgo/internal/telemetry"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := applog.New(cfg.LogFile, cfg.Production())
	if err != nil {
		// the log file may be unwritable; fall back to stdout only
		if logger, err = applog.New("", cfg.Production()); err != nil {
			panic(err)
		}
		logger.Warn("could not open log file", zap.String("file", cfg.LogFile))
	}
	defer logger.Sync()
	applog.SetLogger(logger)

	ctx := context.Background()

	flushSentry, err := telemetry.InitSentry(cfg.SentryDSN, cfg.Env)
	if err != nil {
		logger.Fatal("Failed to initialize Sentry", zap.Error(err))
	}
	defer flushSentry()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTelEndpoint, logger)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := repos.OpenDB(ctx, cfg.DBDSN, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	infra := handlers.Infra{
		Media:  media.NewDisk(cfg.MediaDir, cfg.MediaBaseURL),
		Logger: logger,
	}

	// Optional collaborators: each one degrades to a no-op when unconfigured.
	if cfg.RedisAddr != "" {
		rdb, err := cache.InitRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, logger)
		if err != nil {
			logger.Warn("product cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			infra.Cache = cache.NewRedis(rdb, cfg.ProductCacheTTL, logger)
		}
	}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.InitProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			logger.Warn("order events disabled", zap.Error(err))
		} else {
			pub := events.NewKafka(producer, cfg.KafkaTopic, logger)
			defer pub.Close()
			infra.Events = pub
		}
	}

	var sender mail.Sender = mail.LogSender{Logger: logger}
	if cfg.SMTPHost != "" {
		sender = mail.NewSMTP(mail.SMTPConfig{
			Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.SMTPFrom,
		})
	}
	notifier := mail.NewNotifier(sender, logger)
	infra.Notify = notifier

	deps := handlers.NewDeps(db, cfg, infra)
	app := handlers.NewApp(cfg, deps, handlers.DefaultLimits)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	logger.Info("CampGo API started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := notifier.Wait(ctx); err != nil {
		logger.Warn("pending emails dropped", zap.Error(err))
	}
	logger.Info("Server exited")
}
