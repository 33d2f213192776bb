// cmd/portal-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"internship-portal/internal/api"
	"internship-portal/internal/common/aws"
	"internship-portal/internal/common/config"
	"internship-portal/internal/common/database"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/common/observability"

	aid "internship-portal/internal/application/allocate-application-id"
	car "internship-portal/internal/application/create-application-record"
	ia "internship-portal/internal/application/index-application"
	sn "internship-portal/internal/application/send-notification"
	sa "internship-portal/internal/application/submit-application"
	vad "internship-portal/internal/application/validate-application-data"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console", "")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting internship portal...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name, trace.WithSampler(trace.ParentBased(trace.AlwaysSample())))
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("schema setup failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Sequence allocator ---
	seqCfg := aid.LoadConfig(cfg.Sequence)
	var allocator aid.Allocator
	switch cfg.Sequence.Backend {
	case config.SequenceBackendRedis:
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		allocator = aid.NewRedisAllocator(redis.GetClient(), seqCfg.KeyPrefix)
	default:
		allocator = aid.NewPostgresAllocator(pg.GetDB())
	}
	ids := aid.NewGenerator(seqCfg, allocator, log)

	// --- Elasticsearch (optional) ---
	var indexer *ia.Indexer
	if cfg.Database.Elasticsearch.Enabled {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Warn("elasticsearch unavailable, search disabled", zap.Error(err))
		} else {
			indexer = ia.NewIndexer(ia.LoadConfig(cfg.Database.Elasticsearch, cfg.Search), es.Client, log)
			if err := indexer.EnsureIndex(ctx); err != nil {
				zapLog.Warn("elasticsearch index setup failed", zap.Error(err))
			}
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	// --- AWS notification clients ---
	var sesClient aws.SESService
	var snsClient aws.SNSService
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SNS.Enabled {
		awsCfg, err := aws.LoadConfig(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws config load failed", zap.Error(err))
		}
		if cfg.Notifications.Email.Enabled {
			sesClient = aws.NewSESClientFromConfig(awsCfg)
		}
		if cfg.Notifications.SNS.Enabled {
			snsClient = aws.NewSNSClientFromConfig(awsCfg)
		}
		zapLog.Info("AWS notification clients initialized",
			zap.Bool("email", cfg.Notifications.Email.Enabled),
			zap.Bool("sns", cfg.Notifications.SNS.Enabled),
		)
	} else {
		zapLog.Warn("notifications disabled, no emails will be sent")
	}
	dispatcher := sn.NewDispatcher(sn.LoadConfig(cfg.Notifications), sesClient, snsClient, log)

	// --- Submission workflow ---
	validator, err := vad.NewValidator(vad.LoadConfig(cfg.Validation), log)
	if err != nil {
		zapLog.Fatal("validator setup failed", zap.Error(err))
	}
	repo := car.NewRepository(car.LoadConfig(), pg.GetDB(), log)

	var searchIndexer sa.SearchIndexer
	deps := api.Dependencies{
		Reader:   repo,
		Database: pg,
	}
	if indexer != nil {
		searchIndexer = indexer
		deps.Search = indexer
	}
	deps.Submitter = sa.NewWorkflow(validator, repo, ids, dispatcher, searchIndexer, obs, log)

	// --- HTTP server ---
	server := api.NewServer(api.LoadConfig(cfg.App, cfg.Server, cfg.Search), deps, log)

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	server.StartCleanup(cleanupCtx, 10*time.Minute)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")

	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		zapLog.Warn("pending notifications abandoned", zap.Error(err))
	}
	if indexer != nil {
		if err := indexer.Wait(shutdownCtx); err != nil {
			zapLog.Warn("pending index writes abandoned", zap.Error(err))
		}
	}

	zapLog.Info("Internship portal stopped")
}
