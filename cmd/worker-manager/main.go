// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"poster-workers/internal/analytics"
	"poster-workers/internal/branding"
	"poster-workers/internal/common/aws"
	"poster-workers/internal/common/camunda"
	"poster-workers/internal/common/config"
	"poster-workers/internal/common/database"
	"poster-workers/internal/common/httpclient"
	"poster-workers/internal/common/logger"
	"poster-workers/internal/common/observability"
	"poster-workers/internal/poster"
	"poster-workers/internal/share"

	ep "poster-workers/internal/workers/communication/email-poster"
	bc "poster-workers/internal/workers/poster/build-caption"
	cp "poster-workers/internal/workers/poster/compose-poster"
	ps "poster-workers/internal/workers/poster/publish-share"
	ru "poster-workers/internal/workers/poster/record-usage"
	st "poster-workers/internal/workers/poster/select-template"
	vbp "poster-workers/internal/workers/poster/validate-branding-profile"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
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
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	tracing := observability.NewTracing("worker-manager", os.Getenv("JAEGER_ENDPOINT"))
	defer tracing.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

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
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- AWS clients (optional; analytics fan-out and poster emails) ---
	var sesClient *aws.SESClient
	var snsClient *aws.SNSClient
	if cfg.Notifications.AWSRegion != "" {
		sesClient, err = aws.NewSESClient(ctx, cfg.Notifications.AWSRegion)
		if err != nil {
			zapLog.Warn("SES client unavailable, email-poster disabled", zap.Error(err))
		}
		snsClient, err = aws.NewSNSClient(ctx, cfg.Notifications.AWSRegion)
		if err != nil {
			zapLog.Warn("SNS client unavailable, usage fan-out disabled", zap.Error(err))
		}
	}

	// --- Usage recorder: buffered queue, fire and forget ---
	sinks := []analytics.Sink{
		analytics.NewESSink(esClient, cfg.Database.Elasticsearch.UsageIndex),
	}
	if snsClient != nil && cfg.Notifications.SNSTopicARN != "" {
		sinks = append(sinks, analytics.NewSNSSink(snsClient, cfg.Notifications.SNSTopicARN))
	}
	recorder := analytics.NewRecorder(256, log, sinks...)

	// --- Shared domain services ---
	compositor, err := poster.NewCompositor(cfg.Poster.WatermarkText, cfg.Poster.JPEGQuality)
	if err != nil {
		zapLog.Fatal("compositor initialization failed", zap.Error(err))
	}
	fetcher := httpclient.NewClient(time.Duration(cfg.Poster.FetchTimeout) * time.Millisecond)
	profiles := branding.NewSQLRepository(pg.DB, redisClient.Client, log)
	publisher := share.NewPublisher(nil, share.NewTargets(cfg.Share.PlatformTemplates), recorder, log)

	zapLog.Info("All clients and services initialized")

	var workers []*camunda.Worker
	register := func(taskType string, handler camunda.JobHandler) {
		wcfg := cfg.Workers[taskType]
		if !wcfg.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		w := camunda.NewWorker(zeebeClient, taskType, wcfg.MaxJobsActive, handler, zapLog)
		w.Start()
		workers = append(workers, w)
	}
	workerTimeout := func(taskType string) time.Duration {
		ms := cfg.Workers[taskType].Timeout
		if ms <= 0 {
			ms = 10000
		}
		return time.Duration(ms) * time.Millisecond
	}

	// --- Poster pipeline workers ---
	register(vbp.TaskType, vbp.NewHandler(
		&vbp.Config{Timeout: workerTimeout(vbp.TaskType)},
		profiles, log,
	))

	register(st.TaskType, st.NewHandler(
		&st.Config{Timeout: workerTimeout(st.TaskType)},
		pg.DB, log,
	))

	cpCfg := &cp.Config{
		Timeout:   workerTimeout(cp.TaskType),
		OutputDir: cfg.Poster.OutputDir,
	}
	register(cp.TaskType, cp.NewHandler(
		cpCfg,
		cp.NewService(cpCfg, compositor, fetcher, profiles, log),
		log,
	))

	register(bc.TaskType, bc.NewHandler(
		&bc.Config{Timeout: workerTimeout(bc.TaskType)},
		bc.NewService(pg.DB, profiles, log),
		log,
	))

	register(ps.TaskType, ps.NewHandler(
		&ps.Config{
			Timeout:   workerTimeout(ps.TaskType),
			OutputDir: cfg.Poster.OutputDir,
		},
		publisher, log,
	))

	register(ru.TaskType, ru.NewHandler(
		&ru.Config{Timeout: workerTimeout(ru.TaskType)},
		recorder, log,
	))

	// --- Communication workers ---
	if sesClient != nil {
		epCfg := &ep.Config{
			Timeout:     workerTimeout(ep.TaskType),
			SenderEmail: cfg.Notifications.SenderEmail,
		}
		register(ep.TaskType, ep.NewHandler(
			epCfg,
			ep.NewService(epCfg, sesClient, recorder, log),
			log,
		))
	}

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & metrics server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}

	// Drain queued usage events before the ES/SNS clients go away.
	recorder.Close()

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
