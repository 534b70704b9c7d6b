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

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rwa-workers/internal/common/aws"
	"rwa-workers/internal/common/camunda"
	"rwa-workers/internal/common/config"
	"rwa-workers/internal/common/database"
	"rwa-workers/internal/common/logger"
	"rwa-workers/internal/common/observability"

	ai "rwa-workers/internal/workers/asset/asset-intake"
	as "rwa-workers/internal/workers/asset/asset-search"
	at "rwa-workers/internal/workers/asset/asset-tokenize"
	av "rwa-workers/internal/workers/asset/asset-verify"
	ps "rwa-workers/internal/workers/asset/portfolio-stats"
	sn "rwa-workers/internal/workers/communication/send-notification"

	"rwa-workers/internal/engine/minting"
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
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         30 * time.Second,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	var activeWorkers []*camunda.CamundaWorker

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

	// --- Init Redis with retry ---
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

	// --- Init AWS Clients (optional channels) ---
	var sesClient *aws.SESClient
	if cfg.AWS.SES.Enabled {
		sesClient, err = aws.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
	}
	var snsClient *aws.SNSClient
	if cfg.AWS.SNS.Enabled {
		snsClient, err = aws.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
	}

	minter := minting.NewMinter(cfg.Tokenization)
	assetIndex := cfg.Database.Elasticsearch.AssetIndex

	register := func(taskType string, handlerFunc func(worker.JobClient, entities.Job)) {
		wcfg := cfg.Workers[taskType]
		instrumented := func(jobClient worker.JobClient, job entities.Job) {
			start := time.Now()
			handlerFunc(jobClient, job)
			obs.RecordJobProcessed(context.Background(), taskType)
			obs.RecordJobDuration(context.Background(), time.Since(start), taskType)
		}
		w := camunda.NewWorker(zeebeClient, taskType, camunda.WorkerOptions{
			MaxJobsActive: wcfg.MaxJobsActive,
			JobTimeout:    time.Duration(wcfg.Timeout) * time.Millisecond,
		}, instrumented, zapLog)
		activeWorkers = append(activeWorkers, w)
	}

	// --- Register Workers ---

	if cfg.Workers[ai.TaskType].Enabled {
		handler := ai.NewHandler(
			&ai.Config{
				Timeout:  time.Duration(cfg.Workers[ai.TaskType].Timeout) * time.Millisecond,
				CacheTTL: time.Hour,
			},
			pg.DB, redis.Client, esClient.Client, assetIndex, log,
		)
		register(ai.TaskType, handler.Handle)
	}

	if cfg.Workers[av.TaskType].Enabled {
		handler := av.NewHandler(
			&av.Config{
				Timeout: time.Duration(cfg.Workers[av.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, redis.Client, log,
		)
		register(av.TaskType, handler.Handle)
	}

	if cfg.Workers[at.TaskType].Enabled {
		handler := at.NewHandler(
			&at.Config{
				Timeout: time.Duration(cfg.Workers[at.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, minter, obs, log,
		)
		register(at.TaskType, handler.Handle)
	}

	if cfg.Workers[as.TaskType].Enabled {
		handler := as.NewHandler(
			&as.Config{
				Timeout:     time.Duration(cfg.Workers[as.TaskType].Timeout) * time.Millisecond,
				DefaultSize: 20,
				MaxSize:     100,
			},
			esClient.Client, assetIndex, log,
		)
		register(as.TaskType, handler.Handle)
	}

	if cfg.Workers[ps.TaskType].Enabled {
		handler := ps.NewHandler(
			&ps.Config{
				Timeout:  time.Duration(cfg.Workers[ps.TaskType].Timeout) * time.Millisecond,
				CacheTTL: 60 * time.Second,
			},
			pg.DB, redis.Client, log,
		)
		register(ps.TaskType, handler.Handle)
	}

	if cfg.Workers[sn.TaskType].Enabled {
		var email sn.EmailSender
		if sesClient != nil {
			email = sesClient
		}
		var publisher sn.TopicPublisher
		if snsClient != nil {
			publisher = snsClient
		}
		handler := sn.NewHandler(
			&sn.Config{
				Timeout:      time.Duration(cfg.Workers[sn.TaskType].Timeout) * time.Millisecond,
				FromEmail:    cfg.AWS.SES.FromEmail,
				TopicARN:     cfg.AWS.SNS.TopicARN,
				EmailEnabled: cfg.AWS.SES.Enabled,
				SMSEnabled:   cfg.AWS.SNS.Enabled,
			},
			email, publisher, log,
		)
		register(sn.TaskType, handler.Handle)
	}

	// --- Health and metrics endpoints ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
		})

		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := pg.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
		})

		http.Handle("/metrics", promhttp.Handler())

		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range activeWorkers {
		w.Stop()
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
