package portfoliostats

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rwa-workers/internal/common/logger"
	"rwa-workers/internal/engine/verification"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "portfolio-stats"

	cacheKeyPrefix = "portfolio:stats:"
)

var (
	ErrUserRequired        = errors.New("USER_ID_REQUIRED")
	ErrDatabaseQueryFailed = errors.New("DATABASE_QUERY_FAILED")
)

type Handler struct {
	cfg    *Config
	db     *sql.DB
	cache  *redis.Client
	logger logger.Logger
}

func NewHandler(cfg *Config, db *sql.DB, cache *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		cfg:    cfg,
		db:     db,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "DATABASE_QUERY_FAILED"
		if errors.Is(err, ErrUserRequired) {
			errorCode = "USER_ID_REQUIRED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrUserRequired)
	}

	if cached := h.readCache(ctx, input.UserID); cached != nil {
		return cached, nil
	}

	output := &Output{
		UserID:       input.UserID,
		StatusCounts: map[string]int{},
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	err := h.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(estimated_value), 0),
		       COUNT(token_id)
		FROM assets WHERE user_id = $1`, input.UserID).
		Scan(&output.TotalAssets, &output.TotalValue, &output.TokenizedAssets)
	if err != nil {
		return nil, fmt.Errorf("%w: portfolio totals failed: %v", ErrDatabaseQueryFailed, err)
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT verification_status, COUNT(*)
		FROM assets WHERE user_id = $1
		GROUP BY verification_status`, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: status counts failed: %v", ErrDatabaseQueryFailed, err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: scan status count: %v", ErrDatabaseQueryFailed, err)
		}
		output.StatusCounts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: status counts failed: %v", ErrDatabaseQueryFailed, err)
	}

	if output.TotalAssets > 0 {
		verified := output.StatusCounts[string(verification.StatusVerified)]
		output.VerificationRate = float64(verified) / float64(output.TotalAssets)
		output.TokenizationRate = float64(output.TokenizedAssets) / float64(output.TotalAssets)
	}

	h.writeCache(ctx, input.UserID, output)

	h.logger.Info("portfolio stats computed", map[string]interface{}{
		"userId":      input.UserID,
		"totalAssets": output.TotalAssets,
		"totalValue":  output.TotalValue,
	})

	return output, nil
}

func (h *Handler) readCache(ctx context.Context, userID string) *Output {
	if h.cache == nil {
		return nil
	}
	cached, err := h.cache.Get(ctx, cacheKeyPrefix+userID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("stats cache read failed", map[string]interface{}{
				"error":  err,
				"userId": userID,
			})
		}
		return nil
	}
	var output Output
	if err := json.Unmarshal([]byte(cached), &output); err != nil {
		h.logger.Warn("discarding unreadable cached stats", map[string]interface{}{
			"userId": userID,
		})
		return nil
	}
	return &output
}

func (h *Handler) writeCache(ctx context.Context, userID string, output *Output) {
	if h.cache == nil {
		return
	}
	payload, err := json.Marshal(output)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, cacheKeyPrefix+userID, payload, h.cfg.CacheTTL).Err(); err != nil {
		h.logger.Warn("stats cache write failed", map[string]interface{}{
			"error":  err,
			"userId": userID,
		})
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
