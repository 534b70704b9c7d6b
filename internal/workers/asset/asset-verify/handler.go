package assetverify

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rwa-workers/internal/common/logger"
	"rwa-workers/internal/engine/extraction"
	"rwa-workers/internal/engine/verification"
	"rwa-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "asset-verify"

	cacheKeyPrefix = "asset:attrs:"
)

var (
	ErrAssetNotFound        = errors.New("ASSET_NOT_FOUND")
	ErrDatabaseQueryFailed  = errors.New("DATABASE_QUERY_FAILED")
	ErrDatabaseUpdateFailed = errors.New("DATABASE_UPDATE_FAILED")
)

type Handler struct {
	cfg      *Config
	db       *sql.DB
	cache    *redis.Client
	verifier *verification.Engine
	logger   logger.Logger
}

func NewHandler(cfg *Config, db *sql.DB, cache *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		db:       db,
		cache:    cache,
		verifier: verification.NewEngine(),
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		errorCode := "UNKNOWN_ERROR"
		if errors.Is(err, ErrAssetNotFound) {
			errorCode = "ASSET_NOT_FOUND"
		} else if errors.Is(err, ErrDatabaseQueryFailed) {
			errorCode = "DATABASE_QUERY_FAILED"
		} else if errors.Is(err, ErrDatabaseUpdateFailed) {
			errorCode = "DATABASE_UPDATE_FAILED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.AssetID == "" {
		return nil, fmt.Errorf("%w: assetId is required", ErrAssetNotFound)
	}

	attrs, err := h.loadAttributes(ctx, input.AssetID)
	if err != nil {
		return nil, err
	}

	result := h.verifier.Verify(attrs)
	verifiedAt := result.VerifiedAt.Format(time.RFC3339)

	_, err = h.db.ExecContext(ctx, `
		UPDATE assets SET verification_status = $1, updated_at = $2 WHERE id = $3`,
		string(result.Status),
		verifiedAt,
		input.AssetID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: status update failed: %v", ErrDatabaseUpdateFailed, err)
	}

	verificationID := uuid.New().String()
	detailsJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal verification details: %v", ErrDatabaseUpdateFailed, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO asset_transactions (
			id, asset_id, transaction_type, transaction_hash, status, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		verificationID,
		input.AssetID,
		models.TransactionTypeVerification,
		"",
		string(result.Status),
		detailsJSON,
		verifiedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: transaction insert failed: %v", ErrDatabaseUpdateFailed, err)
	}

	h.logger.Info("asset verified", map[string]interface{}{
		"assetId":      input.AssetID,
		"status":       string(result.Status),
		"overallScore": result.OverallScore,
	})

	return &Output{
		AssetID:         input.AssetID,
		VerificationID:  verificationID,
		Status:          string(result.Status),
		OverallScore:    result.OverallScore,
		Breakdown:       result.Breakdown,
		Issues:          result.Issues,
		Recommendations: result.Recommendations,
		NextSteps:       result.NextSteps,
		VerifiedAt:      verifiedAt,
	}, nil
}

// loadAttributes reads the cached attribute set written at intake and
// falls back to the assets table when the cache has expired.
func (h *Handler) loadAttributes(ctx context.Context, assetID string) (extraction.AttributeSet, error) {
	if h.cache != nil {
		cached, err := h.cache.Get(ctx, cacheKeyPrefix+assetID).Result()
		if err == nil {
			var attrs extraction.AttributeSet
			if err := json.Unmarshal([]byte(cached), &attrs); err == nil {
				return attrs, nil
			}
			h.logger.Warn("discarding unreadable cached attributes", map[string]interface{}{
				"assetId": assetID,
			})
		} else if !errors.Is(err, redis.Nil) {
			h.logger.Warn("attribute cache read failed", map[string]interface{}{
				"error":   err,
				"assetId": assetID,
			})
		}
	}

	var (
		attrs    extraction.AttributeSet
		category string
		value    sql.NullFloat64
		location sql.NullString
	)
	err := h.db.QueryRowContext(ctx, `
		SELECT asset_type, description, estimated_value, location
		FROM assets WHERE id = $1`, assetID).
		Scan(&category, &attrs.Description, &value, &location)
	if errors.Is(err, sql.ErrNoRows) {
		return attrs, fmt.Errorf("%w: asset %s", ErrAssetNotFound, assetID)
	}
	if err != nil {
		return attrs, fmt.Errorf("%w: asset lookup failed: %v", ErrDatabaseQueryFailed, err)
	}

	attrs.Category = extraction.Category(category)
	if value.Valid {
		attrs.EstimatedValue = &value.Float64
	}
	if location.Valid {
		attrs.Location = location.String
	}
	return attrs, nil
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
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
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
