package assetintake

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"rwa-workers/internal/common/logger"
	"rwa-workers/internal/common/validation"
	"rwa-workers/internal/engine/extraction"
	"rwa-workers/internal/engine/verification"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "asset-intake"

	cacheKeyPrefix = "asset:attrs:"
)

var (
	ErrValidationFailed     = errors.New("INTAKE_VALIDATION_FAILED")
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
)

const inputSchema = `{
	"type": "object",
	"required": ["userId", "description"],
	"properties": {
		"userId": {"type": "string", "minLength": 1},
		"walletAddress": {"type": "string"},
		"email": {"type": "string"},
		"description": {"type": "string", "minLength": 1}
	}
}`

type Handler struct {
	cfg       *Config
	db        *sql.DB
	cache     *redis.Client
	search    *elasticsearch.Client
	assetIdx  string
	extractor *extraction.Engine
	logger    logger.Logger
}

// NewHandler wires the intake worker. The search client may be nil;
// indexing is then skipped.
func NewHandler(cfg *Config, db *sql.DB, cache *redis.Client, search *elasticsearch.Client, assetIndex string, log logger.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		db:        db,
		cache:     cache,
		search:    search,
		assetIdx:  assetIndex,
		extractor: extraction.NewDefaultEngine(),
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		if errors.Is(err, ErrValidationFailed) {
			errorCode = "INTAKE_VALIDATION_FAILED"
		} else if errors.Is(err, ErrDatabaseInsertFailed) {
			errorCode = "DATABASE_INSERT_FAILED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	document, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal input: %v", ErrValidationFailed, err)
	}
	result, err := validation.ValidateJSON(document, inputSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: schema check failed: %v", ErrValidationFailed, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, result.Summary())
	}

	attrs := h.extractor.Extract(input.Description)
	questions := h.extractor.FollowUpQuestions(attrs)
	jurisdiction := verification.Jurisdiction(attrs.Location)

	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO users (id, wallet_address, email, jurisdiction, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			wallet_address = EXCLUDED.wallet_address,
			email = EXCLUDED.email,
			jurisdiction = EXCLUDED.jurisdiction`,
		input.UserID,
		input.WalletAddress,
		input.Email,
		jurisdiction,
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: user upsert failed: %v", ErrDatabaseInsertFailed, err)
	}

	assetID := uuid.New().String()
	// Requirements holds the extraction artifacts; follow-up questions
	// only travel in the job output.
	requirementsJSON, err := json.Marshal(map[string]interface{}{
		"confidenceScore": attrs.ConfidenceScore,
		"sentiment":       attrs.Sentiment,
		"entities":        attrs.Entities,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal requirements: %v", ErrDatabaseInsertFailed, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO assets (
			id, user_id, asset_type, description, estimated_value,
			location, verification_status, requirements, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		assetID,
		input.UserID,
		string(attrs.Category),
		attrs.Description,
		attrs.EstimatedValue,
		attrs.Location,
		string(verification.StatusPending),
		requirementsJSON,
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: asset insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	h.cacheAttributes(ctx, assetID, attrs)
	h.indexAsset(ctx, assetID, input.UserID, attrs, createdAt)

	h.logger.Info("asset intake recorded", map[string]interface{}{
		"assetId":         assetID,
		"userId":          input.UserID,
		"assetType":       string(attrs.Category),
		"confidenceScore": attrs.ConfidenceScore,
		"jurisdiction":    jurisdiction,
	})

	return &Output{
		AssetID:            assetID,
		AssetType:          string(attrs.Category),
		Description:        attrs.Description,
		EstimatedValue:     attrs.EstimatedValue,
		Location:           attrs.Location,
		ConfidenceScore:    attrs.ConfidenceScore,
		FollowUpQuestions:  questions,
		VerificationStatus: string(verification.StatusPending),
		CreatedAt:          createdAt,
	}, nil
}

// cacheAttributes is best effort; the verify worker falls back to
// Postgres on a miss.
func (h *Handler) cacheAttributes(ctx context.Context, assetID string, attrs extraction.AttributeSet) {
	if h.cache == nil {
		return
	}
	payload, err := json.Marshal(attrs)
	if err != nil {
		h.logger.Warn("failed to marshal attributes for cache", map[string]interface{}{
			"error":   err,
			"assetId": assetID,
		})
		return
	}
	if err := h.cache.Set(ctx, cacheKeyPrefix+assetID, payload, h.cfg.CacheTTL).Err(); err != nil {
		h.logger.Warn("attribute cache write failed", map[string]interface{}{
			"error":   err,
			"assetId": assetID,
		})
	}
}

// indexAsset is best effort as well; search lags rather than blocking
// intake.
func (h *Handler) indexAsset(ctx context.Context, assetID, userID string, attrs extraction.AttributeSet, createdAt string) {
	if h.search == nil {
		return
	}
	doc, err := json.Marshal(map[string]interface{}{
		"assetId":            assetID,
		"userId":             userID,
		"assetType":          string(attrs.Category),
		"description":        attrs.Description,
		"estimatedValue":     attrs.EstimatedValue,
		"location":           attrs.Location,
		"verificationStatus": string(verification.StatusPending),
		"createdAt":          createdAt,
	})
	if err != nil {
		h.logger.Warn("failed to marshal search document", map[string]interface{}{
			"error":   err,
			"assetId": assetID,
		})
		return
	}

	res, err := h.search.Index(
		h.assetIdx,
		strings.NewReader(string(doc)),
		h.search.Index.WithDocumentID(assetID),
		h.search.Index.WithContext(ctx),
	)
	if err != nil {
		h.logger.Warn("search index failed", map[string]interface{}{
			"error":   err,
			"assetId": assetID,
		})
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		h.logger.Warn("search index rejected document", map[string]interface{}{
			"status":  res.Status(),
			"assetId": assetID,
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
