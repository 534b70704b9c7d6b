package assettokenize

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"rwa-workers/internal/common/errors"
	"rwa-workers/internal/common/logger"
	"rwa-workers/internal/common/observability"
	"rwa-workers/internal/engine/extraction"
	"rwa-workers/internal/engine/minting"
	"rwa-workers/internal/engine/verification"
	"rwa-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "asset-tokenize"
)

type Handler struct {
	cfg       *Config
	db        *sql.DB
	minter    *minting.Minter
	obs       *observability.Observability
	errorHdlr *errors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(cfg *Config, db *sql.DB, minter *minting.Minter, obs *observability.Observability, log logger.Logger) *Handler {
	workerLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		cfg:       cfg,
		db:        db,
		minter:    minter,
		obs:       obs,
		errorHdlr: errors.NewErrorHandler(workerLog),
		logger:    workerLog,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHdlr.HandleJobError(ctx, client, job, &errors.StandardError{
			Code:      "PARSE_ERROR",
			Message:   "Failed to parse job variables",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		})
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHdlr.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.AssetID == "" {
		return nil, errors.NewAssetNotFoundError("(empty)")
	}

	asset, err := h.loadAsset(ctx, input.AssetID)
	if err != nil {
		return nil, err
	}

	// The gate is persisted state, not workflow variables: a replayed
	// job must not mint twice.
	if asset.TokenID != "" {
		return nil, errors.NewAssetTokenizedError(asset.ID, asset.TokenID)
	}
	if asset.VerificationStatus != string(verification.StatusVerified) {
		return nil, errors.NewAssetNotVerifiedError(asset.ID, asset.VerificationStatus)
	}

	var estimatedValue float64
	if asset.EstimatedValue != nil {
		estimatedValue = *asset.EstimatedValue
	}

	result, err := h.minter.Mint(minting.MintRequest{
		AssetID:            asset.ID,
		Category:           extraction.Category(asset.AssetType),
		Description:        asset.Description,
		EstimatedValue:     estimatedValue,
		Location:           asset.Location,
		VerificationStatus: verification.Status(asset.VerificationStatus),
	})
	if err != nil {
		return nil, &errors.StandardError{
			Code:      errors.ErrCodeTokenizationError,
			Message:   "Tokenization failed",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}

	mintedAt := result.MintedAt.Format(time.RFC3339)

	_, err = h.db.ExecContext(ctx, `
		UPDATE assets SET token_id = $1, updated_at = $2 WHERE id = $3`,
		result.TokenID,
		mintedAt,
		asset.ID,
	)
	if err != nil {
		return nil, h.databaseError("token update failed", err)
	}

	detailsJSON, err := json.Marshal(result)
	if err != nil {
		return nil, h.databaseError("marshal mint details", err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO asset_transactions (
			id, asset_id, transaction_type, transaction_hash, status, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		result.TokenID,
		asset.ID,
		models.TransactionTypeTokenization,
		result.TransactionHash,
		"completed",
		detailsJSON,
		mintedAt,
	)
	if err != nil {
		return nil, h.databaseError("transaction insert failed", err)
	}

	if h.obs != nil {
		h.obs.RecordAssetMinted(ctx, asset.AssetType)
	}

	h.logger.Info("asset tokenized", map[string]interface{}{
		"assetId":         asset.ID,
		"tokenId":         result.TokenID,
		"contractAddress": result.ContractAddress,
		"network":         result.Network,
	})

	return &Output{
		AssetID:          asset.ID,
		TokenID:          result.TokenID,
		ContractAddress:  result.ContractAddress,
		TransactionHash:  result.TransactionHash,
		TokenStandard:    result.TokenStandard,
		Network:          result.Network,
		Metadata:         result.Metadata,
		TokenizationDate: mintedAt,
	}, nil
}

func (h *Handler) loadAsset(ctx context.Context, assetID string) (*models.Asset, error) {
	var (
		asset    models.Asset
		value    sql.NullFloat64
		location sql.NullString
		tokenID  sql.NullString
	)
	err := h.db.QueryRowContext(ctx, `
		SELECT id, user_id, asset_type, description, estimated_value,
		       location, verification_status, token_id
		FROM assets WHERE id = $1`, assetID).
		Scan(&asset.ID, &asset.UserID, &asset.AssetType, &asset.Description,
			&value, &location, &asset.VerificationStatus, &tokenID)
	if err == sql.ErrNoRows {
		return nil, errors.NewAssetNotFoundError(assetID)
	}
	if err != nil {
		return nil, h.databaseError(fmt.Sprintf("asset %s lookup failed", assetID), err)
	}

	if value.Valid {
		asset.EstimatedValue = &value.Float64
	}
	if location.Valid {
		asset.Location = location.String
	}
	if tokenID.Valid {
		asset.TokenID = tokenID.String
	}
	return &asset, nil
}

func (h *Handler) databaseError(message string, err error) *errors.StandardError {
	return &errors.StandardError{
		Code:      errors.ErrCodeQueryExecutionFailed,
		Message:   message,
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
