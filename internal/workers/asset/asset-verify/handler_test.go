package assetverify

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"rwa-workers/internal/common/logger"
	"rwa-workers/internal/engine/extraction"
	"rwa-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func floatPtr(v float64) *float64 { return &v }

func strongAttrs() extraction.AttributeSet {
	return extraction.AttributeSet{
		Category:       extraction.CategoryRealEstate,
		Description:    "Beautiful 3 bedroom 2 bathroom house, 2000 sqft with garden",
		EstimatedValue: floatPtr(250000),
		Location:       "California",
	}
}

func TestHandler_Execute_VerifiedFromCache(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cache, cacheMock := redismock.NewClientMock()

	cached, err := json.Marshal(strongAttrs())
	require.NoError(t, err)
	cacheMock.ExpectGet(cacheKeyPrefix + "asset-001").SetVal(string(cached))

	dbMock.ExpectExec(`UPDATE assets SET verification_status`).
		WithArgs("verified", sqlmock.AnyArg(), "asset-001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	dbMock.ExpectExec(`INSERT INTO asset_transactions`).
		WithArgs(
			sqlmock.AnyArg(), // verification ID (UUID)
			"asset-001",
			models.TransactionTypeVerification,
			"",
			"verified",
			sqlmock.AnyArg(), // details JSON
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := NewHandler(createTestConfig(), db, cache, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{AssetID: "asset-001"})

	require.NoError(t, err)
	assert.Equal(t, "asset-001", output.AssetID)
	assert.NotEmpty(t, output.VerificationID)
	assert.Equal(t, "verified", output.Status)
	assert.InDelta(t, 0.925, output.OverallScore, 1e-9)
	assert.Len(t, output.Breakdown, 4)
	assert.Contains(t, output.NextSteps, "Asset ready for tokenization")

	assert.NoError(t, dbMock.ExpectationsWereMet())
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestHandler_Execute_CacheMissFallsBackToDatabase(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cache, cacheMock := redismock.NewClientMock()
	cacheMock.ExpectGet(cacheKeyPrefix + "asset-002").RedisNil()

	dbMock.ExpectQuery(`SELECT asset_type, description, estimated_value, location`).
		WithArgs("asset-002").
		WillReturnRows(sqlmock.
			NewRows([]string{"asset_type", "description", "estimated_value", "location"}).
			AddRow("vehicle", "2019 model with low mileage and a strong engine", 30000.0, "Texas"))

	dbMock.ExpectExec(`UPDATE assets SET verification_status`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(`INSERT INTO asset_transactions`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := NewHandler(createTestConfig(), db, cache, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{AssetID: "asset-002"})

	require.NoError(t, err)
	assert.Equal(t, "verified", output.Status)

	assert.NoError(t, dbMock.ExpectationsWereMet())
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestHandler_Execute_AssetNotFound(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbMock.ExpectQuery(`SELECT asset_type, description, estimated_value, location`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	handler := NewHandler(createTestConfig(), db, nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{AssetID: "missing"})
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, ErrAssetNotFound))

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestHandler_Execute_EmptyAssetID(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, ErrAssetNotFound))
}

func TestHandler_Execute_RejectedAssetStillRecorded(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbMock.ExpectQuery(`SELECT asset_type, description, estimated_value, location`).
		WithArgs("asset-003").
		WillReturnRows(sqlmock.
			NewRows([]string{"asset_type", "description", "estimated_value", "location"}).
			AddRow("unknown", "something", nil, nil))

	dbMock.ExpectExec(`UPDATE assets SET verification_status`).
		WithArgs("rejected", sqlmock.AnyArg(), "asset-003").
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(`INSERT INTO asset_transactions`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := NewHandler(createTestConfig(), db, nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{AssetID: "asset-003"})

	require.NoError(t, err)
	assert.Equal(t, "rejected", output.Status)
	assert.Contains(t, output.NextSteps, "Review asset information")

	assert.NoError(t, dbMock.ExpectationsWereMet())
}
