package assetintake

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"rwa-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{
		Timeout:  5 * time.Second,
		CacheTTL: time.Hour,
	}
}

func createTestInput() *Input {
	return &Input{
		UserID:        "user-001",
		WalletAddress: "0xabc123",
		Email:         "owner@example.com",
		Description:   "I have a house in California worth $250,000, 3 bedroom 2 bathroom",
	}
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

// jsonWithKeys matches a JSON-encoded argument that contains every listed key.
type jsonWithKeys struct {
	keys []string
}

func (m jsonWithKeys) Match(v driver.Value) bool {
	var raw []byte
	switch val := v.(type) {
	case []byte:
		raw = val
	case string:
		raw = []byte(val)
	default:
		return false
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	for _, key := range m.keys {
		if _, ok := doc[key]; !ok {
			return false
		}
	}
	return true
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return srv, client
}

func TestHandler_Execute_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	srv, cache := newTestRedis(t)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("user-001", "0xabc123", "owner@example.com", "US", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(`INSERT INTO assets`).
		WithArgs(
			sqlmock.AnyArg(), // asset ID (UUID)
			"user-001",
			"real_estate",
			sqlmock.AnyArg(), // cleaned description
			sqlmock.AnyArg(), // estimated value
			"California",
			"pending",
			jsonWithKeys{keys: []string{"confidenceScore", "sentiment", "entities"}},
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := NewHandler(createTestConfig(), db, cache, nil, "assets", newTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.NotEmpty(t, output.AssetID)
	assert.Equal(t, "real_estate", output.AssetType)
	require.NotNil(t, output.EstimatedValue)
	assert.Equal(t, 250000.0, *output.EstimatedValue)
	assert.Equal(t, "California", output.Location)
	assert.Equal(t, 1.0, output.ConfidenceScore)
	assert.Equal(t, "pending", output.VerificationStatus)

	_, err = time.Parse(time.RFC3339, output.CreatedAt)
	assert.NoError(t, err)

	assert.True(t, srv.Exists(cacheKeyPrefix+output.AssetID))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ValidationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tests := []struct {
		name  string
		input *Input
	}{
		{"missing user", &Input{Description: "a house in Texas"}},
		{"missing description", &Input{UserID: "user-001"}},
	}

	handler := NewHandler(createTestConfig(), db, nil, nil, "assets", newTestLogger(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), tt.input)
			assert.Nil(t, output)
			assert.True(t, errors.Is(err, ErrValidationFailed))
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DatabaseFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(errors.New("connection refused"))

	handler := NewHandler(createTestConfig(), db, nil, nil, "assets", newTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, ErrDatabaseInsertFailed))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_CacheFailureIsNonFatal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	srv, cache := newTestRedis(t)
	srv.Close() // cache writes will fail from here on

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO assets`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := NewHandler(createTestConfig(), db, cache, nil, "assets", newTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.NotEmpty(t, output.AssetID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_FollowUpQuestionsForSparseInput(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO assets`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := NewHandler(createTestConfig(), db, nil, nil, "assets", newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		UserID:      "user-001",
		Description: "something I would like to tokenize",
	})
	require.NoError(t, err)
	assert.Equal(t, "unknown", output.AssetType)
	assert.Len(t, output.FollowUpQuestions, 3)
	assert.LessOrEqual(t, output.ConfidenceScore, 0.1)
}

func TestInputSchemaRejectsWrongTypes(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, nil, nil, "assets", newTestLogger(t))

	// Empty strings fail minLength even though the fields are present.
	output, err := handler.Execute(context.Background(), &Input{UserID: "", Description: ""})
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, ErrValidationFailed))
}
