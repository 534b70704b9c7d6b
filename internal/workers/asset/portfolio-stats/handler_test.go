package portfoliostats

import (
	"context"
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
		CacheTTL: 60 * time.Second,
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

func newTestRedis(t *testing.T) *redis.Client {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func expectStatsQueries(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("user-001").
		WillReturnRows(sqlmock.
			NewRows([]string{"count", "sum", "tokenized"}).
			AddRow(4, 530000.0, 1))

	mock.ExpectQuery(`SELECT verification_status, COUNT\(\*\)`).
		WithArgs("user-001").
		WillReturnRows(sqlmock.
			NewRows([]string{"verification_status", "count"}).
			AddRow("verified", 2).
			AddRow("pending", 1).
			AddRow("rejected", 1))
}

func TestHandler_Execute_ComputesRates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectStatsQueries(mock)

	handler := NewHandler(createTestConfig(), db, nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{UserID: "user-001"})

	require.NoError(t, err)
	assert.Equal(t, int64(4), output.TotalAssets)
	assert.Equal(t, 530000.0, output.TotalValue)
	assert.Equal(t, int64(1), output.TokenizedAssets)
	assert.Equal(t, 2, output.StatusCounts["verified"])
	assert.InDelta(t, 0.5, output.VerificationRate, 1e-9)
	assert.InDelta(t, 0.25, output.TokenizationRate, 1e-9)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_EmptyPortfolio(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("user-001").
		WillReturnRows(sqlmock.
			NewRows([]string{"count", "sum", "tokenized"}).
			AddRow(0, 0.0, 0))
	mock.ExpectQuery(`SELECT verification_status, COUNT\(\*\)`).
		WithArgs("user-001").
		WillReturnRows(sqlmock.NewRows([]string{"verification_status", "count"}))

	handler := NewHandler(createTestConfig(), db, nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{UserID: "user-001"})

	require.NoError(t, err)
	assert.Zero(t, output.TotalAssets)
	assert.Zero(t, output.VerificationRate)
	assert.Zero(t, output.TokenizationRate)
}

func TestHandler_Execute_SecondCallServedFromCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The database is queried exactly once; the second call hits Redis.
	expectStatsQueries(mock)

	cache := newTestRedis(t)
	handler := NewHandler(createTestConfig(), db, cache, newTestLogger(t))

	first, err := handler.Execute(context.Background(), &Input{UserID: "user-001"})
	require.NoError(t, err)

	second, err := handler.Execute(context.Background(), &Input{UserID: "user-001"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_MissingUser(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, ErrUserRequired))
}

func TestHandler_Execute_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnError(errors.New("connection refused"))

	handler := NewHandler(createTestConfig(), db, nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{UserID: "user-001"})
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, ErrDatabaseQueryFailed))
}
