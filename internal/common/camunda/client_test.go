package camunda

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	return &Client{
		config: &ClientConfig{
			RetryConfig: &RetryConfig{
				MaxRetries: 3,
				BaseDelay:  time.Millisecond,
				MaxDelay:   5 * time.Millisecond,
			},
		},
	}
}

func TestExecuteWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	client := testClient()

	attempts := 0
	result, err := client.ExecuteWithRetry(context.Background(),
		func(ctx context.Context) (interface{}, error) {
			attempts++
			if attempts < 3 {
				return nil, fmt.Errorf("rpc error: connection refused")
			}
			return "ok", nil
		}, "deploy process")

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)
}

func TestExecuteWithRetry_DoesNotRetryPermanentErrors(t *testing.T) {
	client := testClient()

	attempts := 0
	_, err := client.ExecuteWithRetry(context.Background(),
		func(ctx context.Context) (interface{}, error) {
			attempts++
			return nil, fmt.Errorf("INVALID_ARGUMENT: no variables")
		}, "complete job")

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Contains(t, err.Error(), "complete job")
}

func TestExecuteWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	client := testClient()

	attempts := 0
	_, err := client.ExecuteWithRetry(context.Background(),
		func(ctx context.Context) (interface{}, error) {
			attempts++
			return nil, fmt.Errorf("deadline exceeded")
		}, "create instance")

	require.Error(t, err)
	assert.Equal(t, 4, attempts)
}

func TestExecuteWithRetry_HonorsContextCancellation(t *testing.T) {
	client := testClient()
	client.config.RetryConfig.BaseDelay = 100 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ExecuteWithRetry(ctx,
		func(ctx context.Context) (interface{}, error) {
			return nil, fmt.Errorf("unavailable")
		}, "publish message")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		err       string
		retryable bool
	}{
		{"connection refused", true},
		{"connection reset by peer", true},
		{"context deadline exceeded", true},
		{"gateway UNAVAILABLE", true},
		{"broken pipe", true},
		{"NOT_FOUND: process not deployed", false},
		{"INVALID_ARGUMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			assert.Equal(t, tt.retryable, isRetryableZeebeError(fmt.Errorf("%s", tt.err)))
		})
	}
}
