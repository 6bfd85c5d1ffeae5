package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func testConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, Delay: time.Millisecond}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), testConfig(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoValSucceedsOnThirdAttempt(t *testing.T) {
	calls := 0
	val, err := DoVal(context.Background(), testConfig(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", eris.New("transient")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 3, calls)
}

func TestDoValExhaustsAfterMaxAttempts(t *testing.T) {
	calls := 0
	boom := eris.New("boom")
	_, err := DoVal(context.Background(), testConfig(), func(ctx context.Context) (string, error) {
		calls++
		return "", boom
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, boom)
}

func TestDoValShouldRetryStopsEarly(t *testing.T) {
	cfg := testConfig()
	cfg.ShouldRetry = func(err error) bool { return false }

	calls := 0
	_, err := DoVal(context.Background(), cfg, func(ctx context.Context) (string, error) {
		calls++
		return "", eris.New("permanent")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoValOnRetryCallback(t *testing.T) {
	var attempts []int
	cfg := testConfig()
	cfg.OnRetry = func(attempt int, err error) {
		attempts = append(attempts, attempt)
	}

	calls := 0
	_, _ = DoVal(context.Background(), cfg, func(ctx context.Context) (string, error) {
		calls++
		return "", eris.New("nope")
	})
	// No callback after the final attempt.
	assert.Equal(t, []int{1, 2}, attempts)
	assert.Equal(t, 3, calls)
}

func TestDoValContextCancelStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := DoVal(ctx, RetryConfig{MaxAttempts: 3, Delay: time.Minute}, func(ctx context.Context) (string, error) {
		calls++
		cancel()
		return "", eris.New("fail")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoValFixedDelayBetweenAttempts(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, Delay: 20 * time.Millisecond}

	start := time.Now()
	_, _ = DoVal(context.Background(), cfg, func(ctx context.Context) (string, error) {
		return "", eris.New("fail")
	})
	elapsed := time.Since(start)
	// Two sleeps between three attempts.
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestApplyDefaults(t *testing.T) {
	cfg := applyDefaults(RetryConfig{})
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Delay)
}
