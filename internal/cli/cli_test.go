package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/pin"
	tadapter "github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/config"
	musecase "github.com/amirhossein-jamali/pinpayments/mocks/port/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testApp builds an App over two usable environments and one without a secret
func testApp(t *testing.T) (*App, *musecase.MockBillingUseCase, *int32) {
	t.Helper()
	source := config.PinConfig{
		Default: "test",
		Environments: map[string]config.PinEnvironmentConfig{
			"test":    {Key: "pk_test", Secret: "sk_test", Host: "test-api.pinpayments.com"},
			"live":    {Key: "pk_live", Secret: "sk_live", Host: "api.pinpayments.com"},
			"staging": {Key: "pk_staging", Host: "staging.pinpayments.com"},
		},
	}
	log := logger.NewNoopLogger()
	billing := musecase.NewMockBillingUseCase(t)

	var closed int32
	app := &App{
		Billing:      billing,
		Environments: pin.NewEnvironments(source, nil, 0, log, metrics.NewNoopMetrics(), tadapter.NewRealTimeProvider()),
		Logger:       log,
		Close: func() error {
			atomic.AddInt32(&closed, 1)
			return nil
		},
	}
	return app, billing, &closed
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := runSplit(t, app, args...)
	return stdout, err
}

// runSplit returns stdout and stderr separately
func runSplit(t *testing.T, app *App, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), func(string) (*App, error) { return app, nil }, args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestSyncPlansSingleEnvironment(t *testing.T) {
	app, billing, closed := testApp(t)
	billing.On("SyncPlans", mock.Anything, "live").Return(entity.SyncResult{Created: 2, Updated: 1}, nil).Once()

	out, err := run(t, app, "sync-plans", "live")
	require.NoError(t, err)
	assert.Equal(t, "[live] Created 2 plan(s)\n[live] Updated 1 plan(s)\n", out)
	assert.Equal(t, int32(1), atomic.LoadInt32(closed))
}

func TestSyncPlansAllUsableEnvironments(t *testing.T) {
	app, billing, _ := testApp(t)
	billing.On("SyncPlans", mock.Anything, "live").Return(entity.SyncResult{Created: 1}, nil).Once()
	billing.On("SyncPlans", mock.Anything, "test").Return(entity.SyncResult{Updated: 3}, nil).Once()

	out, err := run(t, app, "sync-plans")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"[live] Created 1 plan(s)",
		"[live] Updated 0 plan(s)",
		"[test] Created 0 plan(s)",
		"[test] Updated 3 plan(s)",
	}, "\n")+"\n", out)
	billing.AssertNotCalled(t, "SyncPlans", mock.Anything, "staging")
}

func TestSyncPlansFailureKeepsGoing(t *testing.T) {
	app, billing, closed := testApp(t)
	billing.On("SyncPlans", mock.Anything, "live").
		Return(entity.SyncResult{}, errs.NewPinError("GET /plans", "unauthenticated", "Not authorized")).Once()
	billing.On("SyncPlans", mock.Anything, "test").Return(entity.SyncResult{Created: 1}, nil).Once()

	out, errOut, err := runSplit(t, app, "sync-plans")
	require.Error(t, err)
	assert.True(t, errs.IsPinError(err))
	assert.Contains(t, err.Error(), "live")
	assert.Contains(t, errOut, "[live] Failed:")
	assert.NotContains(t, out, "Failed")
	assert.Equal(t, "[test] Created 1 plan(s)\n[test] Updated 0 plan(s)\n", out)
	assert.Equal(t, int32(1), atomic.LoadInt32(closed))
}

func TestSyncSubscriptions(t *testing.T) {
	app, billing, _ := testApp(t)
	billing.On("SyncSubscriptions", mock.Anything, "test").Return(entity.SyncResult{Created: 4}, nil).Once()

	out, err := run(t, app, "sync-subscriptions", "test")
	require.NoError(t, err)
	assert.Contains(t, out, "[test] Created 4 subscription(s)")
}

func TestSyncPlansTooManyArgs(t *testing.T) {
	app, _, _ := testApp(t)
	_, err := run(t, app, "sync-plans", "test", "live")
	assert.Error(t, err)
}

func TestLoaderFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), func(string) (*App, error) {
		return nil, errors.New("no database")
	}, []string{"sync-plans"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), "no database")
}

func TestLoaderReceivesConfigFlag(t *testing.T) {
	app, billing, _ := testApp(t)
	billing.On("SyncPlans", mock.Anything, "test").Return(entity.SyncResult{}, nil).Once()

	var got string
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), func(file string) (*App, error) {
		got = file
		return app, nil
	}, []string{"--config", "configs/production.yaml", "sync-plans", "test"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, "configs/production.yaml", got)
}

func TestBalance(t *testing.T) {
	app, billing, _ := testApp(t)
	billing.On("Balance", mock.Anything, "test", "USD").Return(&entity.Balance{
		Environment: "test",
		Currency:    "USD",
		Available:   decimal.RequireFromString("500"),
		Pending:     decimal.RequireFromString("10.5"),
	}, nil).Once()

	out, err := run(t, app, "balance", "test", "--currency", "USD")
	require.NoError(t, err)
	assert.Equal(t, "[test] Available: 500.00 USD\n[test] Pending: 10.50 USD\n", out)
}

func TestBalanceDefaultsToAUD(t *testing.T) {
	app, billing, _ := testApp(t)
	billing.On("Balance", mock.Anything, "test", "AUD").
		Return(nil, errs.NewPinError("GET /balance", "", "expected one available balance")).Once()

	out, errOut, err := runSplit(t, app, "balance", "test")
	require.Error(t, err)
	assert.Contains(t, errOut, "[test] Failed:")
	assert.Empty(t, out)
}

func TestRunScheduled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var runs int32
	done := make(chan error, 1)
	go func() {
		done <- runScheduled(ctx, logger.NewNoopLogger(), "@every 1s", "sync-plans", func(context.Context) error {
			if atomic.AddInt32(&runs, 1) == 1 {
				panic("recovered by the scheduler")
			}
			return errors.New("keeps going")
		})
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, 5*time.Second, 50*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRunScheduledInvalidSpec(t *testing.T) {
	err := runScheduled(context.Background(), logger.NewNoopLogger(), "not a schedule", "sync-plans", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")
}

func TestCronLoggerPairs(t *testing.T) {
	fields := pairs([]any{"now", 1, "entry", 2, "dangling"})
	assert.Equal(t, map[string]any{"now": 1, "entry": 2}, fields)
}
