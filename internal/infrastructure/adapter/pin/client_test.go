package pin

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/pin/pintest"
	timeadapter "github.com/amirhossein-jamali/pinpayments/internal/infrastructure/adapter/time"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnvironments(source gateway.CredentialSource, timeout time.Duration) *Environments {
	return NewEnvironments(source, nil, timeout, logger.NewNoopLogger(), metrics.NewNoopMetrics(), timeadapter.NewRealTimeProvider())
}

func TestResolve(t *testing.T) {
	source := &pintest.Credentials{
		Default: "test",
		Environments: map[string]gateway.Credentials{
			"test":      {Key: "pk", Secret: "sk", Host: "test-api.pin.net.au"},
			"no_secret": {Key: "pk", Host: "api.pin.net.au"},
			"empty":     {},
		},
	}
	envs := newTestEnvironments(source, 0)

	t.Run("Named environment", func(t *testing.T) {
		client, err := envs.Resolve("test")
		require.NoError(t, err)
		assert.Equal(t, "test", client.Name())
		assert.Equal(t, "https://test-api.pin.net.au", client.(*Environment).baseURL)
		assert.Equal(t, "pk", client.(*Environment).PublishableKey())
	})

	t.Run("Empty name uses default", func(t *testing.T) {
		client, err := envs.Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "test", client.Name())
	})

	t.Run("Unknown environment", func(t *testing.T) {
		_, err := envs.Resolve("staging")
		assert.ErrorIs(t, err, errs.ErrConfig)
	})

	t.Run("Missing fields are named", func(t *testing.T) {
		_, err := envs.Resolve("no_secret")
		require.ErrorIs(t, err, errs.ErrConfig)
		assert.Contains(t, err.Error(), "secret")

		_, err = envs.Resolve("empty")
		require.ErrorIs(t, err, errs.ErrConfig)
		assert.Contains(t, err.Error(), "key, secret, host")
	})

	t.Run("Listing", func(t *testing.T) {
		assert.Equal(t, []string{"empty", "no_secret", "test"}, envs.Names())
		assert.Equal(t, []string{"test"}, envs.Usable())
		assert.True(t, envs.Has("empty"))
		assert.False(t, envs.Has("live"))
	})

	t.Run("Fallback default", func(t *testing.T) {
		other := newTestEnvironments(&pintest.Credentials{}, 0)
		assert.Equal(t, FallbackEnvironment, other.DefaultName())
	})
}

func TestRequest(t *testing.T) {
	server := pintest.NewServer(t)
	envs := newTestEnvironments(server.NewCredentials("test"), 5*time.Second)
	client, err := envs.Resolve("test")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("Signs and encodes payload", func(t *testing.T) {
		server.StubJSON("POST", "/charges", 201, pintest.ChargeSuccess("ch_1", 42, "Success!"))

		payload := url.Values{"amount": {"500"}, "email": {"a@b.com"}}
		resp, err := client.Request(ctx, "post", "/charges", payload, true)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
		assert.Equal(t, "ch_1", resp.JSON.Object("response").String("token"))

		calls := server.Calls()
		call := calls[len(calls)-1]
		assert.Equal(t, "sk_test", call.Username)
		assert.Equal(t, "", call.Password)
		assert.Equal(t, "application/json", call.ContentType)
		assert.Equal(t, "500", call.Query.Get("amount"))
		assert.Equal(t, "a@b.com", call.Query.Get("email"))
	})

	t.Run("Unsupported method", func(t *testing.T) {
		before := server.TotalCalls()
		_, err := client.Request(ctx, "PATCH", "/charges", nil, true)
		assert.ErrorIs(t, err, errs.ErrUnsupportedMethod)
		assert.Equal(t, before, server.TotalCalls())
	})

	t.Run("Error body strict", func(t *testing.T) {
		server.StubJSON("GET", "/customers/cus_x", 404, pintest.Error("resource_not_found", "No resource was found at this URL."))

		_, err := client.Request(ctx, "GET", "/customers/cus_x", nil, true)
		require.ErrorIs(t, err, errs.ErrPin)

		var pinErr *errs.PinError
		require.True(t, errors.As(err, &pinErr))
		assert.Equal(t, "resource_not_found", pinErr.Code)
		assert.Equal(t, "No resource was found at this URL.", pinErr.Description)
		assert.Equal(t, "test", pinErr.Environment)
	})

	t.Run("Error body non-strict is returned", func(t *testing.T) {
		resp, err := client.Request(ctx, "GET", "/customers/cus_x", nil, false)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
		assert.Equal(t, "resource_not_found", resp.JSON.String("error"))
	})

	t.Run("Unreadable body", func(t *testing.T) {
		server.Stub("PUT", "/customers/cus_y", 502, "<html>Bad Gateway</html>")

		_, err := client.Request(ctx, "PUT", "/customers/cus_y", nil, true)
		assert.ErrorIs(t, err, errs.ErrPin)

		resp, err := client.Request(ctx, "PUT", "/customers/cus_y", nil, false)
		require.NoError(t, err)
		assert.Nil(t, resp.JSON)
		assert.Equal(t, "<html>Bad Gateway</html>", resp.Text())
	})
}

func TestDelete(t *testing.T) {
	server := pintest.NewServer(t)
	envs := newTestEnvironments(server.NewCredentials("test"), time.Second)
	client, err := envs.Resolve("test")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("Without parsing only status matters", func(t *testing.T) {
		server.Stub("DELETE", "/customers/cus_1/cards/card_1", 204, "")

		resp, err := client.Delete(ctx, "/customers/cus_1/cards/card_1", nil, false)
		require.NoError(t, err)
		assert.Equal(t, 204, resp.StatusCode)
	})

	t.Run("Failure status", func(t *testing.T) {
		server.StubJSON("DELETE", "/customers/cus_1/cards/card_2", 400, pintest.Error("cannot_delete_primary_card", "The primary card cannot be deleted."))

		_, err := client.Delete(ctx, "/customers/cus_1/cards/card_2", nil, false)
		require.ErrorIs(t, err, errs.ErrPin)
		assert.Contains(t, err.Error(), "The primary card cannot be deleted.")
	})

	t.Run("Parsing applies strict rules", func(t *testing.T) {
		server.Stub("DELETE", "/customers/cus_1/cards/card_3", 200, "not json")

		_, err := client.Delete(ctx, "/customers/cus_1/cards/card_3", nil, true)
		assert.ErrorIs(t, err, errs.ErrPin)
	})
}

func TestTransportFailures(t *testing.T) {
	t.Run("Timeout", func(t *testing.T) {
		server := pintest.NewServer(t)
		server.Handle("GET", "/balance", func(pintest.Call) pintest.Reply {
			time.Sleep(300 * time.Millisecond)
			return pintest.Reply{Status: http.StatusOK, Body: `{}`}
		})
		envs := newTestEnvironments(server.NewCredentials("test"), 50*time.Millisecond)
		client, err := envs.Resolve("test")
		require.NoError(t, err)

		_, err = client.Request(context.Background(), "GET", "/balance", nil, false)
		require.ErrorIs(t, err, errs.ErrPin)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Gateway internal failure", func(t *testing.T) {
		server := pintest.NewServer(t)
		server.Handle("GET", "/balance", func(pintest.Call) pintest.Reply {
			panic("database unavailable")
		})
		client, err := newTestEnvironments(server.NewCredentials("test"), time.Second).Resolve("test")
		require.NoError(t, err)

		_, err = client.Request(context.Background(), "GET", "/balance", nil, true)
		require.ErrorIs(t, err, errs.ErrPin)

		var pinErr *errs.PinError
		require.True(t, errors.As(err, &pinErr))
		assert.Equal(t, "server_error", pinErr.Code)
		assert.Equal(t, 1, server.CallCount("GET", "/balance"))
	})

	t.Run("Connection refused", func(t *testing.T) {
		source := &pintest.Credentials{
			Default:      "test",
			Environments: map[string]gateway.Credentials{"test": {Key: "pk", Secret: "sk", Host: "http://127.0.0.1:1"}},
		}
		client, err := newTestEnvironments(source, time.Second).Resolve("test")
		require.NoError(t, err)

		_, err = client.Request(context.Background(), "GET", "/balance", nil, true)
		assert.ErrorIs(t, err, errs.ErrPin)
	})
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "charges", endpointLabel("/charges"))
	assert.Equal(t, "customers", endpointLabel("/customers/cus_1/cards"))
	assert.Equal(t, "plans", endpointLabel("/plans?page=2"))
	assert.Equal(t, "root", endpointLabel("/"))
}
