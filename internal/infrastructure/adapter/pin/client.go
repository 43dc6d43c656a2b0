package pin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/gateway"
	"github.com/google/uuid"
)

// maxBodyBytes caps how much of a gateway response is read
const maxBodyBytes = 4 << 20

// Environment is a client bound to one resolved gateway environment
type Environment struct {
	name         string
	creds        gateway.Credentials
	baseURL      string
	httpClient   *http.Client
	timeout      time.Duration
	logger       core.Logger
	metrics      core.Metrics
	timeProvider core.TimeProvider
}

// Name returns the environment name
func (c *Environment) Name() string {
	return c.name
}

// PublishableKey returns the public API key, for handing to browser-side card tokenization
func (c *Environment) PublishableKey() string {
	return c.creds.Key
}

// Request sends a GET, POST or PUT to path
func (c *Environment) Request(ctx context.Context, method, path string, payload url.Values, strict bool) (*gateway.Response, error) {
	method = strings.ToUpper(method)
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut:
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedMethod, method)
	}

	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	return c.interpret(method+" "+path, resp, strict)
}

// Delete sends a DELETE to path
func (c *Environment) Delete(ctx context.Context, path string, payload url.Values, parse bool) (*gateway.Response, error) {
	op := http.MethodDelete + " " + path

	resp, err := c.send(ctx, http.MethodDelete, path, payload)
	if err != nil {
		return nil, err
	}
	if parse {
		return c.interpret(op, resp, true)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fields, _ := gateway.DecodeFields(resp.Body)
		description := fields.String("error_description")
		if description == "" {
			description = fmt.Sprintf("unexpected HTTP status %d", resp.StatusCode)
		}
		return nil, &errs.PinError{Op: op, Environment: c.name, Code: fields.String("error"), Description: description}
	}
	return resp, nil
}

// interpret decodes the body and applies the strict error rules
func (c *Environment) interpret(op string, resp *gateway.Response, strict bool) (*gateway.Response, error) {
	fields, ok := gateway.DecodeFields(resp.Body)
	if !ok {
		if strict {
			return nil, &errs.PinError{
				Op:          op,
				Environment: c.name,
				Description: fmt.Sprintf("unreadable response (HTTP %d)", resp.StatusCode),
			}
		}
		return resp, nil
	}

	resp.JSON = fields
	if strict && fields.Has("error") {
		return nil, &errs.PinError{
			Op:          op,
			Environment: c.name,
			Code:        fields.String("error"),
			Description: fields.String("error_description"),
		}
	}
	return resp, nil
}

// send performs the signed HTTP exchange. Transport failures become PinErrors.
func (c *Environment) send(ctx context.Context, method, path string, payload url.Values) (*gateway.Response, error) {
	op := method + " " + path
	endpoint := endpointLabel(path)
	requestID := uuid.NewString()

	reqURL := c.baseURL + "/1" + path
	if len(payload) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		reqURL += sep + payload.Encode()
	}

	ctx, cancel := c.timeProvider.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, errs.WrapPinError(op, c.name, err)
	}
	req.SetBasicAuth(c.creds.Secret, "")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	fields := map[string]any{
		"request_id": requestID,
		"method":     method,
		"path":       path,
	}

	start := c.timeProvider.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		elapsed := c.timeProvider.Since(start)
		c.metrics.ObserveGatewayRequest(c.name, method, endpoint, 0, elapsed)
		fields["error"] = err.Error()
		fields["elapsed"] = elapsed.String()
		c.logger.Error("Gateway request failed", fields)
		return nil, errs.WrapPinError(op, c.name, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	elapsed := c.timeProvider.Since(start)
	c.metrics.ObserveGatewayRequest(c.name, method, endpoint, httpResp.StatusCode, elapsed)
	if err != nil {
		fields["error"] = err.Error()
		c.logger.Error("Failed to read gateway response", fields)
		return nil, errs.WrapPinError(op, c.name, err)
	}

	fields["status"] = httpResp.StatusCode
	fields["elapsed"] = elapsed.String()
	c.logger.Debug("Gateway request completed", fields)

	return &gateway.Response{StatusCode: httpResp.StatusCode, Body: body}, nil
}

// endpointLabel reduces a path to its resource name so metric labels stay bounded,
// e.g. "/customers/cus_1/cards" becomes "customers"
func endpointLabel(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(path, "/?"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}

var _ gateway.Client = (*Environment)(nil)
