package pin

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/gateway"
	"github.com/go-playground/validator/v10"
)

// FallbackEnvironment is used when configuration names no default environment
const FallbackEnvironment = "test"

// Environments resolves configured gateway environments into clients
type Environments struct {
	source       gateway.CredentialSource
	httpClient   *http.Client
	timeout      time.Duration
	logger       core.Logger
	metrics      core.Metrics
	timeProvider core.TimeProvider
	validate     *validator.Validate
}

// NewEnvironments creates a resolver over source. A nil httpClient uses http.DefaultClient;
// timeout bounds each request and is disabled when zero.
func NewEnvironments(
	source gateway.CredentialSource,
	httpClient *http.Client,
	timeout time.Duration,
	logger core.Logger,
	metrics core.Metrics,
	timeProvider core.TimeProvider,
) *Environments {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Environments{
		source:       source,
		httpClient:   httpClient,
		timeout:      timeout,
		logger:       logger,
		metrics:      metrics,
		timeProvider: timeProvider,
		validate:     validator.New(),
	}
}

// Resolve returns a client for name. It never touches the network, so a
// ConfigError here always precedes any gateway call.
func (e *Environments) Resolve(name string) (gateway.Client, error) {
	if name == "" {
		name = e.DefaultName()
	}

	creds, ok := e.source.Lookup(name)
	if !ok {
		return nil, errs.NewConfigError(name, "environment is not configured")
	}

	if err := e.validate.Struct(creds); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, errs.NewConfigError(name, err.Error())
		}
		missing := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			missing = append(missing, strings.ToLower(fe.Field()))
		}
		return nil, errs.NewConfigError(name, "missing required fields: "+strings.Join(missing, ", "))
	}

	return &Environment{
		name:         name,
		creds:        creds,
		baseURL:      baseURL(creds.Host),
		httpClient:   e.httpClient,
		timeout:      e.timeout,
		logger:       e.logger.With(map[string]any{"environment": name}),
		metrics:      e.metrics,
		timeProvider: e.timeProvider,
	}, nil
}

// Has reports whether name is present in configuration, complete or not
func (e *Environments) Has(name string) bool {
	_, ok := e.source.Lookup(name)
	return ok
}

// DefaultName returns the configured default environment
func (e *Environments) DefaultName() string {
	if name := e.source.DefaultEnvironment(); name != "" {
		return name
	}
	return FallbackEnvironment
}

// Names lists configured environments in sorted order
func (e *Environments) Names() []string {
	names := append([]string(nil), e.source.EnvironmentNames()...)
	sort.Strings(names)
	return names
}

// Usable lists configured environments that carry a secret
func (e *Environments) Usable() []string {
	var usable []string
	for _, name := range e.Names() {
		if creds, ok := e.source.Lookup(name); ok && creds.Secret != "" {
			usable = append(usable, name)
		}
	}
	return usable
}

// baseURL builds the scheme and host part of request URLs.
// A host that already carries a scheme is used as-is.
func baseURL(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}

var _ gateway.Environments = (*Environments)(nil)
