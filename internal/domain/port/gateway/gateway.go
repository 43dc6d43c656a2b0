package gateway

import (
	"context"
	"net/url"
)

// Credentials are the settings required to talk to one gateway environment
type Credentials struct {
	Key    string `validate:"required"`
	Secret string `validate:"required"`
	Host   string `validate:"required"`
}

// CredentialSource is the configuration contract the gateway client depends on
type CredentialSource interface {
	// Lookup returns the credentials configured under name
	Lookup(name string) (Credentials, bool)
	// DefaultEnvironment names the environment used when none is given
	DefaultEnvironment() string
	// EnvironmentNames lists every configured environment
	EnvironmentNames() []string
}

// Response is the outcome of a gateway call that produced an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	// JSON is the decoded body, or nil when the body was not a JSON object
	JSON Fields
}

// Text returns the raw body
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// Client sends signed requests to a single gateway environment
type Client interface {
	// Name is the environment name the client was resolved from
	Name() string

	// Request sends a GET, POST or PUT with payload form-encoded in the query string.
	// With strict set, unreadable bodies and bodies carrying an "error" key fail with a PinError;
	// otherwise they are returned for the caller to interpret.
	Request(ctx context.Context, method, path string, payload url.Values, strict bool) (*Response, error)

	// Delete sends a DELETE. With parse unset the body is ignored and only
	// a non-2xx status is treated as failure.
	Delete(ctx context.Context, path string, payload url.Values, parse bool) (*Response, error)
}

// Environments resolves named environments into clients
type Environments interface {
	// Resolve returns a client for name, or the default environment when name is empty.
	// It fails with a ConfigError when the environment is absent or incomplete.
	Resolve(name string) (Client, error)
	// Has reports whether name is present in configuration
	Has(name string) bool
	// DefaultName returns the environment used when none is given
	DefaultName() string
	// Names lists configured environments in sorted order
	Names() []string
	// Usable lists configured environments that carry a secret, in sorted order
	Usable() []string
}
