package error

import (
	"errors"
	"fmt"
)

// Error codes for the CLI and structured logs
const (
	// 4xxx - Caller errors
	CodeInvalidAmount       = 4002
	CodeInvalidCurrency     = 4003
	CodeInvalidToken        = 4004
	CodeConstraintViolation = 4005
	CodeNotFound            = 4040

	// 5xxx - Configuration and gateway errors
	CodeInternalServer     = 5000
	CodeConfig             = 5001
	CodePin                = 5002
	CodeDatabaseConnection = 5003
)

// Base error types
var (
	// ErrConfig is returned when an environment is missing or incompletely configured
	ErrConfig = errors.New("configuration error")

	// ErrPin is returned when the gateway reports an error, replies with unreadable data,
	// or a local invariant guarding a gateway call is violated
	ErrPin = errors.New("pin error")

	// ErrUnsupportedMethod is returned when a request is attempted with a verb the gateway client does not send
	ErrUnsupportedMethod = errors.New("unsupported request method")

	// ErrInvalidAmount is returned when an amount cannot be expressed exactly in minor units
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCurrency is returned when a currency code is empty or malformed
	ErrInvalidCurrency = errors.New("invalid currency")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrCustomerNotFound is returned when the requested customer token doesn't exist
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrCardNotFound is returned when the requested card token doesn't exist
	ErrCardNotFound = errors.New("card not found")

	// ErrRecipientNotFound is returned when the requested recipient doesn't exist
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrDuplicate is returned when a record with the same gateway token already exists
	ErrDuplicate = errors.New("record already exists")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrShuttingDown is returned when work is submitted after its queue was shut down
	ErrShuttingDown = errors.New("shutting down")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrConfig):
		return CodeConfig
	case errors.Is(err, ErrPin):
		return CodePin
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidCurrency):
		return CodeInvalidCurrency
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	case IsNotFoundError(err):
		return CodeNotFound
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseConnection
	default:
		return CodeInternalServer
	}
}

// ConfigError describes an environment that cannot be used
type ConfigError struct {
	Environment string
	Reason      string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("environment %q: %s", e.Environment, e.Reason)
}

// Is checks if the target error is an ErrConfig
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// LogFields returns a map of fields for structured logging
func (e *ConfigError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "config_error",
		"environment": e.Environment,
		"reason":      e.Reason,
		"error_code":  CodeConfig,
	}
}

// NewConfigError creates a configuration error for the named environment
func NewConfigError(environment, reason string) error {
	return &ConfigError{Environment: environment, Reason: reason}
}

// PinError carries an error reported by the gateway or raised while talking to it.
// Code and Description mirror the gateway's "error" and "error_description" fields when present.
type PinError struct {
	Op          string
	Environment string
	Code        string
	Description string
	Err         error
}

// Error implements the error interface
func (e *PinError) Error() string {
	msg := e.Description
	if e.Code != "" {
		msg = e.Code + ": " + e.Description
	}
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Op == "" {
		return "pin: " + msg
	}
	return fmt.Sprintf("pin %s: %s", e.Op, msg)
}

// Is checks if the target error is an ErrPin
func (e *PinError) Is(target error) bool {
	return target == ErrPin
}

// Unwrap returns the underlying error
func (e *PinError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *PinError) LogFields() map[string]any {
	fields := map[string]any{
		"error_type":        "pin_error",
		"op":                e.Op,
		"environment":       e.Environment,
		"pin_error":         e.Code,
		"error_description": e.Description,
		"error_code":        CodePin,
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	return fields
}

// NewPinError creates a gateway error without an underlying cause
func NewPinError(op, code, description string) error {
	return &PinError{Op: op, Code: code, Description: description}
}

// WrapPinError wraps a transport or decoding failure as a gateway error
func WrapPinError(op, environment string, err error) error {
	return &PinError{Op: op, Environment: environment, Err: err}
}

// IsConfigError checks if the error is a configuration error
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig)
}

// IsPinError checks if the error is a gateway error
func IsPinError(err error) bool {
	return errors.Is(err, ErrPin)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrRecipientNotFound)
}
