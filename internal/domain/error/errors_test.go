package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestBaseErrorTypes(t *testing.T) {
	if ErrConfig.Error() != "configuration error" {
		t.Errorf("ErrConfig has unexpected message: %s", ErrConfig.Error())
	}
	if ErrPin.Error() != "pin error" {
		t.Errorf("ErrPin has unexpected message: %s", ErrPin.Error())
	}
}

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"Config", NewConfigError("live", "missing secret"), CodeConfig},
		{"Pin", NewPinError("charge", "invalid_resource", "bad"), CodePin},
		{"InvalidAmount", ErrInvalidAmount, CodeInvalidAmount},
		{"InvalidCurrency", ErrInvalidCurrency, CodeInvalidCurrency},
		{"Duplicate", ErrDuplicate, CodeConstraintViolation},
		{"CardNotFound", ErrCardNotFound, CodeNotFound},
		{"Database", ErrDatabaseConnection, CodeDatabaseConnection},
		{"UnknownError", errors.New("unknown error"), CodeInternalServer},
		{"WrappedPin", fmt.Errorf("wrapped: %w", NewPinError("", "", "x")), CodePin},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := ErrorCode(tc.err)
			if code != tc.expected {
				t.Errorf("ErrorCode(%v) = %d, want %d", tc.err, code, tc.expected)
			}
		})
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("live", "secret is required")

	expected := `environment "live": secret is required`
	if err.Error() != expected {
		t.Errorf("ConfigError.Error() = %s, want %s", err.Error(), expected)
	}
	if !errors.Is(err, ErrConfig) {
		t.Errorf("errors.Is(err, ErrConfig) = false, want true")
	}
	if errors.Is(err, ErrPin) {
		t.Errorf("errors.Is(err, ErrPin) = true, want false")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("errors.As failed for ConfigError")
	}
	fields := cfgErr.LogFields()
	if fields["environment"] != "live" || fields["error_code"] != CodeConfig {
		t.Errorf("unexpected log fields: %v", fields)
	}
}

func TestPinError(t *testing.T) {
	testCases := []struct {
		name     string
		err      *PinError
		expected string
	}{
		{
			name:     "Gateway error",
			err:      &PinError{Op: "charge", Code: "invalid_resource", Description: "One or more parameters were missing or invalid"},
			expected: "pin charge: invalid_resource: One or more parameters were missing or invalid",
		},
		{
			name:     "Description only",
			err:      &PinError{Description: "card does not belong to customer"},
			expected: "pin: card does not belong to customer",
		},
		{
			name:     "Wrapped cause",
			err:      &PinError{Op: "GET /balance", Err: errors.New("connection refused")},
			expected: "pin GET /balance: connection refused",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Error() != tc.expected {
				t.Errorf("PinError.Error() = %s, want %s", tc.err.Error(), tc.expected)
			}
			if !errors.Is(tc.err, ErrPin) {
				t.Errorf("errors.Is(err, ErrPin) = false, want true")
			}
		})
	}
}

func TestWrapPinErrorUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := WrapPinError("POST /charges", "test", cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
	if !IsPinError(err) {
		t.Errorf("IsPinError(err) = false, want true")
	}

	var pinErr *PinError
	if !errors.As(err, &pinErr) {
		t.Fatalf("errors.As failed for PinError")
	}
	if pinErr.LogFields()["error"] != "timeout" {
		t.Errorf("LogFields()[error] = %v, want timeout", pinErr.LogFields()["error"])
	}
}

func TestIsNotFoundError(t *testing.T) {
	notFound := []error{ErrNotFound, ErrTransactionNotFound, ErrCustomerNotFound, ErrCardNotFound, ErrRecipientNotFound}
	for _, err := range notFound {
		if !IsNotFoundError(fmt.Errorf("lookup: %w", err)) {
			t.Errorf("IsNotFoundError(%v) = false, want true", err)
		}
	}
	if IsNotFoundError(ErrPin) {
		t.Errorf("IsNotFoundError(ErrPin) = true, want false")
	}
}
