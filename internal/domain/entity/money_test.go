package entity

import (
	"testing"

	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	t.Run("Decimal currencies", func(t *testing.T) {
		testCases := []struct {
			amount   string
			currency string
			expected int64
		}{
			{"5.00", "AUD", 500},
			{"0.01", "USD", 1},
			{"1.5", "NZD", 150},
			{"1234567.89", "GBP", 123456789},
			{"0", "EUR", 0},
			{"10", "aud", 1000},
			{"3.30", "XXX", 330},
		}

		for _, tc := range testCases {
			t.Run(tc.amount+" "+tc.currency, func(t *testing.T) {
				minor, err := ToMinorUnits(decimal.RequireFromString(tc.amount), tc.currency)
				require.NoError(t, err)
				assert.Equal(t, tc.expected, minor)
			})
		}
	})

	t.Run("Single unit currencies are unscaled", func(t *testing.T) {
		for _, code := range []string{"JPY", "MYR", "THB", "PHP", "ZAR", "IDR", "TWD"} {
			t.Run(code, func(t *testing.T) {
				minor, err := ToMinorUnits(decimal.NewFromInt(1000), code)
				require.NoError(t, err)
				assert.Equal(t, int64(1000), minor)
			})
		}
	})

	t.Run("Precision loss is rejected", func(t *testing.T) {
		testCases := []struct {
			amount   string
			currency string
		}{
			{"1.234", "AUD"},
			{"0.001", "USD"},
			{"100.5", "JPY"},
		}

		for _, tc := range testCases {
			t.Run(tc.amount+" "+tc.currency, func(t *testing.T) {
				_, err := ToMinorUnits(decimal.RequireFromString(tc.amount), tc.currency)
				assert.ErrorIs(t, err, errs.ErrInvalidAmount)
			})
		}
	})

	t.Run("Out of range", func(t *testing.T) {
		_, err := ToMinorUnits(decimal.RequireFromString("1e20"), "AUD")
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestMinorUnitRoundTrip(t *testing.T) {
	amounts := []string{"0.00", "0.01", "5.00", "19.99", "100.10", "987654.32"}

	for _, c := range Currencies() {
		if c.SingleUnit {
			continue
		}
		for _, a := range amounts {
			x := decimal.RequireFromString(a)
			minor, err := ToMinorUnits(x, c.Code)
			require.NoError(t, err)
			assert.True(t, ToDecimal(minor, c.Code).Equal(x), "%s %s did not round-trip", a, c.Code)
		}
	}
}

func TestToDecimal(t *testing.T) {
	assert.Equal(t, "5", ToDecimal(500, "AUD").String())
	assert.Equal(t, "10.5", ToDecimal(1050, "USD").String())
	assert.Equal(t, "1000", ToDecimal(1000, "JPY").String())
	assert.Equal(t, "0.42", ToDecimal(42, "unknown").String())
}

func TestCurrencies(t *testing.T) {
	list := Currencies()
	require.Len(t, list, 15)
	assert.Equal(t, "AUD", list[0].Code)

	yen, ok := LookupCurrency("jpy")
	require.True(t, ok)
	assert.Equal(t, "¥", yen.Symbol)
	assert.True(t, yen.SingleUnit)

	_, ok = LookupCurrency("BTC")
	assert.False(t, ok)

	assert.Equal(t, DefaultCurrency, NormalizeCurrency("  "))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "12.50 AUD", FormatValue(decimal.RequireFromString("12.5"), "AUD"))
	assert.Equal(t, "1000 JPY", FormatValue(decimal.NewFromInt(1000), "jpy"))
}
