package entity

import (
	"fmt"
	"sort"
	"strings"

	errs "github.com/amirhossein-jamali/pinpayments/internal/domain/error"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a record does not name one
const DefaultCurrency = "AUD"

// Currency describes a currency the gateway accepts
type Currency struct {
	Code       string
	Symbol     string
	Name       string
	SingleUnit bool // amounts are sent to the gateway unscaled (no minor unit)
}

var hundred = decimal.NewFromInt(100)

var currencies = map[string]Currency{
	"AUD": {Code: "AUD", Symbol: "$", Name: "Australian dollar"},
	"USD": {Code: "USD", Symbol: "$", Name: "US dollar"},
	"NZD": {Code: "NZD", Symbol: "$", Name: "New Zealand dollar"},
	"SGD": {Code: "SGD", Symbol: "$", Name: "Singaporean dollar"},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro"},
	"GBP": {Code: "GBP", Symbol: "£", Name: "Pound sterling"},
	"CAD": {Code: "CAD", Symbol: "$", Name: "Canadian dollar"},
	"HKD": {Code: "HKD", Symbol: "$", Name: "Hong Kong dollar"},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese yen", SingleUnit: true},
	"MYR": {Code: "MYR", Symbol: "RM", Name: "Malaysian ringgit", SingleUnit: true},
	"THB": {Code: "THB", Symbol: "฿", Name: "Thai baht", SingleUnit: true},
	"PHP": {Code: "PHP", Symbol: "₱", Name: "Philippine peso", SingleUnit: true},
	"ZAR": {Code: "ZAR", Symbol: "R", Name: "South African rand", SingleUnit: true},
	"IDR": {Code: "IDR", Symbol: "Rp", Name: "Indonesian rupiah", SingleUnit: true},
	"TWD": {Code: "TWD", Symbol: "NT$", Name: "New Taiwan dollar", SingleUnit: true},
}

// NormalizeCurrency upper-cases a currency code, falling back to DefaultCurrency when empty
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}

// LookupCurrency returns the details of a supported currency
func LookupCurrency(code string) (Currency, bool) {
	c, ok := currencies[NormalizeCurrency(code)]
	return c, ok
}

// Currencies returns every supported currency ordered by code
func Currencies() []Currency {
	list := make([]Currency, 0, len(currencies))
	for _, c := range currencies {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}

// IsSingleUnit reports whether amounts in currency are sent to the gateway unscaled.
// Unknown currencies use the two-decimal convention.
func IsSingleUnit(currency string) bool {
	c, ok := LookupCurrency(currency)
	return ok && c.SingleUnit
}

// ToMinorUnits converts a major-unit amount to the integer the gateway expects.
// Amounts that would lose precision in the conversion are rejected rather than rounded.
func ToMinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	minor := amount
	if !IsSingleUnit(currency) {
		minor = amount.Mul(hundred)
	}

	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: %s %s has more precision than the currency allows",
			errs.ErrInvalidAmount, amount.String(), NormalizeCurrency(currency))
	}
	if minor.Abs().GreaterThan(decimal.NewFromInt(maxMinorUnits)) {
		return 0, fmt.Errorf("%w: %s is out of range", errs.ErrInvalidAmount, amount.String())
	}

	return minor.IntPart(), nil
}

// maxMinorUnits bounds amounts so IntPart never overflows
const maxMinorUnits = int64(1) << 53

// ToDecimal converts a gateway integer amount to major units
func ToDecimal(minor int64, currency string) decimal.Decimal {
	if IsSingleUnit(currency) {
		return decimal.NewFromInt(minor)
	}
	return decimal.New(minor, -2)
}

// FormatValue renders an amount with the precision of its currency, e.g. "12.50 AUD"
func FormatValue(amount decimal.Decimal, currency string) string {
	places := int32(2)
	if IsSingleUnit(currency) {
		places = 0
	}
	return amount.StringFixed(places) + " " + NormalizeCurrency(currency)
}
