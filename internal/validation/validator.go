// =============================================================================
// Medição Jurídica - Field Validators
// =============================================================================
//
// This module provides the pure validation and formatting functions used by
// the wizard before it admits a stage transition:
//   - Digit normalization
//   - CNPJ (supplier tax ID) checksum validation
//   - Monetary parsing and live formatting (pt-BR: "1.234,56")
//   - Fixed-length identifier checks (contract and order numbers)
//
// ERROR HANDLING:
//   - Validators never panic and never return errors; they answer bool or a
//     soft default so callers can collect FieldErrors and report them together
//   - ParseMonetary falls back to zero on malformed input
//
// =============================================================================

package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CNPJ WEIGHTS
// =============================================================================

// firstCheckWeights are applied to the first 12 digits to compute digit 13.
var firstCheckWeights = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// secondCheckWeights are applied to the first 13 digits to compute digit 14.
var secondCheckWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// TaxIDLength is the number of digits in a normalized CNPJ.
const TaxIDLength = 14

// =============================================================================
// DIGIT HELPERS
// =============================================================================

// NormalizeDigits strips every non-digit character from text.
func NormalizeDigits(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))

	for _, r := range text {
		if r >= '0' && r <= '9' {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// =============================================================================
// TAX ID (CNPJ)
// =============================================================================

// IsValidTaxID reports whether raw is a valid CNPJ.
//
// PARAMETERS:
//   - raw: The tax ID as typed, with or without the 00.000.000/0000-00 mask.
//
// RETURNS:
//   - true if the normalized value has 14 digits, is not a run of a single
//     repeated digit and both check digits match the modulo-11 computation.
func IsValidTaxID(raw string) bool {
	digits := NormalizeDigits(raw)
	if len(digits) != TaxIDLength {
		return false
	}

	// A run of identical digits is rejected even when the arithmetic agrees.
	if strings.Count(digits, digits[:1]) == TaxIDLength {
		return false
	}

	values := make([]int, TaxIDLength)
	for i := 0; i < TaxIDLength; i++ {
		values[i] = int(digits[i] - '0')
	}

	first := checkDigit(values[:12], firstCheckWeights)
	second := checkDigit(values[:13], secondCheckWeights)

	return values[12] == first && values[13] == second
}

// checkDigit computes one CNPJ check digit from a weighted sum.
func checkDigit(values, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += values[i] * w
	}

	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

// FormatTaxID applies the 00.000.000/0000-00 mask to a 14-digit tax ID.
// Values that do not normalize to 14 digits are returned unchanged.
func FormatTaxID(raw string) string {
	d := NormalizeDigits(raw)
	if len(d) != TaxIDLength {
		return raw
	}
	return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
}

// =============================================================================
// MONETARY VALUES
// =============================================================================

// ParseMonetary converts an amount string into a decimal.
//
// Everything except digits, commas and periods is removed. When a comma is
// present it is the decimal separator and periods are thousands separators,
// so "R$ 1.234,56" parses to 1234.56. Any parse failure yields zero.
func ParseMonetary(text string) decimal.Decimal {
	var builder strings.Builder
	for _, r := range text {
		if unicode.IsDigit(r) || r == ',' || r == '.' {
			builder.WriteRune(r)
		}
	}

	cleaned := builder.String()
	if cleaned == "" {
		return decimal.Zero
	}

	// Periods are dropped only when a comma is present, so the pt-BR
	// grouping produced by FormatMonetaryInput ("1.234,56") parses to its
	// value instead of failing on the second separator.
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return value
}

// FormatMonetaryInput re-formats a partially typed amount.
//
// The input is reduced to its digits, left-padded with zeros to at least three
// digits, and the last two digits become the cents:
//
//	"100"   -> "1,00"
//	"12345" -> "123,45"
//	"1234567" -> "12.345,67"
//	""      -> ""
func FormatMonetaryInput(text string) string {
	digits := NormalizeDigits(text)
	if digits == "" {
		return ""
	}

	for len(digits) < 3 {
		digits = "0" + digits
	}

	integerPart := digits[:len(digits)-2]
	decimalPart := digits[len(digits)-2:]

	return groupThousands(integerPart) + "," + decimalPart
}

// FormatAmount renders a decimal in the same pt-BR layout as the entry
// fields, rounded to two decimal places.
func FormatAmount(value decimal.Decimal) string {
	fixed := value.Abs().StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)

	formatted := groupThousands(parts[0]) + "," + parts[1]
	if value.IsNegative() {
		return "-" + formatted
	}
	return formatted
}

// IsNonZeroAmount reports whether the digits of text form a nonzero integer.
// "0,00" and "" are zero; "0,01" is not.
func IsNonZeroAmount(text string) bool {
	return strings.TrimLeft(NormalizeDigits(text), "0") != ""
}

// groupThousands inserts "." every three digits from the right after
// dropping redundant leading zeros.
func groupThousands(digits string) string {
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return "0"
	}

	head := len(digits) % 3
	if head == 0 {
		head = 3
	}

	var builder strings.Builder
	builder.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		builder.WriteByte('.')
		builder.WriteString(digits[i : i+3])
	}

	return builder.String()
}

// =============================================================================
// FIXED-LENGTH CODES
// =============================================================================

// IsValidFixedLengthCode reports whether text has exactly length characters
// and, when digitsOnly is set, consists only of ASCII digits.
//
// Used for contract numbers (10 characters) and purchase order numbers
// (10 digits).
func IsValidFixedLengthCode(text string, length int, digitsOnly bool) bool {
	if utf8.RuneCountInString(text) != length {
		return false
	}

	if digitsOnly {
		return NormalizeDigits(text) == text
	}

	return true
}
