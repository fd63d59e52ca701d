// =============================================================================
// Medição Jurídica - Validation Error Types
// =============================================================================
//
// Field-level validation failures are collected, not thrown. A stage
// transition gathers every FieldError for every field (and every charge
// draft) and only then decides whether the transition is blocked.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"
)

// InitialRecord is the Draft value used for errors on the initial record.
const InitialRecord = -1

// =============================================================================
// FIELD ERROR
// =============================================================================

// FieldError represents a single field validation failure.
type FieldError struct {
	// Draft is the zero-based charge draft index, or InitialRecord when the
	// error belongs to the initial filing record.
	Draft int

	// Field is the name of the field that failed validation,
	// e.g. "supplierTaxId" or "secondaryCharge.amount".
	Field string

	// Value is the offending value as entered.
	Value string

	// Rule is the validation rule that was violated
	// ("required", "checksum", "length", "nonzero", "catalog", "derived").
	Rule string

	// Message is the user-facing message.
	Message string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	if e.Draft == InitialRecord {
		return fmt.Sprintf("Campo '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("Cobrança #%d, campo '%s': %s", e.Draft+1, e.Field, e.Message)
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats field errors as a numbered list for display.
func FormatErrors(errors []FieldError) string {
	if len(errors) == 0 {
		return "Nenhum erro de validação."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Erros (%d):\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
