package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/medicao-juridica/internal/validation"
)

var (
	// ErrInvalidTransition is returned when a trigger is not defined for the
	// current stage.
	ErrInvalidTransition = errors.New("transição não permitida nesta etapa")

	// ErrStageLocked is returned when data owned by another stage is edited.
	ErrStageLocked = errors.New("dados bloqueados nesta etapa")

	// ErrFirstDraft is returned when removing the first charge draft.
	ErrFirstDraft = errors.New("a primeira cobrança não pode ser removida")

	// ErrDraftIndex is returned for a draft index out of range.
	ErrDraftIndex = errors.New("cobrança inexistente")
)

// ValidationError blocks a submit transition. It carries every field error
// found, across the initial record or all drafts.
type ValidationError struct {
	Stage  Stage
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return strings.TrimSuffix(validation.FormatErrors(e.Fields), "\n")
}

// GuardViolation is returned when a stage was entered without its
// predecessor flags. The session has already moved to Redirect.
type GuardViolation struct {
	Target   Stage
	Redirect Stage
	Reason   string
}

func (e *GuardViolation) Error() string {
	return fmt.Sprintf("Etapa '%s' indisponível: %s Redirecionado para '%s'.",
		e.Target.Title(), e.Reason, e.Redirect.Title())
}

// ExportFailure wraps an error raised by the exporter. The session stays in
// generation with the finalized flag set, so Finalize may be retried.
type ExportFailure struct {
	Err error
}

func (e *ExportFailure) Error() string {
	return "Falha ao gerar o arquivo. Tente novamente."
}

func (e *ExportFailure) Unwrap() error { return e.Err }
