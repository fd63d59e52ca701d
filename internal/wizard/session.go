// =============================================================================
// Medição Jurídica - Wizard Session
// =============================================================================
//
// Session is the single owned aggregate of one wizard run. Every mutation
// goes through a named transition or an edit method that checks the stage.
//
// STAGE FLOW:
//
//   start -> initialData -> review -> detailing -> detailedReview -> generation
//
//   | From           | Trigger  | Guard              | To             |
//   |----------------|----------|--------------------|----------------|
//   | start          | Begin    | none               | initialData    |
//   | initialData    | Submit   | record validates   | review         |
//   | review         | Back     | none               | initialData    |
//   | review         | Confirm  | initialValidated   | detailing      |
//   | detailing      | Back     | none               | review         |
//   | detailing      | Submit   | reviewConfirmed +  | detailedReview |
//   |                |          | drafts validate    |                |
//   | detailedReview | Back     | none               | detailing      |
//   | detailedReview | Finalize | detailingValidated | generation     |
//   | generation     | Finalize | detailingValidated | generation     |
//   | generation     | Reset    | none               | start          |
//
// Navigate enters any stage directly; the target's guard is re-checked and
// a failing guard redirects to the nearest reachable stage.
//
// A Session is not safe for concurrent use.
//
// =============================================================================

package wizard

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ginjaninja78/medicao-juridica/internal/catalog"
	"github.com/ginjaninja78/medicao-juridica/internal/export"
	"github.com/ginjaninja78/medicao-juridica/internal/record"
	"github.com/ginjaninja78/medicao-juridica/internal/validation"
)

// Flags are the per-stage completion flags.
type Flags struct {
	InitialValidated   bool
	ReviewConfirmed    bool
	DetailingValidated bool
	Finalized          bool
}

// Session holds the state of one wizard run.
type Session struct {
	catalog  *catalog.Catalog
	exporter export.Exporter
	logger   *zap.Logger

	stage Stage
	flags Flags

	// form is the editable initial record; initial is the last one that
	// passed validation.
	form    record.InitialFilingRecord
	initial record.InitialFilingRecord

	drafts    []record.ChargeLineDraft
	finalized []record.FinalizedChargeRecord
	artifact  *export.Artifact
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a session at the start stage.
//
// PARAMETERS:
//   - cat: The read-only catalog. Nil means catalog.Default().
//   - exporter: Called by Finalize. May be nil, in which case every
//     Finalize ends in an ExportFailure.
func NewSession(cat *catalog.Catalog, exporter export.Exporter, opts ...Option) *Session {
	if cat == nil {
		cat = catalog.Default()
	}
	s := &Session{
		catalog:  cat,
		exporter: exporter,
		logger:   zap.NewNop(),
		stage:    StageStart,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// READ ACCESS
// =============================================================================

func (s *Session) Stage() Stage { return s.stage }

func (s *Session) Flags() Flags { return s.flags }

func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// InitialForm returns a copy of the editable initial record.
func (s *Session) InitialForm() record.InitialFilingRecord { return s.form }

// Initial returns the persisted initial record and whether one exists.
func (s *Session) Initial() (record.InitialFilingRecord, bool) {
	return s.initial, s.flags.InitialValidated
}

// Drafts returns a copy of the charge drafts.
func (s *Session) Drafts() []record.ChargeLineDraft {
	return append([]record.ChargeLineDraft(nil), s.drafts...)
}

// ServiceCodes derives the service codes of draft i from its current
// selections.
func (s *Session) ServiceCodes(i int) (primary, secondary string, err error) {
	if i < 0 || i >= len(s.drafts) {
		return "", "", ErrDraftIndex
	}
	primary, secondary = s.drafts[i].ServiceCodes(s.catalog.Abbreviations)
	return primary, secondary, nil
}

// Finalized returns the finalized charge records of the last successful
// detailing submit.
func (s *Session) Finalized() []record.FinalizedChargeRecord {
	return append([]record.FinalizedChargeRecord(nil), s.finalized...)
}

// Artifact returns the last generated artifact, or nil.
func (s *Session) Artifact() *export.Artifact { return s.artifact }

// =============================================================================
// EDITING
// =============================================================================

// EditInitial applies fn to the editable initial record. Only allowed in
// initialData; from review the user must go Back first.
func (s *Session) EditInitial(fn func(*record.InitialFilingRecord)) error {
	if s.stage != StageInitialData {
		return s.locked("initial record")
	}
	fn(&s.form)
	return nil
}

// AddDraft appends an empty draft and returns its index.
func (s *Session) AddDraft() (int, error) {
	if s.stage != StageDetailing {
		return 0, s.locked("drafts")
	}
	s.drafts = append(s.drafts, record.NewDraft())
	s.invalidateDetailing()
	return len(s.drafts) - 1, nil
}

// RemoveDraft removes draft i. Later drafts move up one position.
func (s *Session) RemoveDraft(i int) error {
	if s.stage != StageDetailing {
		return s.locked("drafts")
	}
	if i == 0 {
		return ErrFirstDraft
	}
	if i < 0 || i >= len(s.drafts) {
		return ErrDraftIndex
	}
	s.drafts = append(s.drafts[:i], s.drafts[i+1:]...)
	s.invalidateDetailing()
	return nil
}

// EditDraft applies fn to draft i. The draft key cannot be changed.
func (s *Session) EditDraft(i int, fn func(*record.ChargeLineDraft)) error {
	if s.stage != StageDetailing {
		return s.locked("drafts")
	}
	if i < 0 || i >= len(s.drafts) {
		return ErrDraftIndex
	}
	key := s.drafts[i].Key
	fn(&s.drafts[i])
	s.drafts[i].Key = key
	s.invalidateDetailing()
	return nil
}

func (s *Session) locked(what string) error {
	s.logger.Info("edit rejected", zap.String("data", what), zap.Stringer("stage", s.stage))
	return ErrStageLocked
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Begin moves from start to initialData.
func (s *Session) Begin() error {
	if s.stage != StageStart {
		return s.invalid("begin")
	}
	s.moveTo(StageInitialData, "begin")
	return nil
}

// SubmitInitial validates the editable initial record. On success it is
// persisted, initialValidated is set and the session moves to review. A new
// initial record invalidates any confirmation and detailing done for the
// previous one.
func (s *Session) SubmitInitial() error {
	if s.stage != StageInitialData {
		return s.invalid("submit")
	}

	r := s.form.Normalized()
	if errs := validateInitial(r, s.catalog); len(errs) > 0 {
		return s.rejectFields(errs)
	}

	r.SupplierTaxID = validation.NormalizeDigits(r.SupplierTaxID)
	s.form = r
	s.initial = r
	s.flags.InitialValidated = true
	s.flags.ReviewConfirmed = false
	s.invalidateDetailing()

	s.moveTo(StageReview, "submit")
	return nil
}

// Back takes one of the legal backward edges. Leaving detailedReview clears
// detailingValidated.
func (s *Session) Back() error {
	switch s.stage {
	case StageReview:
		s.moveTo(StageInitialData, "back")
	case StageDetailing:
		s.moveTo(StageReview, "back")
	case StageDetailedReview:
		s.invalidateDetailing()
		s.moveTo(StageDetailing, "back")
	default:
		return s.invalid("back")
	}
	return nil
}

// ConfirmReview moves from review to detailing and resets the drafts to a
// single empty draft.
func (s *Session) ConfirmReview() error {
	if s.stage != StageReview {
		return s.invalid("confirm")
	}
	if err := s.guard(StageReview); err != nil {
		return err
	}

	s.flags.ReviewConfirmed = true
	s.drafts = []record.ChargeLineDraft{record.NewDraft()}
	s.invalidateDetailing()

	s.moveTo(StageDetailing, "confirm")
	return nil
}

// SubmitDetailing validates every draft. On success all drafts are
// finalized, detailingValidated is set and the session moves to
// detailedReview.
func (s *Session) SubmitDetailing() error {
	if s.stage != StageDetailing {
		return s.invalid("submit")
	}
	if err := s.guard(StageDetailing); err != nil {
		return err
	}

	if errs := validateDrafts(s.drafts, s.initial.ContractingCompany, s.catalog); len(errs) > 0 {
		return s.rejectFields(errs)
	}

	finalized := make([]record.FinalizedChargeRecord, 0, len(s.drafts))
	for _, d := range s.drafts {
		finalized = append(finalized, record.Finalize(d, s.catalog.Abbreviations))
	}
	s.finalized = finalized
	s.flags.DetailingValidated = true

	s.moveTo(StageDetailedReview, "submit")
	return nil
}

// Finalize moves to generation, sets finalized and invokes the exporter.
//
// RETURNS:
//   - The artifact on success.
//   - *ExportFailure if the exporter fails. The session stays in generation
//     with finalized set; Finalize may be called again.
//   - *GuardViolation if detailingValidated is not set.
func (s *Session) Finalize() (*export.Artifact, error) {
	if s.stage != StageDetailedReview && s.stage != StageGeneration {
		return nil, s.invalid("finalize")
	}
	if err := s.guard(StageGeneration); err != nil {
		return nil, err
	}

	s.flags.Finalized = true
	if s.stage != StageGeneration {
		s.moveTo(StageGeneration, "finalize")
	}

	artifact, err := s.export()
	if err != nil {
		s.logger.Warn("export failed", zap.Error(err))
		return nil, &ExportFailure{Err: err}
	}

	s.artifact = artifact
	s.logger.Info("billing finalized",
		zap.String("file", artifact.FileName),
		zap.Int("charges", len(s.finalized)),
	)
	return artifact, nil
}

func (s *Session) export() (*export.Artifact, error) {
	if s.exporter == nil {
		return nil, fmt.Errorf("no exporter configured")
	}

	artifact, err := s.exporter.Export(s.initial, s.Finalized(), s.catalog)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, fmt.Errorf("exporter returned no artifact")
	}
	return artifact, nil
}

// Reset discards the whole run and returns to start. Only allowed from
// generation.
func (s *Session) Reset() error {
	if s.stage != StageGeneration {
		return s.invalid("reset")
	}

	s.flags = Flags{}
	s.form = record.InitialFilingRecord{}
	s.initial = record.InitialFilingRecord{}
	s.drafts = nil
	s.finalized = nil
	s.artifact = nil

	s.moveTo(StageStart, "reset")
	return nil
}

// Navigate enters target directly. The guard of target is re-checked; if it
// fails the session moves to the nearest reachable stage before target and
// a *GuardViolation is returned. Going to start from generation is a Reset.
func (s *Session) Navigate(target Stage) error {
	if _, ok := stageKeys[target]; !ok {
		return fmt.Errorf("unknown stage %d", int(target))
	}
	if target == StageStart && s.stage == StageGeneration {
		return s.Reset()
	}
	if err := s.guard(target); err != nil {
		return err
	}
	if target == StageDetailing && s.stage == StageDetailedReview {
		s.invalidateDetailing()
	}
	s.moveTo(target, "navigate")
	return nil
}

// =============================================================================
// GUARDS
// =============================================================================

// canEnter reports whether the flags allow entering stage, and why not.
func (s *Session) canEnter(stage Stage) (bool, string) {
	switch stage {
	case StageReview:
		if !s.flags.InitialValidated {
			return false, "Preencha e envie os Dados Iniciais primeiro."
		}
	case StageDetailing:
		if !s.flags.InitialValidated || !s.flags.ReviewConfirmed {
			return false, "Confirme a Revisão dos dados iniciais primeiro."
		}
	case StageDetailedReview, StageGeneration:
		if !s.flags.DetailingValidated {
			return false, "Valide o Detalhamento das cobranças primeiro."
		}
	}
	return true, ""
}

// reachable returns the last stage at or before target whose guard holds.
func (s *Session) reachable(target Stage) Stage {
	for st := target; st > StageStart; st-- {
		if ok, _ := s.canEnter(st); ok {
			return st
		}
	}
	return StageStart
}

// guard checks the guard of target and redirects on failure.
func (s *Session) guard(target Stage) error {
	if ok, _ := s.canEnter(target); ok {
		return nil
	}
	return s.violate(target)
}

func (s *Session) violate(target Stage) error {
	_, reason := s.canEnter(target)
	if reason == "" {
		reason = "Etapa anterior não concluída."
	}
	redirect := s.reachable(target)
	s.logger.Info("guard violation",
		zap.Stringer("target", target),
		zap.Stringer("redirect", redirect),
	)
	s.moveTo(redirect, "redirect")
	return &GuardViolation{Target: target, Redirect: redirect, Reason: reason}
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Session) moveTo(stage Stage, trigger string) {
	s.logger.Debug("stage transition",
		zap.Stringer("from", s.stage),
		zap.Stringer("to", stage),
		zap.String("trigger", trigger),
	)
	s.stage = stage
}

// invalidateDetailing drops everything derived from the current drafts.
func (s *Session) invalidateDetailing() {
	s.flags.DetailingValidated = false
	s.flags.Finalized = false
	s.finalized = nil
	s.artifact = nil
}

func (s *Session) invalid(trigger string) error {
	s.logger.Info("transition rejected",
		zap.String("trigger", trigger),
		zap.Stringer("stage", s.stage),
	)
	return fmt.Errorf("%s em '%s': %w", trigger, s.stage.Title(), ErrInvalidTransition)
}

func (s *Session) rejectFields(errs []validation.FieldError) error {
	s.logger.Info("validation failed",
		zap.Stringer("stage", s.stage),
		zap.Int("errors", len(errs)),
	)
	return &ValidationError{Stage: s.stage, Fields: errs}
}
