package wizard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/medicao-juridica/internal/catalog"
	"github.com/ginjaninja78/medicao-juridica/internal/export"
	"github.com/ginjaninja78/medicao-juridica/internal/record"
	"github.com/ginjaninja78/medicao-juridica/internal/validation"
)

type fakeExporter struct {
	err     error
	calls   int
	charges []record.FinalizedChargeRecord
}

func (f *fakeExporter) Format() string { return "fake" }

func (f *fakeExporter) Export(_ record.InitialFilingRecord, charges []record.FinalizedChargeRecord, _ *catalog.Catalog) (*export.Artifact, error) {
	f.calls++
	f.charges = charges
	if f.err != nil {
		return nil, f.err
	}
	return &export.Artifact{FileName: "out.fake", Data: []byte("ok")}, nil
}

func fillInitial(r *record.InitialFilingRecord) {
	r.SupplierTaxID = "11.222.333/0001-81"
	r.ContractingCompany = "ISA Energia Brasil"
	r.ResponsibleLawyer = "Fernanda Lima"
	r.DocumentType = "Nota Fiscal"
	r.PlannedIssueDate = time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	r.HasLinkedContract = true
	r.LinkedContractNumber = "CT-2026-01"
	r.HasLinkedOrder = true
	r.LinkedOrderNumber = "4500012345"
	r.InternalMeasurementNumber = "M-01"
	r.BriefDescription = "Honorários de outubro"
}

func fillDraft(d *record.ChargeLineDraft) {
	d.LegalMatter = "Cível"
	d.Primary = record.ChargeInput{BillingType: "Despesas", Amount: "1.500,00"}
}

// toDetailing drives a new session to the detailing stage.
func toDetailing(t *testing.T, exp export.Exporter) *Session {
	t.Helper()
	s := NewSession(catalog.Default(), exp)
	require.NoError(t, s.Begin())
	require.NoError(t, s.EditInitial(fillInitial))
	require.NoError(t, s.SubmitInitial())
	require.NoError(t, s.ConfirmReview())
	return s
}

// toDetailedReview drives a new session to the detailed review stage.
func toDetailedReview(t *testing.T, exp export.Exporter) *Session {
	t.Helper()
	s := toDetailing(t, exp)
	require.NoError(t, s.EditDraft(0, fillDraft))
	require.NoError(t, s.SubmitDetailing())
	return s
}

func fieldErrors(t *testing.T, err error) []validation.FieldError {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

// =============================================================================
// HAPPY PATH
// =============================================================================

func TestFullRun(t *testing.T) {
	exp := &fakeExporter{}
	s := NewSession(nil, exp)
	assert.Equal(t, StageStart, s.Stage())

	require.NoError(t, s.Begin())
	assert.Equal(t, StageInitialData, s.Stage())

	require.NoError(t, s.EditInitial(fillInitial))
	require.NoError(t, s.SubmitInitial())
	assert.Equal(t, StageReview, s.Stage())
	assert.True(t, s.Flags().InitialValidated)

	initial, ok := s.Initial()
	require.True(t, ok)
	assert.Equal(t, "11222333000181", initial.SupplierTaxID)

	require.NoError(t, s.ConfirmReview())
	assert.Equal(t, StageDetailing, s.Stage())
	require.Len(t, s.Drafts(), 1)

	require.NoError(t, s.EditDraft(0, fillDraft))
	i, err := s.AddDraft()
	require.NoError(t, err)
	require.NoError(t, s.EditDraft(i, func(d *record.ChargeLineDraft) {
		d.HasLinkedProject = true
		d.ProjectName = "LT Itapeti - Nordeste"
		d.Segment = "Trecho 2"
		d.LegalMatter = "Ambiental"
		d.Primary = record.ChargeInput{BillingType: "Parecer", Amount: "100,00"}
		d.HasSecondCharge = true
		d.Secondary = record.ChargeInput{BillingType: "Honorários", Amount: "50,00"}
	}))

	primary, secondary, err := s.ServiceCodes(1)
	require.NoError(t, err)
	assert.Equal(t, "PAR_AMB", primary)
	assert.Equal(t, "HON_AMB", secondary)

	require.NoError(t, s.SubmitDetailing())
	assert.Equal(t, StageDetailedReview, s.Stage())
	assert.True(t, s.Flags().DetailingValidated)

	finalized := s.Finalized()
	require.Len(t, finalized, 2)
	assert.Equal(t, "DESP_CIV", finalized[0].Primary.ServiceCode)
	require.NotNil(t, finalized[1].Secondary)
	assert.Equal(t, "HON_AMB", finalized[1].Secondary.ServiceCode)

	artifact, err := s.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "out.fake", artifact.FileName)
	assert.Equal(t, StageGeneration, s.Stage())
	assert.True(t, s.Flags().Finalized)
	assert.Len(t, exp.charges, 2)
	assert.Same(t, artifact, s.Artifact())

	require.NoError(t, s.Reset())
	assert.Equal(t, StageStart, s.Stage())
	assert.Equal(t, Flags{}, s.Flags())
	assert.Empty(t, s.Drafts())
	assert.Empty(t, s.Finalized())
	assert.Nil(t, s.Artifact())
	assert.Equal(t, record.InitialFilingRecord{}, s.InitialForm())
}

// =============================================================================
// INITIAL DATA
// =============================================================================

func TestSubmitInitialInvalidTaxIDReportsOneError(t *testing.T) {
	s := NewSession(nil, nil)
	require.NoError(t, s.Begin())
	require.NoError(t, s.EditInitial(func(r *record.InitialFilingRecord) {
		fillInitial(r)
		r.SupplierTaxID = "11222333000182"
	}))

	errs := fieldErrors(t, s.SubmitInitial())
	require.Len(t, errs, 1)
	assert.Equal(t, FieldSupplierTaxID, errs[0].Field)
	assert.Equal(t, validation.InitialRecord, errs[0].Draft)
	assert.Contains(t, errs[0].Error(), "CNPJ")

	assert.Equal(t, StageInitialData, s.Stage())
	assert.False(t, s.Flags().InitialValidated)
}

func TestSubmitInitialCollectsEveryError(t *testing.T) {
	s := NewSession(nil, nil)
	require.NoError(t, s.Begin())
	require.NoError(t, s.EditInitial(func(r *record.InitialFilingRecord) {
		r.HasLinkedContract = true
		r.LinkedContractNumber = "CT-1"
		r.HasLinkedOrder = true
		r.LinkedOrderNumber = "45000A2345"
		r.ContractingCompany = "Empresa Fantasma"
	}))

	fields := map[string]bool{}
	for _, e := range fieldErrors(t, s.SubmitInitial()) {
		fields[e.Field] = true
	}

	for _, f := range []string{
		FieldSupplierTaxID, FieldContractingCompany, FieldResponsibleLawyer,
		FieldDocumentType, FieldPlannedIssueDate, FieldLinkedContract,
		FieldLinkedOrder, FieldMeasurementNumber, FieldBriefDescription,
	} {
		assert.True(t, fields[f], f)
	}
}

func TestConditionalNumbersIgnoredWhenFlagOff(t *testing.T) {
	s := NewSession(nil, nil)
	require.NoError(t, s.Begin())
	require.NoError(t, s.EditInitial(func(r *record.InitialFilingRecord) {
		fillInitial(r)
		r.HasLinkedContract = false
		r.LinkedContractNumber = "x"
		r.HasLinkedOrder = false
		r.LinkedOrderNumber = "x"
	}))

	require.NoError(t, s.SubmitInitial())
	initial, _ := s.Initial()
	assert.Empty(t, initial.LinkedContractNumber)
	assert.Empty(t, initial.LinkedOrderNumber)
}

func TestInitialRecordFrozenAfterSubmit(t *testing.T) {
	s := NewSession(nil, nil)
	require.NoError(t, s.Begin())
	require.NoError(t, s.EditInitial(fillInitial))
	require.NoError(t, s.SubmitInitial())

	err := s.EditInitial(func(r *record.InitialFilingRecord) { r.BriefDescription = "outra" })
	assert.ErrorIs(t, err, ErrStageLocked)

	require.NoError(t, s.Back())
	assert.Equal(t, StageInitialData, s.Stage())
	require.NoError(t, s.EditInitial(func(r *record.InitialFilingRecord) { r.BriefDescription = "outra" }))

	// The persisted record only changes on the next successful submit.
	initial, _ := s.Initial()
	assert.Equal(t, "Honorários de outubro", initial.BriefDescription)

	require.NoError(t, s.SubmitInitial())
	initial, _ = s.Initial()
	assert.Equal(t, "outra", initial.BriefDescription)
}

func TestResubmitInitialRequiresNewConfirmation(t *testing.T) {
	s := toDetailedReview(t, &fakeExporter{})

	require.NoError(t, s.Navigate(StageInitialData))
	require.NoError(t, s.SubmitInitial())

	assert.False(t, s.Flags().ReviewConfirmed)
	assert.False(t, s.Flags().DetailingValidated)
	assert.Empty(t, s.Finalized())

	var gv *GuardViolation
	require.ErrorAs(t, s.Navigate(StageDetailing), &gv)
	assert.Equal(t, StageReview, gv.Redirect)
	assert.Equal(t, StageReview, s.Stage())
}

// =============================================================================
// DETAILING
// =============================================================================

func TestConfirmReviewNeedsOnlyValidatedInitialData(t *testing.T) {
	s := NewSession(nil, nil)
	require.NoError(t, s.Begin())
	require.NoError(t, s.EditInitial(fillInitial))
	require.NoError(t, s.SubmitInitial())
	require.False(t, s.Flags().ReviewConfirmed)

	require.NoError(t, s.ConfirmReview())
	assert.Equal(t, StageDetailing, s.Stage())
	assert.True(t, s.Flags().ReviewConfirmed)
}

func TestConfirmResetsDrafts(t *testing.T) {
	s := toDetailing(t, nil)
	_, err := s.AddDraft()
	require.NoError(t, err)
	require.Len(t, s.Drafts(), 2)

	require.NoError(t, s.Back())
	require.NoError(t, s.ConfirmReview())

	drafts := s.Drafts()
	require.Len(t, drafts, 1)
	assert.Empty(t, drafts[0].LegalMatter)
}

func TestZeroSecondaryAmountBlocksSubmit(t *testing.T) {
	s := toDetailing(t, nil)
	require.NoError(t, s.EditDraft(0, fillDraft))
	_, err := s.AddDraft()
	require.NoError(t, err)
	require.NoError(t, s.EditDraft(1, func(d *record.ChargeLineDraft) {
		fillDraft(d)
		d.HasSecondCharge = true
		d.Secondary = record.ChargeInput{BillingType: "Honorários", Amount: "0,00"}
	}))

	errs := fieldErrors(t, s.SubmitDetailing())
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Draft)
	assert.Equal(t, FieldSecondaryAmount, errs[0].Field)
	assert.Contains(t, errs[0].Error(), "Cobrança #2")
	assert.Contains(t, errs[0].Error(), "secondaryCharge.amount")

	assert.Equal(t, StageDetailing, s.Stage())
	assert.False(t, s.Flags().DetailingValidated)
}

func TestDraftErrorsAreCollectedAcrossDrafts(t *testing.T) {
	s := toDetailing(t, nil)
	_, err := s.AddDraft()
	require.NoError(t, err)
	require.NoError(t, s.EditDraft(1, func(d *record.ChargeLineDraft) {
		fillDraft(d)
		d.HasSpaiderNumber = true
		d.HasLinkedProject = true
		d.ProjectName = "LT Padre Paraíso - Governador Valadares"
	}))

	errs := fieldErrors(t, s.SubmitDetailing())

	byDraft := map[int][]string{}
	for _, e := range errs {
		byDraft[e.Draft] = append(byDraft[e.Draft], e.Field)
	}

	assert.ElementsMatch(t, []string{
		FieldLegalMatter,
		FieldPrimaryBillingType,
		FieldPrimaryAmount,
		FieldPrimaryServiceCode,
	}, byDraft[0])

	// The project belongs to another company.
	assert.ElementsMatch(t, []string{FieldSpaiderNumber, FieldProjectName}, byDraft[1])
}

func TestSegmentMustBelongToProject(t *testing.T) {
	s := toDetailing(t, nil)
	require.NoError(t, s.EditDraft(0, func(d *record.ChargeLineDraft) {
		fillDraft(d)
		d.HasLinkedProject = true
		d.ProjectName = "LT Itapeti - Nordeste"
		d.Segment = "Trecho A"
	}))

	errs := fieldErrors(t, s.SubmitDetailing())
	require.Len(t, errs, 1)
	assert.Equal(t, FieldSegment, errs[0].Field)
}

func TestRemoveFirstDraftRejected(t *testing.T) {
	s := toDetailing(t, nil)
	assert.ErrorIs(t, s.RemoveDraft(0), ErrFirstDraft)
	assert.Len(t, s.Drafts(), 1)
	assert.ErrorIs(t, s.RemoveDraft(5), ErrDraftIndex)
}

func TestRemoveDraftRenumbers(t *testing.T) {
	s := toDetailing(t, nil)
	for i := 0; i < 2; i++ {
		_, err := s.AddDraft()
		require.NoError(t, err)
	}
	for i, n := range []string{"ESP-0", "ESP-1", "ESP-2"} {
		n := n
		require.NoError(t, s.EditDraft(i, func(d *record.ChargeLineDraft) {
			d.HasSpaiderNumber = true
			d.SpaiderNumber = n
		}))
	}
	before := s.Drafts()

	require.NoError(t, s.RemoveDraft(1))

	after := s.Drafts()
	require.Len(t, after, 2)
	assert.Equal(t, before[0].Key, after[0].Key)
	assert.Equal(t, "ESP-0", after[0].SpaiderNumber)
	assert.Equal(t, before[2].Key, after[1].Key)
	assert.Equal(t, "ESP-2", after[1].SpaiderNumber)

	require.NoError(t, s.RemoveDraft(1))
	after = s.Drafts()
	require.Len(t, after, 1)
	assert.Equal(t, before[0].Key, after[0].Key)
}

func TestEditDraftKeepsKey(t *testing.T) {
	s := toDetailing(t, nil)
	key := s.Drafts()[0].Key
	require.NoError(t, s.EditDraft(0, func(d *record.ChargeLineDraft) {
		d.Key = record.NewDraft().Key
		d.LegalMatter = "Cível"
	}))
	assert.Equal(t, key, s.Drafts()[0].Key)
	assert.Equal(t, "Cível", s.Drafts()[0].LegalMatter)
}

func TestDraftsLockedOutsideDetailing(t *testing.T) {
	s := toDetailedReview(t, nil)

	_, err := s.AddDraft()
	assert.ErrorIs(t, err, ErrStageLocked)
	assert.ErrorIs(t, s.EditDraft(0, fillDraft), ErrStageLocked)
	assert.ErrorIs(t, s.RemoveDraft(1), ErrStageLocked)
}

func TestBackFromDetailedReviewClearsValidation(t *testing.T) {
	s := toDetailedReview(t, nil)
	require.NoError(t, s.Back())

	assert.Equal(t, StageDetailing, s.Stage())
	assert.False(t, s.Flags().DetailingValidated)
	assert.Empty(t, s.Finalized())

	var gv *GuardViolation
	require.ErrorAs(t, s.Navigate(StageDetailedReview), &gv)
	assert.Equal(t, StageDetailing, gv.Redirect)
	assert.Equal(t, StageDetailing, s.Stage())
}

// =============================================================================
// NAVIGATION
// =============================================================================

func TestNavigateRedirectsToNearestReachableStage(t *testing.T) {
	s := NewSession(nil, nil)

	var gv *GuardViolation
	require.ErrorAs(t, s.Navigate(StageGeneration), &gv)
	assert.Equal(t, StageGeneration, gv.Target)
	assert.Equal(t, StageInitialData, gv.Redirect)
	assert.NotEmpty(t, gv.Reason)
	assert.Equal(t, StageInitialData, s.Stage())

	require.NoError(t, s.EditInitial(fillInitial))
	require.NoError(t, s.SubmitInitial())

	require.ErrorAs(t, s.Navigate(StageDetailedReview), &gv)
	assert.Equal(t, StageReview, gv.Redirect)
}

func TestNavigateAllowsReentry(t *testing.T) {
	s := toDetailedReview(t, nil)

	require.NoError(t, s.Navigate(StageReview))
	assert.Equal(t, StageReview, s.Stage())
	assert.True(t, s.Flags().DetailingValidated)

	require.NoError(t, s.Navigate(StageDetailedReview))
	assert.Equal(t, StageDetailedReview, s.Stage())

	require.NoError(t, s.Navigate(StageStart))
	assert.Equal(t, StageStart, s.Stage())
}

func TestNavigateToStartFromGenerationResets(t *testing.T) {
	s := toDetailedReview(t, &fakeExporter{})
	_, err := s.Finalize()
	require.NoError(t, err)

	require.NoError(t, s.Navigate(StageStart))
	assert.Equal(t, StageStart, s.Stage())
	assert.Equal(t, Flags{}, s.Flags())
	assert.Empty(t, s.Drafts())
	assert.Empty(t, s.Finalized())
	assert.Nil(t, s.Artifact())
	_, ok := s.Initial()
	assert.False(t, ok)
}

func TestInvalidTransitions(t *testing.T) {
	s := NewSession(nil, nil)
	assert.ErrorIs(t, s.SubmitInitial(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Back(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Reset(), ErrInvalidTransition)

	_, err := s.Finalize()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, s.Begin())
	assert.ErrorIs(t, s.Begin(), ErrInvalidTransition)
	assert.ErrorIs(t, s.ConfirmReview(), ErrInvalidTransition)
}

// =============================================================================
// GENERATION
// =============================================================================

func TestExportFailureKeepsState(t *testing.T) {
	exp := &fakeExporter{err: errors.New("disk full")}
	s := toDetailedReview(t, exp)

	_, err := s.Finalize()
	var failure *ExportFailure
	require.ErrorAs(t, err, &failure)
	assert.EqualError(t, errors.Unwrap(err), "disk full")

	assert.Equal(t, StageGeneration, s.Stage())
	assert.True(t, s.Flags().Finalized)
	assert.True(t, s.Flags().DetailingValidated)
	assert.Len(t, s.Finalized(), 1)
	assert.Nil(t, s.Artifact())

	exp.err = nil
	artifact, err := s.Finalize()
	require.NoError(t, err)
	assert.NotNil(t, artifact)
	assert.Equal(t, 2, exp.calls)
}

func TestFinalizeWithoutExporter(t *testing.T) {
	s := toDetailedReview(t, nil)
	_, err := s.Finalize()

	var failure *ExportFailure
	assert.ErrorAs(t, err, &failure)
}

func TestStageParsing(t *testing.T) {
	for _, st := range Stages {
		got, err := ParseStage(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	got, err := ParseStage("revisao detalhada")
	require.NoError(t, err)
	assert.Equal(t, StageDetailedReview, got)

	got, err = ParseStage("Geração do Arquivo")
	require.NoError(t, err)
	assert.Equal(t, StageGeneration, got)

	got, err = ParseStage("2")
	require.NoError(t, err)
	assert.Equal(t, StageInitialData, got)

	_, err = ParseStage("pagamento")
	assert.Error(t, err)

	assert.Equal(t, "Revisão Detalhada", StageDetailedReview.Title())
}
