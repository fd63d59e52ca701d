// =============================================================================
// Medição Jurídica - Record Model
// =============================================================================
//
// This package contains the records collected by the wizard and consumed by
// the exporters:
//   - InitialFilingRecord   : one per run, the invoice header data
//   - ChargeLineDraft       : mutable charge lines edited in the detailing stage
//   - FinalizedChargeRecord : immutable copy of a validated draft
//   - LineEntry             : flattened primary/secondary line used for export
//
// Drafts are identified by their position in the session's list. The Key
// field is a stable correlation handle only; removal still renumbers.
//
// =============================================================================

package record

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/medicao-juridica/internal/derivation"
	"github.com/ginjaninja78/medicao-juridica/internal/validation"
)

// =============================================================================
// INITIAL FILING RECORD
// =============================================================================

// InitialFilingRecord is the header data of one billing ("medição").
type InitialFilingRecord struct {
	// SupplierTaxID is the supplier's CNPJ (14 digits, mask optional).
	SupplierTaxID string `yaml:"cnpj"`

	// ContractingCompany is a company from the catalog.
	ContractingCompany string `yaml:"empresa"`

	// ResponsibleLawyer is a lawyer from the catalog.
	ResponsibleLawyer string `yaml:"advogado"`

	// DocumentType is one of the catalog's document types.
	DocumentType string `yaml:"tipo_documento"`

	// PlannedIssueDate is the planned invoice issue date.
	PlannedIssueDate time.Time `yaml:"data_prevista"`

	// HasLinkedContract and LinkedContractNumber (10 characters, required iff
	// the flag is set).
	HasLinkedContract    bool   `yaml:"possui_contrato"`
	LinkedContractNumber string `yaml:"numero_contrato"`

	// HasLinkedOrder and LinkedOrderNumber (10 digits, required iff the flag
	// is set).
	HasLinkedOrder    bool   `yaml:"possui_pedido"`
	LinkedOrderNumber string `yaml:"numero_pedido"`

	// InternalMeasurementNumber is the supplier's internal document number.
	InternalMeasurementNumber string `yaml:"numero_medicao"`

	// BriefDescription is a short description of the invoice.
	BriefDescription string `yaml:"descricao"`
}

// Normalized returns a copy with text trimmed and the conditional numbers
// cleared when their flag is off.
func (r InitialFilingRecord) Normalized() InitialFilingRecord {
	r.SupplierTaxID = strings.TrimSpace(r.SupplierTaxID)
	r.ContractingCompany = strings.TrimSpace(r.ContractingCompany)
	r.ResponsibleLawyer = strings.TrimSpace(r.ResponsibleLawyer)
	r.DocumentType = strings.TrimSpace(r.DocumentType)
	r.LinkedContractNumber = strings.TrimSpace(r.LinkedContractNumber)
	r.LinkedOrderNumber = strings.TrimSpace(r.LinkedOrderNumber)
	r.InternalMeasurementNumber = strings.TrimSpace(r.InternalMeasurementNumber)
	r.BriefDescription = strings.TrimSpace(r.BriefDescription)

	if !r.HasLinkedContract {
		r.LinkedContractNumber = ""
	}
	if !r.HasLinkedOrder {
		r.LinkedOrderNumber = ""
	}

	return r
}

// IssueDate formats PlannedIssueDate as dd/mm/yyyy.
func (r InitialFilingRecord) IssueDate() string {
	if r.PlannedIssueDate.IsZero() {
		return ""
	}
	return r.PlannedIssueDate.Format(DateLayout)
}

// ContractLabel returns the contract number, or "Não" when there is none.
func (r InitialFilingRecord) ContractLabel() string {
	if r.HasLinkedContract {
		return r.LinkedContractNumber
	}
	return No
}

// OrderLabel returns the order number, or "Não" when there is none.
func (r InitialFilingRecord) OrderLabel() string {
	if r.HasLinkedOrder {
		return r.LinkedOrderNumber
	}
	return No
}

// DateLayout is the dd/mm/yyyy layout used for display and export.
const DateLayout = "02/01/2006"

// Yes/no labels used wherever a flag is shown to the user.
const (
	Yes = "Sim"
	No  = "Não"
)

// YesNo renders a flag as "Sim" or "Não".
func YesNo(b bool) string {
	if b {
		return Yes
	}
	return No
}

// =============================================================================
// CHARGE LINE DRAFT
// =============================================================================

// ChargeInput is the billing type and amount of one charge as entered.
type ChargeInput struct {
	BillingType string `yaml:"tipo"`

	// Amount is kept in its formatted entry form ("1.234,56").
	Amount string `yaml:"valor"`
}

// Value parses Amount.
func (c ChargeInput) Value() decimal.Decimal {
	return validation.ParseMonetary(c.Amount)
}

// ChargeLineDraft is one charge line being edited in the detailing stage.
type ChargeLineDraft struct {
	// Key correlates a draft across renders and tests. It is not its identity
	// in the session, which is its position.
	Key uuid.UUID `yaml:"-"`

	HasSpaiderNumber bool   `yaml:"possui_espaider"`
	SpaiderNumber    string `yaml:"numero_espaider"`

	HasLinkedProject bool   `yaml:"possui_projeto"`
	ProjectName      string `yaml:"projeto"`
	Segment          string `yaml:"trecho"`

	LegalMatter string `yaml:"materia"`

	HasSecondCharge bool        `yaml:"possui_segunda_cobranca"`
	Primary         ChargeInput `yaml:"cobranca"`
	Secondary       ChargeInput `yaml:"segunda_cobranca"`
}

// NewDraft returns an empty draft with a fresh key.
func NewDraft() ChargeLineDraft {
	return ChargeLineDraft{Key: uuid.New()}
}

// ServiceCodes derives the primary and secondary service codes from the
// current selections. The secondary code is empty when there is no second
// charge.
func (d ChargeLineDraft) ServiceCodes(abbr derivation.Abbreviations) (primary, secondary string) {
	primary = abbr.Derive(d.Primary.BillingType, d.LegalMatter)
	if d.HasSecondCharge {
		secondary = abbr.Derive(d.Secondary.BillingType, d.LegalMatter)
	}
	return primary, secondary
}

// =============================================================================
// FINALIZED CHARGE RECORD
// =============================================================================

// FinalizedCharge is one billed item of a finalized record.
type FinalizedCharge struct {
	BillingType string
	Amount      string
	Value       decimal.Decimal
	ServiceCode string
}

// FinalizedChargeRecord is the immutable form of a validated draft.
type FinalizedChargeRecord struct {
	Key           uuid.UUID
	SpaiderNumber string
	ProjectName   string
	Segment       string
	LegalMatter   string
	Primary       FinalizedCharge

	// Secondary is nil when the draft had no second charge.
	Secondary *FinalizedCharge
}

// Finalize converts a draft into a finalized record, dropping the values of
// disabled optional sections and persisting the derived service codes.
func Finalize(d ChargeLineDraft, abbr derivation.Abbreviations) FinalizedChargeRecord {
	primaryCode, secondaryCode := d.ServiceCodes(abbr)

	rec := FinalizedChargeRecord{
		Key:         d.Key,
		LegalMatter: strings.TrimSpace(d.LegalMatter),
		Primary:     finalizeCharge(d.Primary, primaryCode),
	}

	if d.HasSpaiderNumber {
		rec.SpaiderNumber = strings.TrimSpace(d.SpaiderNumber)
	}
	if d.HasLinkedProject {
		rec.ProjectName = strings.TrimSpace(d.ProjectName)
		rec.Segment = strings.TrimSpace(d.Segment)
	}
	if d.HasSecondCharge {
		secondary := finalizeCharge(d.Secondary, secondaryCode)
		rec.Secondary = &secondary
	}

	return rec
}

func finalizeCharge(in ChargeInput, code string) FinalizedCharge {
	return FinalizedCharge{
		BillingType: in.BillingType,
		Amount:      in.Amount,
		Value:       in.Value(),
		ServiceCode: code,
	}
}

// Total returns the sum of the primary and secondary amounts of r.
func (r FinalizedChargeRecord) Total() decimal.Decimal {
	total := r.Primary.Value
	if r.Secondary != nil {
		total = total.Add(r.Secondary.Value)
	}
	return total
}

// =============================================================================
// FLATTENED LINES
// =============================================================================

// LineEntry is one exported line: the shared context of a charge record plus
// one billed item.
type LineEntry struct {
	// Charge is the zero-based index of the source record.
	Charge int

	// Secondary marks the entry built from the second charge.
	Secondary bool

	SpaiderNumber string
	ProjectName   string
	Segment       string
	LegalMatter   string
	BillingType   string
	Amount        string
	Value         decimal.Decimal
	ServiceCode   string
}

// Lines expands r into one or two line entries.
func (r FinalizedChargeRecord) Lines(index int) []LineEntry {
	lines := []LineEntry{r.line(index, r.Primary, false)}
	if r.Secondary != nil {
		lines = append(lines, r.line(index, *r.Secondary, true))
	}
	return lines
}

func (r FinalizedChargeRecord) line(index int, c FinalizedCharge, secondary bool) LineEntry {
	return LineEntry{
		Charge:        index,
		Secondary:     secondary,
		SpaiderNumber: r.SpaiderNumber,
		ProjectName:   r.ProjectName,
		Segment:       r.Segment,
		LegalMatter:   r.LegalMatter,
		BillingType:   c.BillingType,
		Amount:        c.Amount,
		Value:         c.Value,
		ServiceCode:   c.ServiceCode,
	}
}

// Flatten expands records into line entries in record order.
func Flatten(records []FinalizedChargeRecord) []LineEntry {
	var lines []LineEntry
	for i, r := range records {
		lines = append(lines, r.Lines(i)...)
	}
	return lines
}

// Total sums every primary and secondary amount.
func Total(records []FinalizedChargeRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Total())
	}
	return total
}
