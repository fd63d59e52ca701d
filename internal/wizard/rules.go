// =============================================================================
// Medição Jurídica - Stage Validation Rules
// =============================================================================
//
// The rules applied before a submit transition is admitted:
//   - validateInitial : the initial filing record (initialData -> review)
//   - validateDrafts  : every charge line draft (detailing -> detailedReview)
//
// Both collect every failure; neither stops at the first one.
//
// =============================================================================

package wizard

import (
	"strings"

	"github.com/ginjaninja78/medicao-juridica/internal/catalog"
	"github.com/ginjaninja78/medicao-juridica/internal/derivation"
	"github.com/ginjaninja78/medicao-juridica/internal/record"
	"github.com/ginjaninja78/medicao-juridica/internal/validation"
)

// Fixed code lengths of the initial record.
const (
	ContractNumberLength = 10
	OrderNumberLength    = 10
)

// Field names used in FieldError.Field.
const (
	FieldSupplierTaxID        = "supplierTaxId"
	FieldContractingCompany   = "contractingCompany"
	FieldResponsibleLawyer    = "responsibleLawyer"
	FieldDocumentType         = "documentType"
	FieldPlannedIssueDate     = "plannedIssueDate"
	FieldLinkedContract       = "linkedContractNumber"
	FieldLinkedOrder          = "linkedOrderNumber"
	FieldMeasurementNumber    = "internalMeasurementNumber"
	FieldBriefDescription     = "briefDescription"
	FieldSpaiderNumber        = "spaiderNumber"
	FieldProjectName          = "projectName"
	FieldSegment              = "segment"
	FieldLegalMatter          = "legalMatter"
	FieldPrimaryBillingType   = "primaryCharge.billingType"
	FieldPrimaryAmount        = "primaryCharge.amount"
	FieldPrimaryServiceCode   = "primaryCharge.serviceCode"
	FieldSecondaryBillingType = "secondaryCharge.billingType"
	FieldSecondaryAmount      = "secondaryCharge.amount"
	FieldSecondaryServiceCode = "secondaryCharge.serviceCode"
)

// collector accumulates field errors for one record.
type collector struct {
	draft  int
	errors []validation.FieldError
}

func (c *collector) add(field, value, rule, message string) {
	c.errors = append(c.errors, validation.FieldError{
		Draft:   c.draft,
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	})
}

func (c *collector) required(field, value, message string) bool {
	if strings.TrimSpace(value) == "" {
		c.add(field, value, "required", message)
		return false
	}
	return true
}

// =============================================================================
// INITIAL RECORD
// =============================================================================

func validateInitial(r record.InitialFilingRecord, cat *catalog.Catalog) []validation.FieldError {
	c := &collector{draft: validation.InitialRecord}

	if !validation.IsValidTaxID(r.SupplierTaxID) {
		c.add(FieldSupplierTaxID, r.SupplierTaxID, "checksum", "CNPJ inválido ou vazio.")
	}

	if c.required(FieldContractingCompany, r.ContractingCompany, "Selecione a empresa contratante.") &&
		!cat.HasCompany(r.ContractingCompany) {
		c.add(FieldContractingCompany, r.ContractingCompany, "catalog", "Empresa não cadastrada.")
	}

	if c.required(FieldResponsibleLawyer, r.ResponsibleLawyer, "Selecione o advogado responsável.") &&
		!cat.HasLawyer(r.ResponsibleLawyer) {
		c.add(FieldResponsibleLawyer, r.ResponsibleLawyer, "catalog", "Advogado não cadastrado.")
	}

	if c.required(FieldDocumentType, r.DocumentType, "Selecione o tipo de documento.") &&
		!cat.HasDocumentType(r.DocumentType) {
		c.add(FieldDocumentType, r.DocumentType, "catalog", "Tipo de documento inválido.")
	}

	if r.PlannedIssueDate.IsZero() {
		c.add(FieldPlannedIssueDate, "", "required", "Informe a data prevista de emissão.")
	}

	if r.HasLinkedContract &&
		!validation.IsValidFixedLengthCode(r.LinkedContractNumber, ContractNumberLength, false) {
		c.add(FieldLinkedContract, r.LinkedContractNumber, "length",
			"O número do contrato deve ter exatamente 10 caracteres.")
	}

	if r.HasLinkedOrder &&
		!validation.IsValidFixedLengthCode(r.LinkedOrderNumber, OrderNumberLength, true) {
		c.add(FieldLinkedOrder, r.LinkedOrderNumber, "length",
			"O número do pedido deve ter exatamente 10 dígitos.")
	}

	c.required(FieldMeasurementNumber, r.InternalMeasurementNumber, "Informe o número interno da medição.")
	c.required(FieldBriefDescription, r.BriefDescription, "Informe uma breve descrição.")

	return c.errors
}

// =============================================================================
// CHARGE LINE DRAFTS
// =============================================================================

func validateDrafts(drafts []record.ChargeLineDraft, company string, cat *catalog.Catalog) []validation.FieldError {
	var errs []validation.FieldError
	for i, d := range drafts {
		errs = append(errs, validateDraft(i, d, company, cat)...)
	}
	return errs
}

func validateDraft(index int, d record.ChargeLineDraft, company string, cat *catalog.Catalog) []validation.FieldError {
	c := &collector{draft: index}

	if d.HasSpaiderNumber {
		c.required(FieldSpaiderNumber, d.SpaiderNumber, "Informe o Nº Espaider.")
	}

	if d.HasLinkedProject {
		if c.required(FieldProjectName, d.ProjectName, "Selecione o projeto.") {
			if !cat.HasProject(company, d.ProjectName) {
				c.add(FieldProjectName, d.ProjectName, "catalog", "Projeto não pertence à empresa contratante.")
			} else if d.Segment != "" && !cat.HasSegment(company, d.ProjectName, d.Segment) {
				c.add(FieldSegment, d.Segment, "catalog", "Trecho não pertence ao projeto.")
			}
		}
	}

	if c.required(FieldLegalMatter, d.LegalMatter, "Selecione a matéria.") && !cat.HasLegalMatter(d.LegalMatter) {
		c.add(FieldLegalMatter, d.LegalMatter, "catalog", "Matéria inválida.")
	}

	primary, secondary := d.ServiceCodes(cat.Abbreviations)
	checkCharge(c, d.Primary, primary, cat,
		FieldPrimaryBillingType, FieldPrimaryAmount, FieldPrimaryServiceCode)

	if d.HasSecondCharge {
		checkCharge(c, d.Secondary, secondary, cat,
			FieldSecondaryBillingType, FieldSecondaryAmount, FieldSecondaryServiceCode)
	}

	return c.errors
}

func checkCharge(c *collector, in record.ChargeInput, code string, cat *catalog.Catalog, typeField, amountField, codeField string) {
	if c.required(typeField, in.BillingType, "Selecione o tipo de cobrança.") && !cat.HasBillingType(in.BillingType) {
		c.add(typeField, in.BillingType, "catalog", "Tipo de cobrança inválido.")
	}

	if !validation.IsNonZeroAmount(in.Amount) {
		c.add(amountField, in.Amount, "nonzero", "O valor deve ser maior que zero.")
	}

	if derivation.IsPlaceholder(code) {
		c.add(codeField, code, "derived", "Código de serviço não resolvido.")
	}
}
