package export

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/medicao-juridica/internal/record"
	"github.com/ginjaninja78/medicao-juridica/internal/validation"
)

// =============================================================================
// FLAT TABLE
// =============================================================================
//
// Every tabular export (the hidden "BD" sheet, the CSV file) writes the same
// denormalized table: one row per line entry, repeating the initial-record
// fields so each row stands on its own.
//
// =============================================================================

// TableHeader is the header row of the flat table.
var TableHeader = []string{
	"Nº Medição",
	"CNPJ",
	"Empresa",
	"Advogado",
	"Tipo Documento",
	"Data Emissão",
	"Contrato",
	"Pedido",
	"Descrição",
	"Idx",
	"Cobrança",
	"Nº Espaider",
	"Projeto",
	"Trecho",
	"Matéria",
	"Tipo Cobrança",
	"Valor",
	"Código Serviço",
}

// ValueColumn is the 0-based index of "Valor" in TableHeader.
const ValueColumn = 16

// Labels of the Cobrança column.
const (
	PrimaryChargeLabel   = "Principal"
	SecondaryChargeLabel = "Segunda"
)

// TableRow is one row of the flat table. Cells holds display text for every
// column; Value holds the numeric amount behind Cells[ValueColumn].
type TableRow struct {
	Cells []string
	Value decimal.Decimal
}

// Table builds the flat table rows for a finalized billing.
func Table(initial record.InitialFilingRecord, charges []record.FinalizedChargeRecord) []TableRow {
	lines := record.Flatten(charges)
	rows := make([]TableRow, 0, len(lines))

	for _, l := range lines {
		kind := PrimaryChargeLabel
		if l.Secondary {
			kind = SecondaryChargeLabel
		}

		rows = append(rows, TableRow{
			Cells: []string{
				initial.InternalMeasurementNumber,
				validation.FormatTaxID(initial.SupplierTaxID),
				initial.ContractingCompany,
				initial.ResponsibleLawyer,
				initial.DocumentType,
				initial.IssueDate(),
				initial.ContractLabel(),
				initial.OrderLabel(),
				initial.BriefDescription,
				strconv.Itoa(l.Charge + 1),
				kind,
				l.SpaiderNumber,
				l.ProjectName,
				l.Segment,
				l.LegalMatter,
				l.BillingType,
				validation.FormatAmount(l.Value),
				l.ServiceCode,
			},
			Value: l.Value,
		})
	}

	return rows
}
