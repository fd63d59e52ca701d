// =============================================================================
// Medição Jurídica - XLSX Exporter
// =============================================================================
//
// This module writes a finalized billing as an Excel workbook.
//
// WORKBOOK LAYOUT:
//
//   Sheet "Medições" (visible, protected)
//     B2        : "ISA Energia" banner
//     D2 / D3   : "Nº medição jurídica" / internal measurement number
//     B5:C9     : CNPJ, Empresa, Advogado, Tipo Documento, Data Emissão
//     E5:F7     : Contrato, Pedido, Descrição
//     Row 12    : charge table header
//                 Idx | Nº Espaider | Projeto | Trecho | Matéria | Tipo Cobrança | Valor | Resumo
//     Row 13+   : one row per line entry, then a total row
//
//   Sheet "BD" (hidden, protected)
//     One flat row per line entry repeating the initial-record fields.
//
// =============================================================================

package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ginjaninja78/medicao-juridica/internal/catalog"
	"github.com/ginjaninja78/medicao-juridica/internal/export"
	"github.com/ginjaninja78/medicao-juridica/internal/record"
	"github.com/ginjaninja78/medicao-juridica/internal/validation"
	"github.com/ginjaninja78/medicao-juridica/pkg/utils"
)

// Format is the registry key of this exporter.
const Format = "xlsx"

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names.
const (
	SheetMain = "Medições"
	SheetData = "BD"
)

// Layout constants.
const (
	Banner             = "ISA Energia"
	HeaderRow          = 12
	ColumnWidth        = 18.0
	HeaderFontFamily   = "Segoe UI"
	HeaderFill         = "002060"
	DefaultFileFormat  = "Medições_{measurement}"
	DefaultSheetSecret = "medicao"
)

// ChargeHeaders is the header row of the charge table.
var ChargeHeaders = []string{"Idx", "Nº Espaider", "Projeto", "Trecho", "Matéria", "Tipo Cobrança", "Valor", "Resumo"}

// =============================================================================
// EXPORTER
// =============================================================================

// Options configures the exporter.
type Options struct {
	// SheetPassword protects both sheets. Empty means DefaultSheetSecret.
	SheetPassword string

	// FileNameFormat is passed to utils.GenerateOutputFileName with the
	// "measurement" placeholder. Empty means DefaultFileFormat.
	FileNameFormat string
}

// Exporter writes billings as Excel workbooks.
type Exporter struct {
	opts   Options
	logger *zap.Logger
}

// New creates an xlsx exporter. A nil logger disables logging.
func New(opts Options, logger *zap.Logger) *Exporter {
	if opts.SheetPassword == "" {
		opts.SheetPassword = DefaultSheetSecret
	}
	if opts.FileNameFormat == "" {
		opts.FileNameFormat = DefaultFileFormat
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{opts: opts, logger: logger}
}

// Format returns "xlsx".
func (e *Exporter) Format() string { return Format }

// Export builds the workbook.
//
// PARAMETERS:
//   - initial: The persisted initial record.
//   - charges: The finalized charge records, non-empty.
//   - cat: The active catalog (unused by this layout).
//
// RETURNS:
//   - The workbook artifact named after the measurement number.
//   - An error if any cell, style or sheet operation fails.
func (e *Exporter) Export(initial record.InitialFilingRecord, charges []record.FinalizedChargeRecord, _ *catalog.Catalog) (*export.Artifact, error) {
	if len(charges) == 0 {
		return nil, fmt.Errorf("no charges to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMain); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeHeaderBlock(f, initial); err != nil {
		return nil, err
	}
	if err := writeChargeTable(f, styles, charges); err != nil {
		return nil, err
	}
	if err := writeDataSheet(f, styles, initial, charges); err != nil {
		return nil, err
	}

	for _, sheet := range []string{SheetMain, SheetData} {
		if err := f.ProtectSheet(sheet, &excelize.SheetProtectionOptions{
			Password:            e.opts.SheetPassword,
			SelectLockedCells:   true,
			SelectUnlockedCells: true,
		}); err != nil {
			return nil, fmt.Errorf("failed to protect sheet %s: %w", sheet, err)
		}
	}

	if idx, err := f.GetSheetIndex(SheetMain); err == nil {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	name := utils.GenerateOutputFileName(e.opts.FileNameFormat, ".xlsx", map[string]string{
		"measurement": initial.InternalMeasurementNumber,
	})

	e.logger.Info("workbook generated",
		zap.String("file", name),
		zap.Int("charges", len(charges)),
		zap.Int("bytes", buf.Len()),
	)

	return &export.Artifact{
		FileName:    name,
		ContentType: ContentType,
		Data:        buf.Bytes(),
	}, nil
}

// =============================================================================
// STYLES
// =============================================================================

type styles struct {
	header int
	cell   int
	amount int
	total  int
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	var s styles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: HeaderFontFamily, Size: 11, Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{HeaderFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    border,
	})
	if err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}

	s.cell, err = f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return s, fmt.Errorf("failed to create cell style: %w", err)
	}

	// 4 is the built-in "#,##0.00" format.
	s.amount, err = f.NewStyle(&excelize.Style{Border: border, NumFmt: 4})
	if err != nil {
		return s, fmt.Errorf("failed to create amount style: %w", err)
	}

	s.total, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: border,
		NumFmt: 4,
	})
	if err != nil {
		return s, fmt.Errorf("failed to create total style: %w", err)
	}

	return s, nil
}

// =============================================================================
// SHEET WRITERS
// =============================================================================

func writeHeaderBlock(f *excelize.File, initial record.InitialFilingRecord) error {
	cells := []struct {
		cell  string
		value string
	}{
		{"B2", Banner},
		{"D2", "Nº medição jurídica"},
		{"D3", initial.InternalMeasurementNumber},
		{"B5", "CNPJ"},
		{"C5", validation.FormatTaxID(initial.SupplierTaxID)},
		{"B6", "Empresa"},
		{"C6", initial.ContractingCompany},
		{"B7", "Advogado"},
		{"C7", initial.ResponsibleLawyer},
		{"B8", "Tipo Documento"},
		{"C8", initial.DocumentType},
		{"B9", "Data Emissão"},
		{"C9", initial.IssueDate()},
		{"E5", "Contrato"},
		{"F5", initial.ContractLabel()},
		{"E6", "Pedido"},
		{"F6", initial.OrderLabel()},
		{"E7", "Descrição"},
		{"F7", initial.BriefDescription},
	}

	for _, c := range cells {
		if err := f.SetCellValue(SheetMain, c.cell, c.value); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.cell, err)
		}
	}
	return nil
}

func writeChargeTable(f *excelize.File, s styles, charges []record.FinalizedChargeRecord) error {
	if err := writeRow(f, SheetMain, HeaderRow, toAny(ChargeHeaders)); err != nil {
		return err
	}
	if err := styleRow(f, SheetMain, HeaderRow, len(ChargeHeaders), s.header); err != nil {
		return err
	}

	row := HeaderRow
	for _, line := range record.Flatten(charges) {
		row++
		values := []any{
			line.Charge + 1,
			line.SpaiderNumber,
			line.ProjectName,
			line.Segment,
			line.LegalMatter,
			line.BillingType,
			line.Value.InexactFloat64(),
			line.ServiceCode,
		}
		if err := writeRow(f, SheetMain, row, values); err != nil {
			return err
		}
		if err := styleRow(f, SheetMain, row, len(values), s.cell); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetMain, cellName(7, row), cellName(7, row), s.amount); err != nil {
			return fmt.Errorf("failed to style amount: %w", err)
		}
	}

	row++
	if err := f.SetCellValue(SheetMain, cellName(6, row), "Total"); err != nil {
		return fmt.Errorf("failed to write total label: %w", err)
	}
	if err := f.SetCellValue(SheetMain, cellName(7, row), record.Total(charges).InexactFloat64()); err != nil {
		return fmt.Errorf("failed to write total: %w", err)
	}
	if err := f.SetCellStyle(SheetMain, cellName(6, row), cellName(7, row), s.total); err != nil {
		return fmt.Errorf("failed to style total: %w", err)
	}

	if err := f.SetColWidth(SheetMain, "A", "H", ColumnWidth); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}

func writeDataSheet(f *excelize.File, s styles, initial record.InitialFilingRecord, charges []record.FinalizedChargeRecord) error {
	if _, err := f.NewSheet(SheetData); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetData, err)
	}

	if err := writeRow(f, SheetData, 1, toAny(export.TableHeader)); err != nil {
		return err
	}
	if err := styleRow(f, SheetData, 1, len(export.TableHeader), s.header); err != nil {
		return err
	}

	for i, r := range export.Table(initial, charges) {
		values := toAny(r.Cells)
		values[export.ValueColumn] = r.Value.InexactFloat64()
		if err := writeRow(f, SheetData, i+2, values); err != nil {
			return err
		}
	}

	last, _ := excelize.ColumnNumberToName(len(export.TableHeader))
	if err := f.SetColWidth(SheetData, "A", last, ColumnWidth); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.SetSheetVisible(SheetData, false); err != nil {
		return fmt.Errorf("failed to hide sheet %s: %w", SheetData, err)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	if err := f.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, columns, style int) error {
	if err := f.SetCellStyle(sheet, cellName(1, row), cellName(columns, row), style); err != nil {
		return fmt.Errorf("failed to style row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// cellName converts 1-based column and row numbers to "A1" notation.
func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
