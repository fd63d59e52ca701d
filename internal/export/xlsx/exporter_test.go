package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/medicao-juridica/internal/catalog"
	"github.com/ginjaninja78/medicao-juridica/internal/derivation"
	"github.com/ginjaninja78/medicao-juridica/internal/record"
)

func fixture() (record.InitialFilingRecord, []record.FinalizedChargeRecord) {
	initial := record.InitialFilingRecord{
		SupplierTaxID:             "11222333000181",
		ContractingCompany:        "ISA Energia Brasil",
		ResponsibleLawyer:         "Fernanda Lima",
		DocumentType:              "Nota Fiscal",
		PlannedIssueDate:          time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		HasLinkedOrder:            true,
		LinkedOrderNumber:         "4500012345",
		InternalMeasurementNumber: "M-2026/10",
		BriefDescription:          "Honorários de outubro",
	}

	abbr := derivation.DefaultAbbreviations()

	first := record.NewDraft()
	first.HasSpaiderNumber = true
	first.SpaiderNumber = "ESP-1"
	first.LegalMatter = "Cível"
	first.Primary = record.ChargeInput{BillingType: "Despesas", Amount: "1.500,00"}
	first.HasSecondCharge = true
	first.Secondary = record.ChargeInput{BillingType: "Honorários", Amount: "250,50"}

	second := record.NewDraft()
	second.HasLinkedProject = true
	second.ProjectName = "LT Itapeti - Nordeste"
	second.Segment = "Trecho 2"
	second.LegalMatter = "Ambiental"
	second.Primary = record.ChargeInput{BillingType: "Parecer", Amount: "100,00"}

	return initial, []record.FinalizedChargeRecord{
		record.Finalize(first, abbr),
		record.Finalize(second, abbr),
	}
}

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func raw(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestExportArtifact(t *testing.T) {
	initial, charges := fixture()

	a, err := New(Options{}, nil).Export(initial, charges, catalog.Default())
	require.NoError(t, err)

	assert.Equal(t, "Medições_M-2026-10.xlsx", a.FileName)
	assert.Equal(t, ContentType, a.ContentType)
	assert.NotEmpty(t, a.Data)
}

func TestExportMainSheetLayout(t *testing.T) {
	initial, charges := fixture()

	a, err := New(Options{}, nil).Export(initial, charges, nil)
	require.NoError(t, err)
	f := open(t, a.Data)

	assert.Equal(t, []string{SheetMain, SheetData}, f.GetSheetList())

	assert.Equal(t, Banner, raw(t, f, SheetMain, "B2"))
	assert.Equal(t, "Nº medição jurídica", raw(t, f, SheetMain, "D2"))
	assert.Equal(t, "M-2026/10", raw(t, f, SheetMain, "D3"))
	assert.Equal(t, "11.222.333/0001-81", raw(t, f, SheetMain, "C5"))
	assert.Equal(t, "ISA Energia Brasil", raw(t, f, SheetMain, "C6"))
	assert.Equal(t, "05/10/2026", raw(t, f, SheetMain, "C9"))
	assert.Equal(t, "Não", raw(t, f, SheetMain, "F5"))
	assert.Equal(t, "4500012345", raw(t, f, SheetMain, "F6"))

	for i, h := range ChargeHeaders {
		assert.Equal(t, h, raw(t, f, SheetMain, cellName(i+1, HeaderRow)))
	}

	// Row 13: primary of charge 1; row 14: its second charge; row 15: charge 2.
	assert.Equal(t, "1", raw(t, f, SheetMain, "A13"))
	assert.Equal(t, "ESP-1", raw(t, f, SheetMain, "B13"))
	assert.Equal(t, "1500", raw(t, f, SheetMain, "G13"))
	assert.Equal(t, "DESP_CIV", raw(t, f, SheetMain, "H13"))

	assert.Equal(t, "1", raw(t, f, SheetMain, "A14"))
	assert.Equal(t, "250.5", raw(t, f, SheetMain, "G14"))
	assert.Equal(t, "HON_CIV", raw(t, f, SheetMain, "H14"))

	assert.Equal(t, "2", raw(t, f, SheetMain, "A15"))
	assert.Equal(t, "Trecho 2", raw(t, f, SheetMain, "D15"))
	assert.Equal(t, "PAR_AMB", raw(t, f, SheetMain, "H15"))

	assert.Equal(t, "Total", raw(t, f, SheetMain, "F16"))
	assert.Equal(t, "1850.5", raw(t, f, SheetMain, "G16"))

	width, err := f.GetColWidth(SheetMain, "C")
	require.NoError(t, err)
	assert.Equal(t, ColumnWidth, width)
}

func TestExportDataSheetIsHidden(t *testing.T) {
	initial, charges := fixture()

	a, err := New(Options{SheetPassword: "segredo"}, nil).Export(initial, charges, nil)
	require.NoError(t, err)
	f := open(t, a.Data)

	visible, err := f.GetSheetVisible(SheetData)
	require.NoError(t, err)
	assert.False(t, visible)

	rows, err := f.GetRows(SheetData, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Nº Medição", rows[0][0])
	assert.Equal(t, "M-2026/10", rows[1][0])
	assert.Equal(t, "Fernanda Lima", rows[1][3])
	assert.Equal(t, "Segunda", rows[2][10])
	assert.Equal(t, "LT Itapeti - Nordeste", rows[3][12])
	assert.Equal(t, "100", rows[3][16])
}

func TestExportRejectsEmptyCharges(t *testing.T) {
	initial, _ := fixture()
	_, err := New(Options{}, nil).Export(initial, nil, nil)
	assert.Error(t, err)
}

func TestExportFileNameFallsBackToTimestamp(t *testing.T) {
	initial, charges := fixture()
	initial.InternalMeasurementNumber = ""

	a, err := New(Options{}, nil).Export(initial, charges, nil)
	require.NoError(t, err)
	assert.Regexp(t, `^Medições_\d{8}_\d{6}\.xlsx$`, a.FileName)
}
