package csv

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/medicao-juridica/internal/derivation"
	"github.com/ginjaninja78/medicao-juridica/internal/export"
	"github.com/ginjaninja78/medicao-juridica/internal/record"
)

func TestExport(t *testing.T) {
	initial := record.InitialFilingRecord{
		SupplierTaxID:             "02998611000104",
		ContractingCompany:        "Interligação Elétrica Aimorés",
		InternalMeasurementNumber: "M-7",
	}

	d := record.NewDraft()
	d.LegalMatter = "Cível"
	d.Primary = record.ChargeInput{BillingType: "Despesas", Amount: "1.234,56"}
	charges := []record.FinalizedChargeRecord{record.Finalize(d, derivation.DefaultAbbreviations())}

	a, err := New("", nil).Export(initial, charges, nil)
	require.NoError(t, err)
	assert.Equal(t, "Medições_M-7.csv", a.FileName)
	assert.Equal(t, ContentType, a.ContentType)

	data := bytes.TrimPrefix(a.Data, []byte("\ufeff"))
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, export.TableHeader, rows[0])
	assert.Equal(t, "02.998.611/0001-04", rows[1][1])
	assert.Equal(t, "Interligação Elétrica Aimorés", rows[1][2])
	assert.Equal(t, "1.234,56", rows[1][export.ValueColumn])
	assert.Equal(t, "DESP_CIV", rows[1][17])
}

func TestExportRejectsEmptyCharges(t *testing.T) {
	_, err := New("", nil).Export(record.InitialFilingRecord{}, nil, nil)
	assert.Error(t, err)
}
