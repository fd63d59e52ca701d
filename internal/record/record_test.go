package record

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/medicao-juridica/internal/derivation"
)

func TestInitialRecordNormalizedClearsDisabledNumbers(t *testing.T) {
	r := InitialFilingRecord{
		SupplierTaxID:             " 11222333000181 ",
		HasLinkedContract:         false,
		LinkedContractNumber:      "CT-0000001",
		HasLinkedOrder:            true,
		LinkedOrderNumber:         " 4500012345 ",
		InternalMeasurementNumber: " M-01 ",
	}

	n := r.Normalized()
	assert.Equal(t, "11222333000181", n.SupplierTaxID)
	assert.Empty(t, n.LinkedContractNumber)
	assert.Equal(t, "4500012345", n.LinkedOrderNumber)
	assert.Equal(t, "M-01", n.InternalMeasurementNumber)

	// The receiver is a value; the original keeps its input.
	assert.Equal(t, "CT-0000001", r.LinkedContractNumber)
}

func TestInitialRecordLabels(t *testing.T) {
	r := InitialFilingRecord{
		PlannedIssueDate:  time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		HasLinkedOrder:    true,
		LinkedOrderNumber: "4500012345",
	}
	assert.Equal(t, "05/10/2026", r.IssueDate())
	assert.Equal(t, "Não", r.ContractLabel())
	assert.Equal(t, "4500012345", r.OrderLabel())
	assert.Equal(t, "", InitialFilingRecord{}.IssueDate())
	assert.Equal(t, "Sim", YesNo(true))
}

func TestDraftServiceCodesAreDerivedOnRead(t *testing.T) {
	abbr := derivation.DefaultAbbreviations()
	d := NewDraft()

	p, s := d.ServiceCodes(abbr)
	assert.Equal(t, derivation.Placeholder, p)
	assert.Empty(t, s)

	d.LegalMatter = "Cível"
	d.Primary.BillingType = "Despesas"
	p, _ = d.ServiceCodes(abbr)
	assert.Equal(t, "DESP_CIV", p)

	d.LegalMatter = "Trabalhista"
	p, _ = d.ServiceCodes(abbr)
	assert.Equal(t, "DESP_TRAB", p)

	d.HasSecondCharge = true
	_, s = d.ServiceCodes(abbr)
	assert.Equal(t, derivation.Placeholder, s)
}

func TestFinalizeDropsDisabledSections(t *testing.T) {
	d := NewDraft()
	d.HasSpaiderNumber = false
	d.SpaiderNumber = "ESP-1"
	d.HasLinkedProject = false
	d.ProjectName = "SE Bateias"
	d.LegalMatter = "Cível"
	d.Primary = ChargeInput{BillingType: "Despesas", Amount: "1.500,00"}
	d.HasSecondCharge = false
	d.Secondary = ChargeInput{BillingType: "Honorários", Amount: "10,00"}

	rec := Finalize(d, derivation.DefaultAbbreviations())

	assert.Equal(t, d.Key, rec.Key)
	assert.Empty(t, rec.SpaiderNumber)
	assert.Empty(t, rec.ProjectName)
	assert.Nil(t, rec.Secondary)
	assert.Equal(t, "DESP_CIV", rec.Primary.ServiceCode)
	assert.True(t, decimal.NewFromInt(1500).Equal(rec.Primary.Value))
}

func TestFlattenAndTotal(t *testing.T) {
	abbr := derivation.DefaultAbbreviations()

	first := NewDraft()
	first.HasSpaiderNumber = true
	first.SpaiderNumber = "ESP-1"
	first.LegalMatter = "Cível"
	first.Primary = ChargeInput{BillingType: "Despesas", Amount: "100,00"}
	first.HasSecondCharge = true
	first.Secondary = ChargeInput{BillingType: "Honorários", Amount: "1.000,50"}

	second := NewDraft()
	second.HasLinkedProject = true
	second.ProjectName = "SE Bateias"
	second.LegalMatter = "Ambiental"
	second.Primary = ChargeInput{BillingType: "Parecer", Amount: "0,50"}

	records := []FinalizedChargeRecord{Finalize(first, abbr), Finalize(second, abbr)}
	lines := Flatten(records)
	require.Len(t, lines, 3)

	assert.Equal(t, 0, lines[0].Charge)
	assert.False(t, lines[0].Secondary)
	assert.Equal(t, "DESP_CIV", lines[0].ServiceCode)

	assert.Equal(t, 0, lines[1].Charge)
	assert.True(t, lines[1].Secondary)
	assert.Equal(t, "ESP-1", lines[1].SpaiderNumber)
	assert.Equal(t, "HON_CIV", lines[1].ServiceCode)

	assert.Equal(t, 1, lines[2].Charge)
	assert.Equal(t, "SE Bateias", lines[2].ProjectName)
	assert.Equal(t, "PAR_AMB", lines[2].ServiceCode)

	assert.True(t, decimal.RequireFromString("1101").Equal(Total(records)), Total(records).String())
}
