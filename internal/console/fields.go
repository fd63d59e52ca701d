package console

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ginjaninja78/medicao-juridica/internal/catalog"
	"github.com/ginjaninja78/medicao-juridica/internal/record"
	"github.com/ginjaninja78/medicao-juridica/internal/validation"
)

// =============================================================================
// INITIAL RECORD FIELDS
// =============================================================================

type initialSetter func(r *record.InitialFilingRecord, value string, cat *catalog.Catalog) error

// initialFields maps the field names accepted by "definir" to setters. The
// names match the YAML keys of an answers file.
var initialFields = map[string]initialSetter{
	"cnpj": func(r *record.InitialFilingRecord, v string, _ *catalog.Catalog) error {
		r.SupplierTaxID = v
		return nil
	},
	"empresa": func(r *record.InitialFilingRecord, v string, cat *catalog.Catalog) error {
		return choose(&r.ContractingCompany, cat.CompanyNames(), v, "empresa")
	},
	"advogado": func(r *record.InitialFilingRecord, v string, cat *catalog.Catalog) error {
		return choose(&r.ResponsibleLawyer, cat.Lawyers, v, "advogado")
	},
	"tipo_documento": func(r *record.InitialFilingRecord, v string, cat *catalog.Catalog) error {
		return choose(&r.DocumentType, cat.DocumentTypes, v, "tipo_documento")
	},
	"data_prevista": func(r *record.InitialFilingRecord, v string, _ *catalog.Catalog) error {
		d, err := parseDate(v)
		if err != nil {
			return err
		}
		r.PlannedIssueDate = d
		return nil
	},
	"possui_contrato": func(r *record.InitialFilingRecord, v string, _ *catalog.Catalog) error {
		return setFlag(&r.HasLinkedContract, v)
	},
	"numero_contrato": func(r *record.InitialFilingRecord, v string, _ *catalog.Catalog) error {
		r.LinkedContractNumber = v
		return nil
	},
	"possui_pedido": func(r *record.InitialFilingRecord, v string, _ *catalog.Catalog) error {
		return setFlag(&r.HasLinkedOrder, v)
	},
	"numero_pedido": func(r *record.InitialFilingRecord, v string, _ *catalog.Catalog) error {
		r.LinkedOrderNumber = v
		return nil
	},
	"numero_medicao": func(r *record.InitialFilingRecord, v string, _ *catalog.Catalog) error {
		r.InternalMeasurementNumber = v
		return nil
	},
	"descricao": func(r *record.InitialFilingRecord, v string, _ *catalog.Catalog) error {
		r.BriefDescription = v
		return nil
	},
}

// =============================================================================
// CHARGE DRAFT FIELDS
// =============================================================================

type draftSetter func(d *record.ChargeLineDraft, value string, company string, cat *catalog.Catalog) error

var draftFields = map[string]draftSetter{
	"possui_espaider": func(d *record.ChargeLineDraft, v, _ string, _ *catalog.Catalog) error {
		return setFlag(&d.HasSpaiderNumber, v)
	},
	"numero_espaider": func(d *record.ChargeLineDraft, v, _ string, _ *catalog.Catalog) error {
		d.SpaiderNumber = v
		return nil
	},
	"possui_projeto": func(d *record.ChargeLineDraft, v, _ string, _ *catalog.Catalog) error {
		return setFlag(&d.HasLinkedProject, v)
	},
	"projeto": func(d *record.ChargeLineDraft, v, company string, cat *catalog.Catalog) error {
		previous := d.ProjectName
		if err := choose(&d.ProjectName, cat.Projects(company), v, "projeto"); err != nil {
			return err
		}
		if d.ProjectName != previous {
			d.Segment = ""
		}
		return nil
	},
	"trecho": func(d *record.ChargeLineDraft, v, company string, cat *catalog.Catalog) error {
		return choose(&d.Segment, cat.Segments(company, d.ProjectName), v, "trecho")
	},
	"materia": func(d *record.ChargeLineDraft, v, _ string, cat *catalog.Catalog) error {
		return choose(&d.LegalMatter, cat.LegalMatters, v, "materia")
	},
	"possui_segunda_cobranca": func(d *record.ChargeLineDraft, v, _ string, _ *catalog.Catalog) error {
		if err := setFlag(&d.HasSecondCharge, v); err != nil {
			return err
		}
		if !d.HasSecondCharge {
			d.Secondary = record.ChargeInput{}
		}
		return nil
	},
	"tipo_cobranca": func(d *record.ChargeLineDraft, v, _ string, cat *catalog.Catalog) error {
		return choose(&d.Primary.BillingType, cat.BillingTypes, v, "tipo_cobranca")
	},
	"valor": func(d *record.ChargeLineDraft, v, _ string, _ *catalog.Catalog) error {
		d.Primary.Amount = validation.FormatMonetaryInput(v)
		return nil
	},
	"tipo_segunda_cobranca": func(d *record.ChargeLineDraft, v, _ string, cat *catalog.Catalog) error {
		return choose(&d.Secondary.BillingType, cat.BillingTypes, v, "tipo_segunda_cobranca")
	},
	"valor_segunda_cobranca": func(d *record.ChargeLineDraft, v, _ string, _ *catalog.Catalog) error {
		d.Secondary.Amount = validation.FormatMonetaryInput(v)
		return nil
	},
}

// =============================================================================
// HELPERS
// =============================================================================

// choose resolves value against options and stores the match in dst. An
// empty value clears the field.
func choose(dst *string, options []string, value, field string) error {
	if strings.TrimSpace(value) == "" {
		*dst = ""
		return nil
	}
	match, ok := catalog.Resolve(options, value)
	if !ok {
		return fmt.Errorf("valor %q não encontrado para '%s'; use 'opcoes %s'", value, field, field)
	}
	*dst = match
	return nil
}

func setFlag(dst *bool, value string) error {
	b, err := ParseYesNo(value)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

// ParseYesNo reads "Sim"/"Não" answers, accents and case ignored.
func ParseYesNo(value string) (bool, error) {
	switch catalog.Fold(value) {
	case "sim", "s", "yes", "y", "true", "1":
		return true, nil
	case "nao", "n", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("resposta %q inválida; use Sim ou Não", value)
}

// parseDate accepts dd/mm/yyyy or yyyy-mm-dd.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{record.DateLayout, "2006-01-02"} {
		if d, err := time.Parse(layout, value); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("data %q inválida; use dd/mm/aaaa", value)
}

func fieldNames[T any](fields map[string]T) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
