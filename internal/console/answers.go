package console

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/medicao-juridica/internal/catalog"
	"github.com/ginjaninja78/medicao-juridica/internal/record"
	"github.com/ginjaninja78/medicao-juridica/internal/validation"
	"github.com/ginjaninja78/medicao-juridica/internal/wizard"
)

// Answers is a whole wizard run written down in advance.
//
//	dados:
//	  cnpj: "11.222.333/0001-81"
//	  empresa: ISA Energia Brasil
//	  advogado: Fernanda Lima
//	  tipo_documento: Nota Fiscal
//	  data_prevista: 2026-10-05
//	  possui_pedido: true
//	  numero_pedido: "4500012345"
//	  numero_medicao: M-01
//	  descricao: Honorários de outubro
//	cobrancas:
//	  - materia: Cível
//	    cobranca: {tipo: Despesas, valor: "1.500,00"}
type Answers struct {
	Initial record.InitialFilingRecord `yaml:"dados"`
	Charges []record.ChargeLineDraft   `yaml:"cobrancas"`
}

// LoadAnswers reads an answers file.
func LoadAnswers(path string) (*Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}

	var a Answers
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse answers file: %w", err)
	}
	return &a, nil
}

// Apply drives s from start (or initialData) to detailedReview with the
// answers. Catalog values are matched like typed console input, amounts are
// read as values (see amount). The first failing transition's
// error is returned and s is left at that stage.
func Apply(s *wizard.Session, a *Answers) error {
	if len(a.Charges) == 0 {
		return errors.New("answers file has no charges")
	}

	if s.Stage() == wizard.StageStart {
		if err := s.Begin(); err != nil {
			return err
		}
	}

	cat := s.Catalog()

	initial := a.Initial
	resolve(&initial.ContractingCompany, cat.CompanyNames())
	resolve(&initial.ResponsibleLawyer, cat.Lawyers)
	resolve(&initial.DocumentType, cat.DocumentTypes)

	if err := s.EditInitial(func(r *record.InitialFilingRecord) { *r = initial }); err != nil {
		return err
	}
	if err := s.SubmitInitial(); err != nil {
		return err
	}
	if err := s.ConfirmReview(); err != nil {
		return err
	}

	company := initial.ContractingCompany
	for i, d := range a.Charges {
		if i > 0 {
			if _, err := s.AddDraft(); err != nil {
				return err
			}
		}

		d = normalizeDraft(d, company, cat)
		if err := s.EditDraft(i, func(dst *record.ChargeLineDraft) { *dst = d }); err != nil {
			return err
		}
	}

	return s.SubmitDetailing()
}

func normalizeDraft(d record.ChargeLineDraft, company string, cat *catalog.Catalog) record.ChargeLineDraft {
	resolve(&d.ProjectName, cat.Projects(company))
	resolve(&d.Segment, cat.Segments(company, d.ProjectName))
	resolve(&d.LegalMatter, cat.LegalMatters)
	resolve(&d.Primary.BillingType, cat.BillingTypes)
	resolve(&d.Secondary.BillingType, cat.BillingTypes)
	d.Primary.Amount = amount(d.Primary.Amount)
	d.Secondary.Amount = amount(d.Secondary.Amount)
	return d
}

// amount reads a written-out amount as a value, so 1500, 1500.00 and
// "1.500,00" all become "1.500,00". Unparseable text becomes "0,00" and is
// rejected by validation.
func amount(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return validation.FormatAmount(validation.ParseMonetary(text))
}

// resolve replaces *value with its catalog spelling when it matches one
// option. Unmatched values are kept for validation to report.
func resolve(value *string, options []string) {
	if *value == "" {
		return
	}
	if match, ok := catalog.Resolve(options, *value); ok {
		*value = match
	}
}
