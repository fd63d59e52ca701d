// =============================================================================
// Medição Jurídica - Service Code Derivation
// =============================================================================
//
// The service code ("Resumo") is a short label built from the billing type
// and the legal matter of a charge, e.g. ("Despesas", "Cível") -> "DESP_CIV".
//
// The code is never stored on a draft. It is a pure function of the two
// current selections and is copied into the finalized record only when the
// detailing stage is submitted.
//
// =============================================================================

package derivation

import "fmt"

// Placeholder stands in for a service code while either selection is empty.
const Placeholder = "Aguardando seleção..."

// Sentinels substituted for keys missing from the abbreviation maps.
const (
	UnknownBillingType = "TIPO?"
	UnknownLegalMatter = "MAT?"
)

// Abbreviations holds the two lookup tables used to compose service codes.
type Abbreviations struct {
	// BillingTypes maps a billing type ("Despesas") to its code ("DESP").
	BillingTypes map[string]string `yaml:"billing_types"`

	// LegalMatters maps a legal matter ("Cível") to its code ("CIV").
	LegalMatters map[string]string `yaml:"legal_matters"`
}

// DefaultAbbreviations returns the fixed abbreviation tables.
func DefaultAbbreviations() Abbreviations {
	return Abbreviations{
		BillingTypes: map[string]string{
			"Consultorias":       "CONSULT",
			"Despesas":           "DESP",
			"Êxito":              "EXITO",
			"Honorários":         "HON",
			"Parecer":            "PAR",
			"Perícia":            "PERIC",
			"Publicações Legais": "PUBL",
		},
		LegalMatters: map[string]string{
			"Administrativo":           "ADM",
			"Ambiental":                "AMB",
			"Cível":                    "CIV",
			"Concorrencial":            "CONC",
			"Constitucional":           "CONST",
			"Consumidor":               "CONS",
			"Contratual":               "CONTR",
			"Criminal":                 "CRIM",
			"Desapropriação":           "DESAP",
			"Fundiário":                "FUND",
			"Imobiliário":              "IMOB",
			"Propriedade Intelectual":  "PI",
			"Previdenciário":           "PREV",
			"Regulatório":              "REG",
			"Servidão Administrativa":  "SERV",
			"Societário":               "SOC",
			"Trabalhista":              "TRAB",
			"Tributário":               "TRIB",
		},
	}
}

// Derive composes the service code for a billing type and legal matter.
//
// RETURNS:
//   - Placeholder when either input is empty.
//   - "<type>_<matter>" otherwise, with UnknownBillingType/UnknownLegalMatter
//     in place of keys missing from the tables.
func (a Abbreviations) Derive(billingType, legalMatter string) string {
	if billingType == "" || legalMatter == "" {
		return Placeholder
	}

	typeCode, ok := a.BillingTypes[billingType]
	if !ok {
		typeCode = UnknownBillingType
	}

	matterCode, ok := a.LegalMatters[legalMatter]
	if !ok {
		matterCode = UnknownLegalMatter
	}

	return fmt.Sprintf("%s_%s", typeCode, matterCode)
}

// Merge returns a copy of a with the entries of override added on top.
func (a Abbreviations) Merge(override Abbreviations) Abbreviations {
	merged := Abbreviations{
		BillingTypes: make(map[string]string, len(a.BillingTypes)+len(override.BillingTypes)),
		LegalMatters: make(map[string]string, len(a.LegalMatters)+len(override.LegalMatters)),
	}
	for k, v := range a.BillingTypes {
		merged.BillingTypes[k] = v
	}
	for k, v := range override.BillingTypes {
		merged.BillingTypes[k] = v
	}
	for k, v := range a.LegalMatters {
		merged.LegalMatters[k] = v
	}
	for k, v := range override.LegalMatters {
		merged.LegalMatters[k] = v
	}
	return merged
}

var defaults = DefaultAbbreviations()

// Derive composes a service code using the default tables.
func Derive(billingType, legalMatter string) string {
	return defaults.Derive(billingType, legalMatter)
}

// IsPlaceholder reports whether code is the unresolved placeholder.
func IsPlaceholder(code string) bool {
	return code == Placeholder
}
