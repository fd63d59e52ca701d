package catalog

import "github.com/ginjaninja78/medicao-juridica/internal/derivation"

// Default returns the built-in catalog.
//
// The document types, legal matters and billing types are fixed; companies
// and lawyers are a starter set meant to be replaced by a catalog file.
func Default() *Catalog {
	return &Catalog{
		Companies: []Company{
			{
				Name: "ISA Energia Brasil",
				Projects: []Project{
					{Name: "LT Itapeti - Nordeste", Segments: []string{"Trecho 1", "Trecho 2", "Trecho 3"}},
					{Name: "SE Bateias", Segments: []string{""}},
					{Name: "Reforços e Melhorias", Segments: []string{"Norte", "Sul"}},
				},
			},
			{
				Name: "Interligação Elétrica Aimorés",
				Projects: []Project{
					{Name: "LT Padre Paraíso - Governador Valadares", Segments: []string{"Trecho A", "Trecho B"}},
				},
			},
			{
				Name: "Interligação Elétrica Paraguaçu",
				Projects: []Project{
					{Name: "LT Poções - Padre Paraíso", Segments: []string{""}},
				},
			},
		},
		Lawyers: []string{
			"Ana Paula Ribeiro",
			"Carlos Eduardo Martins",
			"Fernanda Lima",
			"Rodrigo Alves",
		},
		DocumentTypes: []string{
			"Nota Fiscal",
			"Fatura",
			"Nota de Débito",
		},
		LegalMatters: []string{
			"Administrativo",
			"Ambiental",
			"Cível",
			"Concorrencial",
			"Constitucional",
			"Consumidor",
			"Contratual",
			"Criminal",
			"Desapropriação",
			"Fundiário",
			"Imobiliário",
			"Propriedade Intelectual",
			"Previdenciário",
			"Regulatório",
			"Servidão Administrativa",
			"Societário",
			"Trabalhista",
			"Tributário",
		},
		BillingTypes: []string{
			"Consultorias",
			"Despesas",
			"Êxito",
			"Honorários",
			"Parecer",
			"Perícia",
			"Publicações Legais",
		},
		Abbreviations: derivation.DefaultAbbreviations(),
	}
}
