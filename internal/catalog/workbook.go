// =============================================================================
// Medição Jurídica - Catalog Workbook Loader
// =============================================================================
//
// The legal team maintains the company/project/segment tree in a spreadsheet.
// This loader reads that workbook into a Catalog.
//
// WORKBOOK STRUCTURE (first row of every sheet is a header):
//
//   Sheet "Empresas"
//   | Column A           | Column B              | Column C  |
//   |--------------------|-----------------------|-----------|
//   | Empresa            | Projeto               | Trecho    |
//   | ISA Energia Brasil | LT Itapeti - Nordeste | Trecho 1  |
//   | ISA Energia Brasil | LT Itapeti - Nordeste | Trecho 2  |
//   | ISA Energia Brasil | SE Bateias            |           |
//
//   Sheet "Advogados"            : Column A = lawyer name
//   Sheet "Tipos de Documento"   : Column A = document type          (optional)
//   Sheet "Matérias"             : Column A = matter, B = abbreviation (optional)
//   Sheet "Tipos de Cobrança"    : Column A = type,   B = abbreviation (optional)
//
// Optional sheets that are missing keep the built-in vocabularies.
//
// =============================================================================

package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/medicao-juridica/internal/derivation"
)

// Sheet names read by LoadWorkbook.
const (
	SheetCompanies     = "Empresas"
	SheetLawyers       = "Advogados"
	SheetDocumentTypes = "Tipos de Documento"
	SheetLegalMatters  = "Matérias"
	SheetBillingTypes  = "Tipos de Cobrança"
)

// =============================================================================
// WORKBOOK COLUMN CONFIGURATION
// =============================================================================

// WorkbookColumns defines which columns of the "Empresas" sheet hold which
// data. Column indices are 0-based (A=0, B=1, C=2).
type WorkbookColumns struct {
	CompanyColumn int
	ProjectColumn int
	SegmentColumn int

	// DataStartRow is the first data row (0-based). Default: 1 (Row 2).
	DataStartRow int
}

// DefaultWorkbookColumns returns the default column configuration.
func DefaultWorkbookColumns() WorkbookColumns {
	return WorkbookColumns{
		CompanyColumn: 0, // Column A
		ProjectColumn: 1, // Column B
		SegmentColumn: 2, // Column C
		DataStartRow:  1, // Row 2
	}
}

// =============================================================================
// LOADER FUNCTIONS
// =============================================================================

// LoadWorkbook reads a catalog workbook from disk.
func LoadWorkbook(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog workbook: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f, DefaultWorkbookColumns())
}

// ReadWorkbook reads a catalog workbook from r.
func ReadWorkbook(r io.Reader) (*Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog workbook: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f, DefaultWorkbookColumns())
}

// parseWorkbook builds a catalog from an open workbook.
func parseWorkbook(f *excelize.File, columns WorkbookColumns) (*Catalog, error) {
	c := &Catalog{}

	rows, err := f.GetRows(SheetCompanies)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", SheetCompanies, err)
	}

	for i := columns.DataStartRow; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		company := cell(row, columns.CompanyColumn)
		if company == "" {
			return nil, fmt.Errorf("sheet %q row %d: company is empty", SheetCompanies, i+1)
		}
		c.addEntry(company, cell(row, columns.ProjectColumn), cell(row, columns.SegmentColumn))
	}

	if c.Lawyers, err = readColumn(f, SheetLawyers, columns.DataStartRow, true); err != nil {
		return nil, err
	}
	if c.DocumentTypes, err = readColumn(f, SheetDocumentTypes, columns.DataStartRow, false); err != nil {
		return nil, err
	}

	var abbr derivation.Abbreviations
	if c.LegalMatters, abbr.LegalMatters, err = readCodedColumn(f, SheetLegalMatters, columns.DataStartRow); err != nil {
		return nil, err
	}
	if c.BillingTypes, abbr.BillingTypes, err = readCodedColumn(f, SheetBillingTypes, columns.DataStartRow); err != nil {
		return nil, err
	}
	c.Abbreviations = abbr

	c.withDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog workbook: %w", err)
	}

	return c, nil
}

// addEntry inserts one company/project/segment row, keeping first-seen order.
func (c *Catalog) addEntry(company, project, segment string) {
	co := c.company(company)
	if co == nil {
		c.Companies = append(c.Companies, Company{Name: company})
		co = &c.Companies[len(c.Companies)-1]
	}
	if project == "" {
		return
	}

	var p *Project
	for i := range co.Projects {
		if co.Projects[i].Name == project {
			p = &co.Projects[i]
			break
		}
	}
	if p == nil {
		co.Projects = append(co.Projects, Project{Name: project})
		p = &co.Projects[len(co.Projects)-1]
	}

	if segment != "" && !contains(p.Segments, segment) {
		p.Segments = append(p.Segments, segment)
	}
}

// readColumn reads column A of a sheet. A missing optional sheet yields nil.
func readColumn(f *excelize.File, sheet string, startRow int, required bool) ([]string, error) {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if required {
			return nil, fmt.Errorf("catalog workbook has no %q sheet", sheet)
		}
		return nil, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var values []string
	for i := startRow; i < len(rows); i++ {
		if v := cell(rows[i], 0); v != "" {
			values = append(values, v)
		}
	}
	return values, nil
}

// readCodedColumn reads a value/abbreviation pair sheet (columns A and B).
func readCodedColumn(f *excelize.File, sheet string, startRow int) ([]string, map[string]string, error) {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, nil, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var values []string
	codes := make(map[string]string)
	for i := startRow; i < len(rows); i++ {
		v := cell(rows[i], 0)
		if v == "" {
			continue
		}
		values = append(values, v)
		if code := cell(rows[i], 1); code != "" {
			codes[v] = code
		}
	}
	return values, codes, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// cell safely returns a trimmed cell value.
func cell(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
