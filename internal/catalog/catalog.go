// =============================================================================
// Medição Jurídica - Catalog
// =============================================================================
//
// The catalog is the read-only reference data the wizard validates against:
//   - Companies -> projects -> segments ("trechos")
//   - Responsible lawyers
//   - Document types, legal matters and billing types
//   - Abbreviation tables for service-code derivation
//
// It is loaded once when the session starts and shared by reference for the
// lifetime of the run. Nothing in the wizard writes to it.
//
// CATALOG SOURCES:
//   1. Built-in defaults (Default)
//   2. YAML file (LoadYAML)
//   3. XLSX workbook maintained by the legal team (LoadWorkbook)
//
// =============================================================================

package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/medicao-juridica/internal/derivation"
)

// =============================================================================
// CATALOG STRUCTURE
// =============================================================================

// Catalog holds every option list offered by the wizard.
type Catalog struct {
	// Companies is the list of contracting companies and their projects.
	Companies []Company `yaml:"companies"`

	// Lawyers is the list of responsible lawyers.
	Lawyers []string `yaml:"lawyers"`

	// DocumentTypes is the list of billing document types.
	DocumentTypes []string `yaml:"document_types"`

	// LegalMatters is the list of legal matters ("matérias").
	LegalMatters []string `yaml:"legal_matters"`

	// BillingTypes is the list of billing types ("tipos de cobrança").
	BillingTypes []string `yaml:"billing_types"`

	// Abbreviations feeds service-code derivation.
	Abbreviations derivation.Abbreviations `yaml:"abbreviations"`
}

// Company is a contracting company and the projects it owns.
type Company struct {
	Name     string    `yaml:"name"`
	Projects []Project `yaml:"projects"`
}

// Project is a project and its segments. A segment list holding a single
// empty string means the project offers no segment choice.
type Project struct {
	Name     string   `yaml:"name"`
	Segments []string `yaml:"segments"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads a catalog from path, choosing the loader by file extension.
// An empty path returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".xlsx":
		return LoadWorkbook(path)
	default:
		return nil, fmt.Errorf("unsupported catalog file type: %s", path)
	}
}

// withDefaults fills the fixed vocabularies that a loaded catalog left empty
// and merges its abbreviation overrides on top of the defaults.
func (c *Catalog) withDefaults() *Catalog {
	def := Default()

	if len(c.Lawyers) == 0 {
		c.Lawyers = def.Lawyers
	}
	if len(c.DocumentTypes) == 0 {
		c.DocumentTypes = def.DocumentTypes
	}
	if len(c.LegalMatters) == 0 {
		c.LegalMatters = def.LegalMatters
	}
	if len(c.BillingTypes) == 0 {
		c.BillingTypes = def.BillingTypes
	}
	c.Abbreviations = def.Abbreviations.Merge(c.Abbreviations)

	for i := range c.Companies {
		for j := range c.Companies[i].Projects {
			if len(c.Companies[i].Projects[j].Segments) == 0 {
				c.Companies[i].Projects[j].Segments = []string{""}
			}
		}
	}

	return c
}

// Validate checks that the catalog can back a wizard run.
func (c *Catalog) Validate() error {
	var errs []error

	if len(c.Companies) == 0 {
		errs = append(errs, errors.New("catalog has no companies"))
	}
	if len(c.Lawyers) == 0 {
		errs = append(errs, errors.New("catalog has no lawyers"))
	}

	seen := make(map[string]bool, len(c.Companies))
	for _, company := range c.Companies {
		if company.Name == "" {
			errs = append(errs, errors.New("catalog has a company without a name"))
			continue
		}
		if seen[company.Name] {
			errs = append(errs, fmt.Errorf("company %q is listed twice", company.Name))
		}
		seen[company.Name] = true
	}

	for _, bt := range c.BillingTypes {
		if _, ok := c.Abbreviations.BillingTypes[bt]; !ok {
			errs = append(errs, fmt.Errorf("billing type %q has no abbreviation", bt))
		}
	}
	for _, m := range c.LegalMatters {
		if _, ok := c.Abbreviations.LegalMatters[m]; !ok {
			errs = append(errs, fmt.Errorf("legal matter %q has no abbreviation", m))
		}
	}

	return errors.Join(errs...)
}

// =============================================================================
// LOOKUPS
// =============================================================================

// CompanyNames returns the company names in catalog order.
func (c *Catalog) CompanyNames() []string {
	names := make([]string, 0, len(c.Companies))
	for _, company := range c.Companies {
		names = append(names, company.Name)
	}
	return names
}

// Projects returns the project names of a company, or nil if the company is
// unknown.
func (c *Catalog) Projects(company string) []string {
	co := c.company(company)
	if co == nil {
		return nil
	}

	names := make([]string, 0, len(co.Projects))
	for _, p := range co.Projects {
		names = append(names, p.Name)
	}
	return names
}

// Segments returns the segment options of a project of a company.
func (c *Catalog) Segments(company, project string) []string {
	p := c.project(company, project)
	if p == nil {
		return nil
	}
	return p.Segments
}

// HasSegmentChoice reports whether a project offers real segment options.
func (c *Catalog) HasSegmentChoice(company, project string) bool {
	for _, s := range c.Segments(company, project) {
		if s != "" {
			return true
		}
	}
	return false
}

func (c *Catalog) HasCompany(name string) bool { return c.company(name) != nil }

func (c *Catalog) HasLawyer(name string) bool { return contains(c.Lawyers, name) }

func (c *Catalog) HasDocumentType(name string) bool { return contains(c.DocumentTypes, name) }

func (c *Catalog) HasLegalMatter(name string) bool { return contains(c.LegalMatters, name) }

func (c *Catalog) HasBillingType(name string) bool { return contains(c.BillingTypes, name) }

// HasProject reports whether project belongs to company.
func (c *Catalog) HasProject(company, project string) bool {
	return c.project(company, project) != nil
}

// HasSegment reports whether segment is one of the project's options.
func (c *Catalog) HasSegment(company, project, segment string) bool {
	return contains(c.Segments(company, project), segment)
}

// ServiceCode derives the service code with this catalog's tables.
func (c *Catalog) ServiceCode(billingType, legalMatter string) string {
	return c.Abbreviations.Derive(billingType, legalMatter)
}

func (c *Catalog) company(name string) *Company {
	for i := range c.Companies {
		if c.Companies[i].Name == name {
			return &c.Companies[i]
		}
	}
	return nil
}

func (c *Catalog) project(company, project string) *Project {
	co := c.company(company)
	if co == nil {
		return nil
	}
	for i := range co.Projects {
		if co.Projects[i].Name == project {
			return &co.Projects[i]
		}
	}
	return nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
