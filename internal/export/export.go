// =============================================================================
// Medição Jurídica - Export Boundary
// =============================================================================
//
// The wizard does not know how an artifact is produced. When the detailed
// review is finalized it hands the initial record, the finalized charges and
// the catalog to an Exporter and offers the returned Artifact to the user.
//
// GUARANTEES MADE BY THE CALLER:
//   - charges is non-empty
//   - every charge already passed charge-line validation
//
// =============================================================================

package export

import (
	"fmt"
	"sort"

	"github.com/ginjaninja78/medicao-juridica/internal/catalog"
	"github.com/ginjaninja78/medicao-juridica/internal/record"
)

// Artifact is a generated file ready to be offered for download.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Exporter turns a finalized billing into an Artifact.
type Exporter interface {
	// Format is the registry key, e.g. "xlsx".
	Format() string

	Export(initial record.InitialFilingRecord, charges []record.FinalizedChargeRecord, cat *catalog.Catalog) (*Artifact, error)
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry maps export formats to exporters.
type Registry struct {
	byFormat map[string]Exporter
}

// NewRegistry returns a registry holding exporters.
func NewRegistry(exporters ...Exporter) *Registry {
	r := &Registry{byFormat: make(map[string]Exporter, len(exporters))}
	for _, e := range exporters {
		r.Register(e)
	}
	return r
}

// Register adds or replaces the exporter for e.Format().
func (r *Registry) Register(e Exporter) { r.byFormat[e.Format()] = e }

// Get returns the exporter for format.
func (r *Registry) Get(format string) (Exporter, error) {
	e, ok := r.byFormat[format]
	if !ok {
		return nil, fmt.Errorf("unknown export format %q (available: %v)", format, r.Formats())
	}
	return e, nil
}

// Formats lists the registered formats in sorted order.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.byFormat))
	for f := range r.byFormat {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
