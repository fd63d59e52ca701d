package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML loads a catalog from a YAML file.
//
// Only companies are required; missing vocabularies fall back to the
// built-in lists and abbreviation entries are merged over the defaults.
//
// EXAMPLE:
//
//	companies:
//	  - name: ISA Energia Brasil
//	    projects:
//	      - name: SE Bateias
//	        segments: ["Trecho 1", "Trecho 2"]
//	lawyers: ["Fernanda Lima"]
func LoadYAML(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	return ParseYAML(data)
}

// ParseYAML parses catalog YAML content.
func ParseYAML(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	c.withDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return &c, nil
}
