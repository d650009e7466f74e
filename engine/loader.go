package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML document shape consumed by ParseCatalog:
//
//	attributes:
//	  - name: age_category
//	    dependencies: [age]
//	    rules:
//	      - condition: age >= 18
//	        value: '"adult"'
//	        otherwise: '"minor"'
type catalogFile struct {
	Attributes []DerivedAttribute `yaml:"attributes"`
}

// ParseCatalog builds a catalog from YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(doc.Attributes) == 0 {
		return nil, fmt.Errorf("catalog defines no attributes")
	}
	return NewCatalog(doc.Attributes)
}

// LoadCatalog reads and parses a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return ParseCatalog(data)
}
