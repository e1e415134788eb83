package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogRawData []byte

// catalogFile is the top-level structure of a catalog YAML document.
type catalogFile struct {
	Strains []Strain `yaml:"strains"`
}

// Catalog provides lazy-loaded, read-only access to strain records.
// The record order is the catalog order and is significant for ranking ties.
type Catalog struct {
	once    sync.Once
	raw     []byte
	strains []Strain
	err     error
}

// NewCatalog creates a Catalog that will parse the embedded YAML on first access.
func NewCatalog() *Catalog {
	return &Catalog{raw: catalogRawData}
}

// FromYAML creates a Catalog that will parse the given YAML document on first access.
func FromYAML(data []byte) *Catalog {
	return &Catalog{raw: data}
}

// FromFile reads a YAML catalog from disk.
func FromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", path, err)
	}
	return FromYAML(data), nil
}

// FromStrains creates a Catalog over an in-memory record list. The slice is
// copied so later changes by the caller are not observed.
func FromStrains(strains []Strain) *Catalog {
	c := &Catalog{strains: make([]Strain, len(strains))}
	copy(c.strains, strains)
	c.once.Do(func() {})
	return c
}

// Strains returns a copy of all strain records in catalog order.
func (c *Catalog) Strains() ([]Strain, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	cp := make([]Strain, len(c.strains))
	copy(cp, c.strains)
	return cp, nil
}

// Lookup finds a strain by name, case-insensitively.
func (c *Catalog) Lookup(name string) (Strain, bool, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return Strain{}, false, c.err
	}
	for i := range c.strains {
		if strings.EqualFold(c.strains[i].Name, name) {
			return c.strains[i], true, nil
		}
	}
	return Strain{}, false, nil
}

// Validate loads the catalog and checks every record's invariants.
func (c *Catalog) Validate() error {
	strains, err := c.Strains()
	if err != nil {
		return err
	}
	return Validate(strains)
}

// load parses the raw YAML catalog data.
func (c *Catalog) load() {
	var f catalogFile
	if err := yaml.Unmarshal(c.raw, &f); err != nil {
		c.err = fmt.Errorf("catalog: parse yaml: %w", err)
		return
	}
	c.strains = f.Strains
}
