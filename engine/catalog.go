package engine

import (
	"fmt"
)

// Rule is one named computation step of a derived attribute. An empty
// Condition means the rule applies unconditionally; an empty Otherwise means
// there is no fallback when the condition does not hold.
type Rule struct {
	Condition   string `yaml:"condition,omitempty"`
	Value       string `yaml:"value,omitempty"`
	Otherwise   string `yaml:"otherwise,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// DerivedAttribute is a named value computed by rule rather than supplied
// as input. Dependencies are resolved before the attribute itself.
//
// Only Rules[0] is consulted during resolution; trailing rules are carried
// but ignored until a multi-rule selection policy is decided.
type DerivedAttribute struct {
	Name         string   `yaml:"name"`
	Dependencies []string `yaml:"dependencies,omitempty"`
	Rules        []Rule   `yaml:"rules"`
}

// Catalog is the read-only collection of derived-attribute definitions an
// engine resolves against. It is immutable after construction, so multiple
// concurrent resolution runs may share one catalog without synchronization.
type Catalog struct {
	attrs []DerivedAttribute
	index map[string]int
}

// NewCatalog builds a catalog from an ordered list of definitions.
// Definitions must have unique, non-empty names.
func NewCatalog(attrs []DerivedAttribute) (*Catalog, error) {
	c := &Catalog{
		attrs: make([]DerivedAttribute, len(attrs)),
		index: make(map[string]int, len(attrs)),
	}
	copy(c.attrs, attrs)
	for i, attr := range c.attrs {
		if attr.Name == "" {
			return nil, fmt.Errorf("attribute %d has no name", i)
		}
		if _, dup := c.index[attr.Name]; dup {
			return nil, fmt.Errorf("duplicate attribute %q", attr.Name)
		}
		c.index[attr.Name] = i
	}
	return c, nil
}

// Lookup returns the definition for name.
func (c *Catalog) Lookup(name string) (DerivedAttribute, bool) {
	i, ok := c.index[name]
	if !ok {
		return DerivedAttribute{}, false
	}
	return c.attrs[i], true
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.attrs)
}

// Names returns the attribute names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.attrs))
	for i, attr := range c.attrs {
		names[i] = attr.Name
	}
	return names
}
