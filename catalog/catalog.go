package catalog

import (
	"fmt"
	"os"

	"github.com/poiesic/briefing/core"
	"gopkg.in/yaml.v3"
)

// FamilyOther is reported for products that are not in the catalog.
const FamilyOther = "Other"

// Catalog is the read-only product master.
// It is built once at startup and safe for concurrent reads.
type Catalog struct {
	products []core.Product
	byID     map[string]int
}

// New builds a catalog from the given products.
// Products are validated and duplicate IDs are rejected.
func New(products ...core.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]core.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for i := range products {
		p := products[i]
		if err := core.ValidateProduct(&p); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
		}
		if p.Family == "" {
			p.Family = FamilyOther
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultProducts...)
	if err != nil {
		// The built-in list is static; failing here is a programming error.
		panic(err)
	}
	return c
}

type catalogFile struct {
	Products []core.Product `yaml:"products"`
}

// LoadFile reads a YAML catalog of the form:
//
//	products:
//	  - id: azure
//	    name: Azure
//	    family: Azure
//	    sources: [message-center, microsoft-learn]
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if len(f.Products) == 0 {
		return nil, fmt.Errorf("%w: no products", ErrInvalidCatalog)
	}
	return New(f.Products...)
}

// Get returns the product with the given ID.
func (c *Catalog) Get(id string) (core.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return core.Product{}, false
	}
	return c.products[i], true
}

// Has reports whether id is a known product.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Name returns the display name for id, or id itself when unknown.
func (c *Catalog) Name(id string) string {
	if p, ok := c.Get(id); ok {
		return p.Name
	}
	return id
}

// Family returns the product family for id, or FamilyOther when unknown.
func (c *Catalog) Family(id string) string {
	if p, ok := c.Get(id); ok {
		return p.Family
	}
	return FamilyOther
}

// Products returns the catalog entries in declaration order.
// The returned slice is a copy.
func (c *Catalog) Products() []core.Product {
	out := make([]core.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
