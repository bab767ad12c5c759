package api

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ReviewSubItemID is the sentinel sub-item that closes a step's list.
// It carries no products and never takes part in configuration.
const ReviewSubItemID = "step-review"

// ModuleType discriminates how a module's selection is expressed.
type ModuleType string

const (
	// SingleSelect modules hold exactly one option id.
	SingleSelect ModuleType = "single-select"
	// MultiSelectQuantity modules hold a list of option ids with quantities.
	MultiSelectQuantity ModuleType = "multi-select-quantity"
)

// Known reports whether t is one of the two supported module types.
func (t ModuleType) Known() bool {
	return t == SingleSelect || t == MultiSelectQuantity
}

// SubItemIndex maps a step id to its ordered sub-items.
type SubItemIndex = orderedmap.OrderedMap[string, []SubItem]

// ProductIndex maps a sub-item id to its ordered products.
type ProductIndex = orderedmap.OrderedMap[string, []*Product]

// ModuleSet maps a module id to its definition. Key order is display order.
type ModuleSet = orderedmap.OrderedMap[string, *Module]

// Catalog is the exchanged document. It is immutable once loaded and is
// replaced wholesale.
type Catalog struct {
	ProductInfo ProductInfo   `json:"productInfo"`
	Steps       []Step        `json:"steps"`
	SubItems    *SubItemIndex `json:"subItems"`
	Products    *ProductIndex `json:"products"`
}

// ProductInfo is display-only header data.
type ProductInfo struct {
	Name       string  `json:"name"`
	Subtitle   string  `json:"subtitle"`
	SalesPrice float64 `json:"salesPrice"`
	Currency   string  `json:"currency"`
}

// Step is a top-level tab.
type Step struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// SubItem is a catalog position inside a step.
type SubItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Product is an orderable item with configurable modules.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	BasePrice   float64    `json:"basePrice"`
	Modules     *ModuleSet `json:"modules,omitempty"`
}

// Module is one configurable facet of a product.
type Module struct {
	Label       string     `json:"label"`
	Description string     `json:"description"`
	Required    bool       `json:"required"`
	Type        ModuleType `json:"type"`
	// DefaultSelection applies to single-select modules.
	DefaultSelection string `json:"defaultSelection,omitempty"`
	// DefaultSelections applies to multi-select-quantity modules.
	DefaultSelections []OptionQuantity `json:"defaultSelections,omitempty"`
	Options           []Option         `json:"options"`
}

// Option is one selectable value of a module. Price is a delta on top of the
// product's base price.
type Option struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	MaxQuantity int      `json:"maxQuantity,omitempty"` // multi-select-quantity only
	Details     []string `json:"details,omitempty"`
}

// OptionQuantity pairs an option id with a count.
type OptionQuantity struct {
	OptionID string `json:"optionId"`
	Quantity int    `json:"quantity"`
}

// NewSubItemIndex returns an empty, ready to use index.
func NewSubItemIndex() *SubItemIndex {
	return orderedmap.New[string, []SubItem]()
}

// NewProductIndex returns an empty, ready to use index.
func NewProductIndex() *ProductIndex {
	return orderedmap.New[string, []*Product]()
}

// NewModuleSet returns an empty, ready to use module set.
func NewModuleSet() *ModuleSet {
	return orderedmap.New[string, *Module]()
}

// StepIDs returns the keys of SubItems in document order.
func (c *Catalog) StepIDs() []string {
	if c == nil || c.SubItems == nil {
		return nil
	}
	ids := make([]string, 0, c.SubItems.Len())
	for pair := c.SubItems.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// SubItemsFor returns the sub-items of a step, sentinel included.
func (c *Catalog) SubItemsFor(step string) []SubItem {
	if c == nil || c.SubItems == nil {
		return nil
	}
	items, _ := c.SubItems.Get(step)
	return items
}

// SubItemLabel returns the label of a sub-item, or its id when unknown or
// unlabelled.
func (c *Catalog) SubItemLabel(step, subItem string) string {
	for _, item := range c.SubItemsFor(step) {
		if item.ID == subItem && item.Label != "" {
			return item.Label
		}
	}
	return subItem
}

// ProductsFor returns the products cataloged under a sub-item.
func (c *Catalog) ProductsFor(subItem string) []*Product {
	if c == nil || c.Products == nil {
		return nil
	}
	products, _ := c.Products.Get(subItem)
	return products
}

// FindProduct looks up a product by id under a sub-item.
func (c *Catalog) FindProduct(subItem, productID string) (*Product, bool) {
	for _, p := range c.ProductsFor(subItem) {
		if p != nil && p.ID == productID {
			return p, true
		}
	}
	return nil, false
}

// HasRequiredElements reports whether any product cataloged under subItem
// declares at least one required module.
func (c *Catalog) HasRequiredElements(subItem string) bool {
	for _, p := range c.ProductsFor(subItem) {
		if p.HasRequiredModule() {
			return true
		}
	}
	return false
}

// HasRequiredModule reports whether any module of p is required.
func (p *Product) HasRequiredModule() bool {
	if p == nil || p.Modules == nil {
		return false
	}
	for pair := p.Modules.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value != nil && pair.Value.Required {
			return true
		}
	}
	return false
}

// Module returns the module with the given id.
func (p *Product) Module(id string) (*Module, bool) {
	if p == nil || p.Modules == nil {
		return nil, false
	}
	m, ok := p.Modules.Get(id)
	return m, ok && m != nil
}

// Option returns the option with the given id.
func (m *Module) Option(id string) (Option, bool) {
	if m == nil {
		return Option{}, false
	}
	for _, opt := range m.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}
