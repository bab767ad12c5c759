package pricing

import (
	"github.com/agentic-research/infracfg/api"
	"github.com/agentic-research/infracfg/internal/selection"
	"github.com/agentic-research/infracfg/internal/store"
)

// QuoteLine is one priced selection.
type QuoteLine struct {
	Category string  `json:"category"`
	SubItem  string  `json:"subItem"`
	Index    int     `json:"index"`
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Unit     float64 `json:"unit"`
	Total    float64 `json:"total"`
}

// Subtotal is the sum of one category.
type Subtotal struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Total    float64 `json:"total"`
}

// Quote rolls the session up into lines and totals, in catalog order.
type Quote struct {
	Lines      []QuoteLine `json:"lines"`
	Categories []Subtotal  `json:"categories"`
	Total      float64     `json:"total"`
	Currency   string      `json:"currency"`
}

// SelectionTotal prices a selection against its own product copy.
func SelectionTotal(s *selection.Selection) float64 {
	if s == nil {
		return 0
	}
	return Price(s.Product, s.Config, s.Quantity)
}

// CategoryTotal sums every selection filed under category.
func CategoryTotal(snap store.Snapshot, category string) float64 {
	var total float64
	for _, slot := range snap.Slots {
		if slot.Category != category {
			continue
		}
		for _, s := range slot.Entry.Selections {
			total += SelectionTotal(s)
		}
	}
	return total
}

// GrandTotal sums every selection in the snapshot.
func GrandTotal(snap store.Snapshot) float64 {
	var total float64
	for _, category := range snap.Categories() {
		total += CategoryTotal(snap, category)
	}
	return total
}

// BuildQuote prices every selection in snap. Category labels come from c.
func BuildQuote(c *api.Catalog, snap store.Snapshot) Quote {
	q := Quote{}
	if c != nil {
		q.Currency = c.ProductInfo.Currency
	}
	for _, slot := range snap.Slots {
		for i, s := range slot.Entry.Selections {
			lines := Breakdown(s.Product, s.Config, s.Quantity)
			q.Lines = append(q.Lines, QuoteLine{
				Category: slot.Category,
				SubItem:  slot.SubItem,
				Index:    i,
				Product:  s.ProductID,
				Name:     s.Name(),
				Quantity: lines.Quantity,
				Unit:     lines.Unit,
				Total:    lines.Total,
			})
		}
	}
	for _, category := range snap.Categories() {
		sub := Subtotal{Category: category, Label: stepLabel(c, category), Total: CategoryTotal(snap, category)}
		q.Categories = append(q.Categories, sub)
		q.Total += sub.Total
	}
	return q
}

func stepLabel(c *api.Catalog, id string) string {
	if c != nil {
		for _, s := range c.Steps {
			if s.ID == id {
				return s.Label
			}
		}
	}
	return id
}
