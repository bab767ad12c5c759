// Package pricing computes selection prices from a product, its
// configuration and an order quantity.
package pricing

import (
	"github.com/agentic-research/infracfg/api"
	"github.com/agentic-research/infracfg/internal/selection"
)

// Line is one priced contribution to a unit price.
type Line struct {
	ModuleID string
	OptionID string
	Label    string
	Quantity int
	Unit     float64
	Amount   float64
}

// Lines is the itemized breakdown of a selection price.
type Lines struct {
	Base     float64
	Options  []Line
	Unit     float64
	Quantity int
	Total    float64
}

// Price returns (basePrice + option deltas) * max(quantity, 1). References
// that do not resolve against p contribute nothing. A nil product costs 0.
func Price(p *api.Product, cfg selection.Config, quantity int) float64 {
	return Breakdown(p, cfg, quantity).Total
}

// Breakdown performs the Price computation and keeps each contributing
// option, in module then option declaration order.
func Breakdown(p *api.Product, cfg selection.Config, quantity int) Lines {
	if p == nil {
		return Lines{Quantity: max(quantity, 1)}
	}
	out := Lines{Base: p.BasePrice, Unit: p.BasePrice, Quantity: max(quantity, 1)}
	if p.Modules != nil {
		for pair := p.Modules.Oldest(); pair != nil; pair = pair.Next() {
			for _, line := range moduleLines(pair.Key, pair.Value, cfg[pair.Key]) {
				out.Options = append(out.Options, line)
				out.Unit += line.Amount
			}
		}
	}
	out.Total = out.Unit * float64(out.Quantity)
	return out
}

func moduleLines(moduleID string, m *api.Module, mc selection.ModuleConfig) []Line {
	if m == nil || mc == nil {
		return nil
	}
	switch v := mc.(type) {
	case selection.Single:
		if m.Type != api.SingleSelect {
			return nil
		}
		opt, ok := m.Option(v.OptionID)
		if !ok {
			return nil
		}
		return []Line{{ModuleID: moduleID, OptionID: opt.ID, Label: opt.Label, Quantity: 1, Unit: opt.Price, Amount: opt.Price}}
	case selection.Multi:
		if m.Type != api.MultiSelectQuantity {
			return nil
		}
		var lines []Line
		seen := make(map[string]bool, len(m.Options))
		for _, opt := range m.Options {
			// Later options repeating an id are unreachable.
			if seen[opt.ID] {
				continue
			}
			seen[opt.ID] = true
			q := v.Quantity(opt.ID)
			if q == 0 {
				continue
			}
			lines = append(lines, Line{
				ModuleID: moduleID,
				OptionID: opt.ID,
				Label:    opt.Label,
				Quantity: q,
				Unit:     opt.Price,
				Amount:   opt.Price * float64(q),
			})
		}
		return lines
	}
	return nil
}
