package catalog

import (
	"fmt"

	"github.com/ohler55/ojg/jp"

	"github.com/agentic-research/infracfg/api"
)

// ValidateDeep checks the nested shapes that the shallow Validate leaves
// alone. Issues are returned in document order; an empty result means the
// catalog is fully consistent.
func ValidateDeep(c *api.Catalog) []Issue {
	if c == nil {
		return []Issue{{Path: "$", Message: "catalog is nil"}}
	}
	var issues []Issue
	report := func(path jp.Expr, format string, args ...any) {
		issues = append(issues, Issue{Path: path.String(), Message: fmt.Sprintf(format, args...)})
	}

	steps := make(map[string]bool, len(c.Steps))
	for _, s := range c.Steps {
		steps[s.ID] = true
	}
	if c.SubItems != nil {
		for pair := c.SubItems.Oldest(); pair != nil; pair = pair.Next() {
			if !steps[pair.Key] {
				report(jp.R().C("subItems").C(pair.Key), "step %q is not declared in steps", pair.Key)
			}
		}
	}

	if c.Products == nil {
		return issues
	}
	for pair := c.Products.Oldest(); pair != nil; pair = pair.Next() {
		for i, p := range pair.Value {
			base := jp.R().C("products").C(pair.Key).N(i)
			if p == nil {
				report(base, "product is null")
				continue
			}
			if p.BasePrice < 0 {
				report(base.C("basePrice"), "base price %v is negative", p.BasePrice)
			}
			if p.Modules == nil {
				continue
			}
			for mp := p.Modules.Oldest(); mp != nil; mp = mp.Next() {
				checkModule(base.C("modules").C(mp.Key), mp.Value, report)
			}
		}
	}
	return issues
}

func checkModule(path jp.Expr, m *api.Module, report func(jp.Expr, string, ...any)) {
	if m == nil {
		report(path, "module is null")
		return
	}
	if !m.Type.Known() {
		report(path.C("type"), "unknown module type %q", m.Type)
	}
	if len(m.Options) == 0 {
		report(path.C("options"), "module has no options")
		return
	}

	seen := make(map[string]bool, len(m.Options))
	for i, opt := range m.Options {
		op := path.C("options").N(i)
		if seen[opt.ID] {
			report(op.C("id"), "duplicate option id %q", opt.ID)
		}
		seen[opt.ID] = true
		if opt.Price < 0 {
			report(op.C("price"), "price %v is negative", opt.Price)
		}
		if m.Type == api.MultiSelectQuantity && opt.MaxQuantity < 1 {
			report(op.C("maxQuantity"), "maxQuantity must be at least 1")
		}
	}

	switch m.Type {
	case api.SingleSelect:
		if m.DefaultSelection != "" && !seen[m.DefaultSelection] {
			report(path.C("defaultSelection"), "default %q is not an option", m.DefaultSelection)
		}
	case api.MultiSelectQuantity:
		for i, d := range m.DefaultSelections {
			dp := path.C("defaultSelections").N(i)
			opt, ok := m.Option(d.OptionID)
			if !ok {
				report(dp.C("optionId"), "default %q is not an option", d.OptionID)
				continue
			}
			if d.Quantity < 1 || (opt.MaxQuantity > 0 && d.Quantity > opt.MaxQuantity) {
				report(dp.C("quantity"), "quantity %d outside 1..%d", d.Quantity, opt.MaxQuantity)
			}
		}
	}
}
