package api

// Clone returns a deep copy of p. Selections own such a copy so later
// catalog replacements never reach into them.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	out := *p
	if p.Modules != nil {
		out.Modules = NewModuleSet()
		for pair := p.Modules.Oldest(); pair != nil; pair = pair.Next() {
			out.Modules.Set(pair.Key, pair.Value.Clone())
		}
	}
	return &out
}

// Clone returns a deep copy of m.
func (m *Module) Clone() *Module {
	if m == nil {
		return nil
	}
	out := *m
	if m.DefaultSelections != nil {
		out.DefaultSelections = append([]OptionQuantity(nil), m.DefaultSelections...)
	}
	if m.Options != nil {
		out.Options = make([]Option, len(m.Options))
		for i, opt := range m.Options {
			out.Options[i] = opt
			if opt.Details != nil {
				out.Options[i].Details = append([]string(nil), opt.Details...)
			}
		}
	}
	return &out
}
