package selection

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/agentic-research/infracfg/api"
)

// Selection is one chosen product at a catalog position. It owns a deep copy
// of the product so later catalog replacements do not reach into it.
type Selection struct {
	Handle     uuid.UUID    `json:"handle"`
	ProductID  string       `json:"productId"`
	Product    *api.Product `json:"product"`
	Config     Config       `json:"config"`
	Quantity   int          `json:"quantity"`
	Configured bool         `json:"configured"`
}

// New builds a selection from p's defaults with quantity 1.
func New(p *api.Product) *Selection {
	s := &Selection{
		Handle:     uuid.New(),
		Product:    p.Clone(),
		Config:     DefaultConfig(p),
		Quantity:   1,
		Configured: true,
	}
	if p != nil {
		s.ProductID = p.ID
	}
	return s
}

// Clone returns a deep copy of s. The handle is kept.
func (s *Selection) Clone() *Selection {
	if s == nil {
		return nil
	}
	out := *s
	out.Product = s.Product.Clone()
	out.Config = s.Config.Clone()
	return &out
}

// Name returns the product display name, falling back to its id.
func (s *Selection) Name() string {
	if s.Product != nil && s.Product.Name != "" {
		return s.Product.Name
	}
	return s.ProductID
}

// Patch is a partial update. Nil fields are left unchanged; a non-nil Config
// replaces the whole configuration.
type Patch struct {
	Quantity   *int
	Config     Config
	Configured *bool
}

// Apply merges p into s.
func (s *Selection) Apply(p Patch) {
	if p.Quantity != nil {
		s.Quantity = *p.Quantity
	}
	if p.Config != nil {
		s.Config = p.Config.Clone()
	}
	if p.Configured != nil {
		s.Configured = *p.Configured
	}
}

// Reference names a config entry by module and option id.
type Reference struct {
	ModuleID string
	OptionID string
}

func (r Reference) String() string {
	if r.OptionID == "" {
		return r.ModuleID
	}
	return r.ModuleID + "/" + r.OptionID
}

// Unresolved lists config entries that cannot be matched against the owned
// product: unknown modules, unknown options, and values whose shape does not
// match the module type.
func Unresolved(s *Selection) []Reference {
	if s == nil {
		return nil
	}
	var refs []Reference
	for _, moduleID := range slices.Sorted(maps.Keys(s.Config)) {
		mc := s.Config[moduleID]
		m, ok := s.Product.Module(moduleID)
		if !ok || mc == nil || mc.moduleType() != m.Type {
			refs = append(refs, Reference{ModuleID: moduleID})
			continue
		}
		switch v := mc.(type) {
		case Single:
			if _, ok := m.Option(v.OptionID); !ok {
				refs = append(refs, Reference{ModuleID: moduleID, OptionID: v.OptionID})
			}
		case Multi:
			for _, oq := range v {
				if _, ok := m.Option(oq.OptionID); !ok {
					refs = append(refs, Reference{ModuleID: moduleID, OptionID: oq.OptionID})
				}
			}
		}
	}
	return refs
}

// RequiredResolved reports whether every required module of the owned
// product has a value that resolves to one of its options.
func RequiredResolved(s *Selection) bool {
	if s == nil || s.Product == nil || s.Product.Modules == nil {
		return s != nil
	}
	for pair := s.Product.Modules.Oldest(); pair != nil; pair = pair.Next() {
		m := pair.Value
		if m == nil || !m.Required {
			continue
		}
		if !resolves(m, s.Config[pair.Key]) {
			return false
		}
	}
	return true
}

func resolves(m *api.Module, mc ModuleConfig) bool {
	switch v := mc.(type) {
	case Single:
		if m.Type != api.SingleSelect {
			return false
		}
		_, ok := m.Option(v.OptionID)
		return ok
	case Multi:
		if m.Type != api.MultiSelectQuantity {
			return false
		}
		for _, oq := range v {
			if _, ok := m.Option(oq.OptionID); ok && oq.Quantity > 0 {
				return true
			}
		}
	}
	return false
}

// UnknownOptionError is returned by the editing helpers when the option is
// not part of the module or the module has the wrong type.
type UnknownOptionError struct {
	ModuleID string
	OptionID string
	Reason   string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("module %q option %q: %s", e.ModuleID, e.OptionID, e.Reason)
}

// Choose returns a copy of cfg with the single-select module set to optionID.
func Choose(cfg Config, moduleID string, m *api.Module, optionID string) (Config, error) {
	if m == nil || m.Type != api.SingleSelect {
		return nil, &UnknownOptionError{ModuleID: moduleID, OptionID: optionID, Reason: "not a single-select module"}
	}
	if _, ok := m.Option(optionID); !ok {
		return nil, &UnknownOptionError{ModuleID: moduleID, OptionID: optionID, Reason: "no such option"}
	}
	out := cfg.Clone()
	if out == nil {
		out = Config{}
	}
	out[moduleID] = Single{OptionID: optionID}
	return out, nil
}

// StepOption returns a copy of cfg with optionID's quantity in a
// multi-select module moved by delta and clamped to [0, maxQuantity]. A new
// entry is appended on first increment and dropped when it reaches 0.
func StepOption(cfg Config, moduleID string, m *api.Module, optionID string, delta int) (Config, error) {
	if m == nil || m.Type != api.MultiSelectQuantity {
		return nil, &UnknownOptionError{ModuleID: moduleID, OptionID: optionID, Reason: "not a multi-select-quantity module"}
	}
	opt, ok := m.Option(optionID)
	if !ok {
		return nil, &UnknownOptionError{ModuleID: moduleID, OptionID: optionID, Reason: "no such option"}
	}
	out := cfg.Clone()
	if out == nil {
		out = Config{}
	}
	current, _ := out[moduleID].(Multi)

	q := clamp(current.Quantity(optionID)+delta, opt.MaxQuantity)
	next := make(Multi, 0, len(current)+1)
	found := false
	for _, oq := range current {
		if oq.OptionID != optionID {
			next = append(next, oq)
			continue
		}
		if !found && q > 0 {
			next = append(next, api.OptionQuantity{OptionID: optionID, Quantity: q})
		}
		found = true
	}
	if !found && q > 0 {
		next = append(next, api.OptionQuantity{OptionID: optionID, Quantity: q})
	}
	out[moduleID] = next
	return out, nil
}

// SetOption is StepOption with an absolute target quantity.
func SetOption(cfg Config, moduleID string, m *api.Module, optionID string, quantity int) (Config, error) {
	var current int
	if mv, ok := cfg[moduleID].(Multi); ok {
		current = mv.Quantity(optionID)
	}
	return StepOption(cfg, moduleID, m, optionID, quantity-current)
}

// StepQuantity moves the overall quantity by delta, never below 1.
func StepQuantity(q, delta int) int {
	return max(q+delta, 1)
}

func clamp(q, maxQuantity int) int {
	if q < 0 {
		return 0
	}
	if maxQuantity > 0 && q > maxQuantity {
		return maxQuantity
	}
	return q
}
