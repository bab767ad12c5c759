package selection

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/agentic-research/infracfg/api"
)

// ModuleConfig is the value chosen for one module. It is either Single or
// Multi; the set is closed.
type ModuleConfig interface {
	moduleType() api.ModuleType
	clone() ModuleConfig
}

// Single is the value of a single-select module.
type Single struct {
	OptionID string
}

func (Single) moduleType() api.ModuleType { return api.SingleSelect }
func (s Single) clone() ModuleConfig { return s }

// Multi is the value of a multi-select-quantity module.
type Multi []api.OptionQuantity

func (Multi) moduleType() api.ModuleType { return api.MultiSelectQuantity }
func (m Multi) clone() ModuleConfig {
	if m == nil {
		return Multi(nil)
	}
	return append(Multi(nil), m...)
}

// Quantity returns the total quantity recorded for optionID, or 0.
func (m Multi) Quantity(optionID string) int {
	total := 0
	for _, oq := range m {
		if oq.OptionID == optionID {
			total += oq.Quantity
		}
	}
	return total
}

// Config maps module id to its chosen value.
type Config map[string]ModuleConfig

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	for k, v := range c {
		if v != nil {
			out[k] = v.clone()
		}
	}
	return out
}

// MarshalJSON writes single values as a bare option id and multi values as
// a list of {optionId, quantity}.
func (c Config) MarshalJSON() ([]byte, error) {
	raw := make(map[string]any, len(c))
	for k, v := range c {
		switch mc := v.(type) {
		case Single:
			raw[k] = mc.OptionID
		case Multi:
			if mc == nil {
				mc = Multi{}
			}
			raw[k] = []api.OptionQuantity(mc)
		}
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes each entry by its JSON kind.
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Config, len(raw))
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		if len(v) == 0 {
			continue
		}
		switch v[0] {
		case '"':
			var id string
			if err := json.Unmarshal(v, &id); err != nil {
				return fmt.Errorf("config %q: %w", k, err)
			}
			out[k] = Single{OptionID: id}
		case '[':
			var list []api.OptionQuantity
			if err := json.Unmarshal(v, &list); err != nil {
				return fmt.Errorf("config %q: %w", k, err)
			}
			out[k] = Multi(list)
		default:
			return fmt.Errorf("config %q: expected option id or list, got %s", k, v)
		}
	}
	*c = out
	return nil
}

// DefaultConfig derives the starting configuration for p from its declared
// defaults. Modules without a default are left out. The result shares no
// memory with p.
func DefaultConfig(p *api.Product) Config {
	cfg := Config{}
	if p == nil || p.Modules == nil {
		return cfg
	}
	for pair := p.Modules.Oldest(); pair != nil; pair = pair.Next() {
		m := pair.Value
		if m == nil {
			continue
		}
		switch m.Type {
		case api.SingleSelect:
			if m.DefaultSelection != "" {
				cfg[pair.Key] = Single{OptionID: m.DefaultSelection}
			}
		case api.MultiSelectQuantity:
			if len(m.DefaultSelections) > 0 {
				cfg[pair.Key] = append(Multi(nil), m.DefaultSelections...)
			}
		}
	}
	return cfg
}
