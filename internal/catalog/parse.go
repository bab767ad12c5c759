package catalog

import (
	"encoding/json"
	"errors"

	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/infracfg/api"
)

// Parse turns raw document bytes into a Catalog. Syntax failures come back as
// *ParseError; documents that parse but are not catalogs come back as
// *StructuralError.
func Parse(raw []byte) (*api.Catalog, error) {
	tree, err := oj.Parse(raw)
	if err != nil {
		return nil, toParseError(err)
	}
	if err := Validate(tree); err != nil {
		return nil, err
	}

	var c api.Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, &StructuralError{Kind: Malformed, Err: err}
	}
	normalize(&c)
	return &c, nil
}

// ParseStrict is Parse followed by ValidateDeep. Any deep issue rejects the
// document with a *DeepError.
func ParseStrict(raw []byte) (*api.Catalog, error) {
	c, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if issues := ValidateDeep(c); len(issues) > 0 {
		return nil, &DeepError{Issues: issues}
	}
	return c, nil
}

func toParseError(err error) *ParseError {
	var pe *oj.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Column: pe.Column, Message: pe.Message}
	}
	return &ParseError{Message: err.Error()}
}

// normalize fills the ordered indices so callers never see a nil map for a
// section that was present but empty.
func normalize(c *api.Catalog) {
	if c.SubItems == nil {
		c.SubItems = api.NewSubItemIndex()
	}
	if c.Products == nil {
		c.Products = api.NewProductIndex()
	}
}
