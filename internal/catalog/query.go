package catalog

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/infracfg/api"
)

// Query evaluates a JSONPath expression against the catalog document.
func Query(c *api.Catalog, expr string) ([]any, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", expr, err)
	}
	raw, err := Serialize(c)
	if err != nil {
		return nil, err
	}
	tree, err := oj.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	return x.Get(tree), nil
}
