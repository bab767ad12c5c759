package catalog

import (
	_ "embed"
	"fmt"

	"github.com/agentic-research/infracfg/api"
)

//go:embed default.json
var defaultDocument []byte

// DefaultDocument returns the raw bytes of the built-in catalog.
func DefaultDocument() []byte {
	return append([]byte(nil), defaultDocument...)
}

// Default returns a freshly decoded copy of the built-in PowerStore catalog.
// Every call returns an independent value.
func Default() *api.Catalog {
	c, err := ParseStrict(defaultDocument)
	if err != nil {
		// The embedded document is covered by tests; reaching this is a build defect.
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return c
}
