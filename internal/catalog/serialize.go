package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentic-research/infracfg/api"
)

// Serialize emits c as two-space indented JSON with a trailing newline.
// Output of Parse(Serialize(c)) re-serializes to the same bytes.
func Serialize(c *api.Catalog) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("serialize catalog: nil catalog")
	}
	out, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize catalog: %w", err)
	}
	return append(out, '\n'), nil
}

// ExportFileName is the suggested file name for a catalog saved on day t.
func ExportFileName(t time.Time) string {
	return "infrastructure-config-" + t.Format("2006-01-02") + ".json"
}
