// Package validation classifies store positions and produces the ordered
// list of user-facing messages.
package validation

import (
	"github.com/agentic-research/infracfg/internal/selection"
	"github.com/agentic-research/infracfg/internal/store"
)

// Status is the classification of a position or of the whole session.
type Status string

const (
	Incomplete Status = "incomplete"
	Error      Status = "error"
	Warning    Status = "warning"
	Valid      Status = "valid"
)

// StatusOf classifies one entry. It is recomputed from the selections on
// every call.
func StatusOf(e store.Entry) Status {
	if len(e.Selections) == 0 {
		return Incomplete
	}
	for _, s := range e.Selections {
		if !s.Configured {
			return Error
		}
	}
	for _, s := range e.Selections {
		if hasWarning(s) {
			return Warning
		}
	}
	return Valid
}

func hasWarning(s *selection.Selection) bool {
	return s.Quantity < 1 || len(s.Config) == 0 || len(selection.Unresolved(s)) > 0
}
