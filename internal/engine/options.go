package engine

import (
	"go.uber.org/zap"

	"github.com/agentic-research/infracfg/internal/store"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPolicy selects how selection completeness is tracked.
func WithPolicy(p store.Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithStrict makes TryLoadCatalog run the deep catalog checks as well.
func WithStrict(strict bool) Option {
	return func(e *Engine) { e.strict = strict }
}
