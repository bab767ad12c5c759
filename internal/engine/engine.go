// Package engine owns one configuration session: the active catalog and the
// selection store built from it. All access goes through an Engine, which
// swaps catalog and store together.
package engine

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/agentic-research/infracfg/api"
	"github.com/agentic-research/infracfg/internal/catalog"
	"github.com/agentic-research/infracfg/internal/pricing"
	"github.com/agentic-research/infracfg/internal/selection"
	"github.com/agentic-research/infracfg/internal/store"
	"github.com/agentic-research/infracfg/internal/validation"
)

// Focus is the presentation layer's pointer to the selection being edited.
type Focus = store.Cursor

// NewFocus points at a selection.
func NewFocus(category, subItem string, index int) *Focus {
	return store.NewCursor(category, subItem, index)
}

// UnknownProductError reports a product id not cataloged under a sub-item.
type UnknownProductError struct {
	SubItem   string
	ProductID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %q under %q", e.ProductID, e.SubItem)
}

// state is swapped as a unit so readers never see a catalog paired with a
// store built from another one.
type state struct {
	catalog *api.Catalog
	store   *store.Store
}

// Engine is safe for concurrent use.
type Engine struct {
	mu     sync.RWMutex
	cur    state
	log    *zap.Logger
	policy store.Policy
	strict bool
}

// New starts a session on c, or on the built-in catalog when c is nil.
func New(c *api.Catalog, opts ...Option) *Engine {
	e := &Engine{log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	if c == nil {
		c = catalog.Default()
	}
	e.cur = e.build(c)
	return e
}

func (e *Engine) build(c *api.Catalog) state {
	return state{catalog: c, store: store.New(c, store.WithPolicy(e.policy))}
}

// Policy reports the completeness policy in use.
func (e *Engine) Policy() store.Policy { return e.policy }

// Catalog returns the active catalog. Callers must treat it as read-only.
func (e *Engine) Catalog() *api.Catalog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cur.catalog
}

// TryLoadCatalog parses raw and, on success, replaces the catalog and rebuilds
// the store from it. On failure the session is untouched.
func (e *Engine) TryLoadCatalog(raw []byte) (*api.Catalog, error) {
	parse := catalog.Parse
	if e.strict {
		parse = catalog.ParseStrict
	}
	c, err := parse(raw)
	if err != nil {
		e.log.Warn("catalog rejected", zap.Error(err))
		return nil, err
	}
	e.install(c)
	return c, nil
}

// LoadCatalog installs an already decoded catalog.
func (e *Engine) LoadCatalog(c *api.Catalog) error {
	if c == nil {
		return fmt.Errorf("load catalog: nil catalog")
	}
	if e.strict {
		if issues := catalog.ValidateDeep(c); len(issues) > 0 {
			err := &catalog.DeepError{Issues: issues}
			e.log.Warn("catalog rejected", zap.Error(err))
			return err
		}
	}
	e.install(c)
	return nil
}

func (e *Engine) install(c *api.Catalog) {
	next := e.build(c)
	e.mu.Lock()
	e.cur = next
	e.mu.Unlock()
	e.log.Info("catalog loaded",
		zap.String("name", c.ProductInfo.Name),
		zap.Int("steps", len(c.Steps)),
		zap.Int("positions", len(next.store.Snapshot().Slots)))
}

// SerializeCatalog emits the active catalog document.
func (e *Engine) SerializeCatalog() ([]byte, error) {
	return catalog.Serialize(e.Catalog())
}

// Reset discards every selection, keeping the catalog.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cur.store.Reset(e.cur.catalog)
	e.log.Info("session reset")
}

// ResetToDefault reinstalls the built-in catalog with an empty store.
func (e *Engine) ResetToDefault() {
	e.install(catalog.Default())
}

// AddSelection appends the product's default selection at a position and
// returns its index.
func (e *Engine) AddSelection(category, subItem, productID string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.cur.catalog.FindProduct(subItem, productID)
	if !ok {
		return -1, &UnknownProductError{SubItem: subItem, ProductID: productID}
	}
	idx, err := e.cur.store.Add(category, subItem, p)
	if err != nil {
		return -1, fmt.Errorf("add selection: %w", err)
	}
	e.log.Debug("selection added",
		zap.String("category", category),
		zap.String("subItem", subItem),
		zap.String("product", productID),
		zap.Int("index", idx))
	return idx, nil
}

// UpdateSelection merges patch into the selection at index.
func (e *Engine) UpdateSelection(category, subItem string, index int, patch selection.Patch) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.update(category, subItem, index, patch)
}

func (e *Engine) update(category, subItem string, index int, patch selection.Patch) error {
	if err := e.cur.store.Update(category, subItem, index, patch); err != nil {
		return fmt.Errorf("update selection: %w", err)
	}
	e.log.Debug("selection updated",
		zap.String("category", category),
		zap.String("subItem", subItem),
		zap.Int("index", index))
	return nil
}

// RemoveSelection deletes the selection at index. Any focus into the same
// position is rebased.
func (e *Engine) RemoveSelection(category, subItem string, index int, focus ...*Focus) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.cur.store.Remove(category, subItem, index, focus...); err != nil {
		return fmt.Errorf("remove selection: %w", err)
	}
	e.log.Debug("selection removed",
		zap.String("category", category),
		zap.String("subItem", subItem),
		zap.Int("index", index))
	return nil
}

// ImportSelections replaces a position's selections with externally built
// ones. Their Configured flags are kept under the flag policy.
func (e *Engine) ImportSelections(category, subItem string, sels []*selection.Selection) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.cur.store.Replace(category, subItem, sels); err != nil {
		return fmt.Errorf("import selections: %w", err)
	}
	e.log.Debug("selections imported",
		zap.String("category", category),
		zap.String("subItem", subItem),
		zap.Int("count", len(sels)))
	return nil
}

// edit runs a read-modify-write on one selection under a single lock.
func (e *Engine) edit(category, subItem string, index int, fn func(*selection.Selection) (selection.Patch, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	sel, err := e.cur.store.Selection(category, subItem, index)
	if err != nil {
		return fmt.Errorf("update selection: %w", err)
	}
	patch, err := fn(sel)
	if err != nil {
		return fmt.Errorf("update selection: %w", err)
	}
	return e.update(category, subItem, index, patch)
}

// ChooseOption sets a single-select module of the selection at index.
func (e *Engine) ChooseOption(category, subItem string, index int, moduleID, optionID string) error {
	return e.edit(category, subItem, index, func(sel *selection.Selection) (selection.Patch, error) {
		m, _ := sel.Product.Module(moduleID)
		cfg, err := selection.Choose(sel.Config, moduleID, m, optionID)
		return selection.Patch{Config: cfg}, err
	})
}

// StepOption moves a multi-select option quantity by delta.
func (e *Engine) StepOption(category, subItem string, index int, moduleID, optionID string, delta int) error {
	return e.edit(category, subItem, index, func(sel *selection.Selection) (selection.Patch, error) {
		m, _ := sel.Product.Module(moduleID)
		cfg, err := selection.StepOption(sel.Config, moduleID, m, optionID, delta)
		return selection.Patch{Config: cfg}, err
	})
}

// SetOptionQuantity sets a multi-select option quantity, clamped to the
// option's bounds.
func (e *Engine) SetOptionQuantity(category, subItem string, index int, moduleID, optionID string, quantity int) error {
	return e.edit(category, subItem, index, func(sel *selection.Selection) (selection.Patch, error) {
		m, _ := sel.Product.Module(moduleID)
		cfg, err := selection.SetOption(sel.Config, moduleID, m, optionID, quantity)
		return selection.Patch{Config: cfg}, err
	})
}

// StepQuantity moves the overall quantity by delta, never below 1.
func (e *Engine) StepQuantity(category, subItem string, index int, delta int) error {
	return e.edit(category, subItem, index, func(sel *selection.Selection) (selection.Patch, error) {
		q := selection.StepQuantity(sel.Quantity, delta)
		return selection.Patch{Quantity: &q}, nil
	})
}

// Snapshot returns a deep copy of the store.
func (e *Engine) Snapshot() store.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cur.store.Snapshot()
}

// View returns the catalog and a snapshot of the store built from it, read
// under one lock.
func (e *Engine) View() (*api.Catalog, store.Snapshot) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cur.catalog, e.cur.store.Snapshot()
}

// Price returns the total of the selection at index.
func (e *Engine) Price(category, subItem string, index int) (float64, error) {
	b, err := e.Breakdown(category, subItem, index)
	if err != nil {
		return 0, err
	}
	return b.Total, nil
}

// Breakdown itemizes the price of the selection at index.
func (e *Engine) Breakdown(category, subItem string, index int) (pricing.Lines, error) {
	e.mu.RLock()
	sel, err := e.cur.store.Selection(category, subItem, index)
	e.mu.RUnlock()
	if err != nil {
		return pricing.Lines{}, fmt.Errorf("price selection: %w", err)
	}
	return pricing.Breakdown(sel.Product, sel.Config, sel.Quantity), nil
}

// ValidationStatus classifies one position.
func (e *Engine) ValidationStatus(category, subItem string) (validation.Status, error) {
	e.mu.RLock()
	entry, err := e.cur.store.Entry(category, subItem)
	e.mu.RUnlock()
	if err != nil {
		return "", err
	}
	return validation.StatusOf(entry), nil
}

// CollectMessages returns the session's messages in position order.
func (e *Engine) CollectMessages() []validation.Message {
	c, snap := e.View()
	return validation.Collect(c, snap)
}

// OverallStatus folds the session into one status.
func (e *Engine) OverallStatus() validation.Status {
	c, snap := e.View()
	return validation.Overall(c, snap)
}

// Quote prices the whole session.
func (e *Engine) Quote() pricing.Quote {
	c, snap := e.View()
	return pricing.BuildQuote(c, snap)
}
