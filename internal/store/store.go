// Package store holds the per-position product selections of one
// configuration session.
package store

import (
	"errors"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/agentic-research/infracfg/api"
	"github.com/agentic-research/infracfg/internal/selection"
)

// Policy decides how a selection's Configured flag is maintained.
type Policy int

const (
	// FlagPolicy treats Configured as an externally set flag. New selections
	// start configured; only imports and explicit patches clear it.
	FlagPolicy Policy = iota
	// DerivedPolicy recomputes Configured on every mutation as "every
	// required module resolves to an option".
	DerivedPolicy
)

func (p Policy) String() string {
	if p == DerivedPolicy {
		return "derived"
	}
	return "flag"
}

// Entry is the state of one (category, sub-item) position.
type Entry struct {
	Selections []*selection.Selection
	// Configured caches configured(Selections); it is never set directly.
	Configured bool
}

func (e *Entry) clone() Entry {
	out := Entry{Configured: e.Configured}
	if e.Selections != nil {
		out.Selections = make([]*selection.Selection, len(e.Selections))
		for i, s := range e.Selections {
			out.Selections[i] = s.Clone()
		}
	}
	return out
}

// configured reports whether a position has at least one selection and all
// of them are configured.
func configured(sels []*selection.Selection) bool {
	if len(sels) == 0 {
		return false
	}
	for _, s := range sels {
		if !s.Configured {
			return false
		}
	}
	return true
}

type positions = orderedmap.OrderedMap[string, *Entry]

// Store maps category to sub-item to Entry in catalog order. It is not safe
// for concurrent use; the engine serializes access.
type Store struct {
	policy     Policy
	categories *orderedmap.OrderedMap[string, *positions]
}

// Option configures a Store.
type Option func(*Store)

// WithPolicy selects the completeness policy.
func WithPolicy(p Policy) Option {
	return func(s *Store) { s.policy = p }
}

// New returns a store seeded with an empty entry for every non-sentinel
// sub-item of c.
func New(c *api.Catalog, opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset(c)
	return s
}

// Policy returns the store's completeness policy.
func (s *Store) Policy() Policy { return s.policy }

// Reset discards all selections and rebuilds the positions from c.
func (s *Store) Reset(c *api.Catalog) {
	s.categories = orderedmap.New[string, *positions]()
	if c == nil || c.SubItems == nil {
		return
	}
	for pair := c.SubItems.Oldest(); pair != nil; pair = pair.Next() {
		pos := orderedmap.New[string, *Entry]()
		for _, item := range pair.Value {
			if item.ID == api.ReviewSubItemID {
				continue
			}
			pos.Set(item.ID, &Entry{})
		}
		s.categories.Set(pair.Key, pos)
	}
}

func (s *Store) entry(category, subItem string) (*Entry, error) {
	if pos, ok := s.categories.Get(category); ok {
		if e, ok := pos.Get(subItem); ok {
			return e, nil
		}
	}
	return nil, &PositionError{Category: category, SubItem: subItem}
}

// Entry returns a copy of the entry at a position.
func (s *Store) Entry(category, subItem string) (Entry, error) {
	e, err := s.entry(category, subItem)
	if err != nil {
		return Entry{}, err
	}
	return e.clone(), nil
}

// Selection returns a copy of the selection at index.
func (s *Store) Selection(category, subItem string, index int) (*selection.Selection, error) {
	e, err := s.entry(category, subItem)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(e.Selections) {
		return nil, &IndexError{Category: category, SubItem: subItem, Index: index, Len: len(e.Selections)}
	}
	return e.Selections[index].Clone(), nil
}

// Add appends a default selection of p and returns its index.
func (s *Store) Add(category, subItem string, p *api.Product) (int, error) {
	if p == nil {
		return -1, errors.New("add selection: nil product")
	}
	e, err := s.entry(category, subItem)
	if err != nil {
		return -1, err
	}
	e.Selections = append(e.Selections, selection.New(p))
	s.recompute(e)
	return len(e.Selections) - 1, nil
}

// Update merges patch into the selection at index. On error nothing changes.
func (s *Store) Update(category, subItem string, index int, patch selection.Patch) error {
	e, err := s.entry(category, subItem)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(e.Selections) {
		return &IndexError{Category: category, SubItem: subItem, Index: index, Len: len(e.Selections)}
	}
	next := e.Selections[index].Clone()
	next.Apply(patch)
	e.Selections[index] = next
	s.recompute(e)
	return nil
}

// Remove deletes the selection at index, shifting later ones down. Cursors
// pointing into the same position are rebased.
func (s *Store) Remove(category, subItem string, index int, cursors ...*Cursor) error {
	e, err := s.entry(category, subItem)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(e.Selections) {
		return &IndexError{Category: category, SubItem: subItem, Index: index, Len: len(e.Selections)}
	}
	e.Selections = append(e.Selections[:index:index], e.Selections[index+1:]...)
	s.recompute(e)
	for _, c := range cursors {
		if c != nil && c.At(category, subItem) {
			c.Rebase(index)
		}
	}
	return nil
}

// Replace installs sels as the position's selections. This is the path for
// imported state, including selections that are not configured.
func (s *Store) Replace(category, subItem string, sels []*selection.Selection) error {
	e, err := s.entry(category, subItem)
	if err != nil {
		return err
	}
	next := make([]*selection.Selection, 0, len(sels))
	for _, sel := range sels {
		if sel == nil {
			continue
		}
		next = append(next, sel.Clone())
	}
	e.Selections = next
	s.recompute(e)
	return nil
}

func (s *Store) recompute(e *Entry) {
	if s.policy == DerivedPolicy {
		for _, sel := range e.Selections {
			sel.Configured = selection.RequiredResolved(sel)
		}
	}
	e.Configured = configured(e.Selections)
}
