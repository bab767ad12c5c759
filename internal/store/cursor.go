package store

// Cursor is an index held outside the store, such as the selection a
// presentation layer is currently editing.
type Cursor struct {
	Category string
	SubItem  string
	Index    int
	set      bool
}

// NewCursor points at index within a position.
func NewCursor(category, subItem string, index int) *Cursor {
	return &Cursor{Category: category, SubItem: subItem, Index: index, set: true}
}

// Set reports whether the cursor points anywhere.
func (c *Cursor) Set() bool { return c != nil && c.set }

// Clear unsets the cursor.
func (c *Cursor) Clear() {
	c.set = false
	c.Index = 0
}

// At reports whether the cursor is set and inside the given position.
func (c *Cursor) At(category, subItem string) bool {
	return c.Set() && c.Category == category && c.SubItem == subItem
}

// Rebase adjusts the cursor after the selection at removed was deleted:
// equal clears it, an earlier removal shifts it down by one, a later one
// leaves it alone.
func (c *Cursor) Rebase(removed int) {
	if !c.Set() {
		return
	}
	switch {
	case removed == c.Index:
		c.Clear()
	case removed < c.Index:
		c.Index--
	}
}
