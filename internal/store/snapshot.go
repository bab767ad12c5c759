package store

// Slot is one position in a Snapshot.
type Slot struct {
	Category string
	SubItem  string
	Entry    Entry
}

// Snapshot is a deep, read-only copy of the store in catalog order.
type Snapshot struct {
	Slots  []Slot
	Policy Policy
}

// Snapshot copies the store. Mutating the result never affects the store.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{Policy: s.policy}
	for cp := s.categories.Oldest(); cp != nil; cp = cp.Next() {
		for pp := cp.Value.Oldest(); pp != nil; pp = pp.Next() {
			snap.Slots = append(snap.Slots, Slot{Category: cp.Key, SubItem: pp.Key, Entry: pp.Value.clone()})
		}
	}
	return snap
}

// Categories returns the category ids in order.
func (s Snapshot) Categories() []string {
	var ids []string
	for _, slot := range s.Slots {
		if len(ids) == 0 || ids[len(ids)-1] != slot.Category {
			ids = append(ids, slot.Category)
		}
	}
	return ids
}

// Entry looks up a position.
func (s Snapshot) Entry(category, subItem string) (Entry, bool) {
	for _, slot := range s.Slots {
		if slot.Category == category && slot.SubItem == subItem {
			return slot.Entry, true
		}
	}
	return Entry{}, false
}

// Len returns the number of selections across all positions.
func (s Snapshot) Len() int {
	n := 0
	for _, slot := range s.Slots {
		n += len(slot.Entry.Selections)
	}
	return n
}
