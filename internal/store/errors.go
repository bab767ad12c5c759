package store

import (
	"errors"
	"fmt"
)

// ErrUnknownPosition matches any *PositionError via errors.Is.
var ErrUnknownPosition = errors.New("unknown position")

// PositionError reports a (category, sub-item) pair the store does not hold.
type PositionError struct {
	Category string
	SubItem  string
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("unknown position %s/%s", e.Category, e.SubItem)
}

func (e *PositionError) Is(target error) bool { return target == ErrUnknownPosition }

// IndexError reports a selection index outside the current bounds.
type IndexError struct {
	Category string
	SubItem  string
	Index    int
	Len      int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("selection index %d out of range for %s/%s (len %d)", e.Index, e.Category, e.SubItem, e.Len)
}
