package property

import (
	"errors"
	"fmt"

	"viabilidad/pkg/constants"
)

// ErrLimitReached is returned when adding a fourth comparison to a list.
var ErrLimitReached = errors.New("comparison limit reached")

// List holds the candidate properties compared during one client session.
// At most three are held at a time and at most one is the favorite.
type List struct {
	items []Comparison
}

// Add appends a comparison to the list, enforcing the session limit.
func (l *List) Add(c Comparison) error {
	if len(l.items) >= constants.MaxComparisons {
		return ErrLimitReached
	}
	l.items = append(l.items, c)
	return nil
}

// Remove drops the comparison at the given position.
func (l *List) Remove(i int) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("no comparison at position %d", i)
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return nil
}

// ToggleFavorite flips the favorite mark on the comparison at the given
// position. Marking one clears any other favorite; toggling the current
// favorite leaves the list with none.
func (l *List) ToggleFavorite(i int) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("no comparison at position %d", i)
	}
	wasFavorite := l.items[i].IsFavorite
	for j := range l.items {
		l.items[j].IsFavorite = false
	}
	l.items[i].IsFavorite = !wasFavorite
	return nil
}

// Favorite returns a copy of the favorite comparison, if any.
func (l *List) Favorite() (Comparison, bool) {
	for _, item := range l.items {
		if item.IsFavorite {
			return item, true
		}
	}
	return Comparison{}, false
}

// Items returns the comparisons in insertion order.
func (l *List) Items() []Comparison {
	out := make([]Comparison, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of comparisons held.
func (l *List) Len() int {
	return len(l.items)
}
