package ordered

import "github.com/funil-crm/funil/pkg/idwrap"

// Pure reindexing functions. Inputs are lists already sorted by ascending
// order; outputs always carry dense zero-based order values.

// Move removes the element at from and reinserts it at to, shifting the
// elements in between by one position toward the vacated slot. It works on any
// slice type so view-state code can move rich rows, not just {id, order} pairs.
func Move[T any](items []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, ErrIndexOutOfRange
	}
	out := make([]T, len(items))
	copy(out, items)
	if from == to {
		return out, nil
	}
	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out, nil
}

// Reindex moves the item at fromIndex to toIndex and rewrites every order
// value to its positional index. fromIndex == toIndex returns an equivalent
// ordering untouched.
func Reindex(items []Item, fromIndex, toIndex int) ([]Item, error) {
	moved, err := Move(items, fromIndex, toIndex)
	if err != nil {
		return nil, err
	}
	return Renumber(moved), nil
}

// Renumber rewrites order values to the dense sequence {0..n-1} preserving
// the current item sequence.
func Renumber(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = Item{ID: it.ID, Order: i}
	}
	return out
}

// IndexOf returns the position of id within items, or -1.
func IndexOf(items []Item, id idwrap.IDWrap) int {
	for i, it := range items {
		if it.ID.Compare(id) == 0 {
			return i
		}
	}
	return -1
}

// PlanMove resolves the wire-level move instruction {itemID, newIndex} against
// the current ordering and produces the full plan. The update set contains
// only rows whose order actually changed, so a no-op move issues no writes.
func PlanMove(items []Item, itemID idwrap.IDWrap, newIndex int) (Plan, error) {
	from := IndexOf(items, itemID)
	if from == -1 {
		return Plan{}, ErrItemNotFound
	}
	if newIndex < 0 || newIndex >= len(items) {
		return Plan{}, ErrIndexOutOfRange
	}
	ordering, err := Reindex(items, from, newIndex)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Ordering: ordering, Updates: Diff(items, ordering)}, nil
}

// Diff emits one update per item whose order differs between the old and new
// orderings.
func Diff(old, next []Item) []Update {
	prev := make(map[idwrap.IDWrap]int, len(old))
	for _, it := range old {
		prev[it.ID] = it.Order
	}
	var updates []Update
	for _, it := range next {
		if was, ok := prev[it.ID]; !ok || was != it.Order {
			updates = append(updates, Update{ID: it.ID, Order: it.Order})
		}
	}
	return updates
}

// Validate checks the density invariant: order values must be exactly
// {0..n-1} in sequence.
func Validate(items []Item) error {
	for i, it := range items {
		if it.Order != i {
			return ErrNotDense
		}
	}
	return nil
}
