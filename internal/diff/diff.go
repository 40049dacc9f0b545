// Package diff computes the create/update/delete sets that converge a persisted
// collection to a desired one.
//
// Items are paired by identity. Every current item ends up updated or deleted,
// every desired item ends up created or updated, and no item lands in two sets.
package diff

import "fmt"

// Created is a desired item with no persisted counterpart. Index is its
// position in the desired list.
type Created[T any] struct {
	Index int
	Item  T
}

// Updated pairs a persisted item with the desired item sharing its identity.
// Index is the desired item's position, which callers use as its new rank.
type Updated[C, T any] struct {
	Index   int
	Current C
	Desired T
}

// Result holds the three disjoint action sets. ToCreate and ToUpdate follow
// desired order; ToDelete follows current order.
type Result[C, T any] struct {
	ToCreate []Created[T]
	ToUpdate []Updated[C, T]
	ToDelete []C
}

// HasChanges reports whether anything must be inserted or removed.
func (r Result[C, T]) HasChanges() bool {
	return len(r.ToCreate) > 0 || len(r.ToDelete) > 0
}

// DuplicateEntryError reports two desired items sharing one identity.
type DuplicateEntryError struct {
	Key    any
	First  int
	Second int
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("duplicate entry %v at positions %d and %d", e.Key, e.First, e.Second)
}

// Compute diffs current against desired.
//
// currentKey gives a persisted item's identity. desiredKey gives a desired
// item's identity, or false when the item has none yet; such items are always
// created. Duplicate identities in desired fail with *DuplicateEntryError.
// A persisted identity seen more than once keeps its first item and deletes
// the rest.
func Compute[C, T any, K comparable](
	current []C,
	desired []T,
	currentKey func(C) K,
	desiredKey func(T) (K, bool),
) (Result[C, T], error) {
	var res Result[C, T]

	positions := make(map[K]int, len(desired))
	for i, d := range desired {
		k, ok := desiredKey(d)
		if !ok {
			continue
		}
		if first, dup := positions[k]; dup {
			return Result[C, T]{}, &DuplicateEntryError{Key: k, First: first, Second: i}
		}
		positions[k] = i
	}

	matched := make(map[K]C, len(current))
	for _, c := range current {
		k := currentKey(c)
		if _, want := positions[k]; !want {
			res.ToDelete = append(res.ToDelete, c)
			continue
		}
		if _, taken := matched[k]; taken {
			res.ToDelete = append(res.ToDelete, c)
			continue
		}
		matched[k] = c
	}

	for i, d := range desired {
		k, ok := desiredKey(d)
		if ok {
			if c, found := matched[k]; found {
				res.ToUpdate = append(res.ToUpdate, Updated[C, T]{Index: i, Current: c, Desired: d})
				continue
			}
		}
		res.ToCreate = append(res.ToCreate, Created[T]{Index: i, Item: d})
	}
	return res, nil
}

// Values diffs two collections whose items are their own identity, such as tags.
func Values[K comparable](current, desired []K) (Result[K, K], error) {
	self := func(k K) K { return k }
	return Compute(current, desired, self, func(k K) (K, bool) { return k, true })
}
