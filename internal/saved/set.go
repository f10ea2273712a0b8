// Package saved tracks which prompts the current viewer has bookmarked.
//
// Set is an immutable value: Toggle returns a new Set and leaves the
// receiver untouched, so a Set handed to the selection engine can never
// change underneath it. Manager owns the current Set for a session and
// serializes updates.
package saved

import (
	"maps"
	"slices"
)

// Set is an immutable set of prompt ids. The zero value is an empty set.
type Set struct {
	ids map[int]struct{}
}

// New returns a Set containing exactly ids. Ids are not checked against
// the catalog; unknown ids are kept and simply never match.
func New(ids ...int) Set {
	m := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return Set{ids: m}
}

// Toggle returns a copy of s with the membership of id flipped.
func (s Set) Toggle(id int) Set {
	next := make(map[int]struct{}, len(s.ids)+1)
	maps.Copy(next, s.ids)
	if _, ok := next[id]; ok {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	return Set{ids: next}
}

// Contains reports whether id is in the set.
func (s Set) Contains(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of ids in the set.
func (s Set) Len() int {
	return len(s.ids)
}

// IDs returns the members in ascending order.
func (s Set) IDs() []int {
	ids := slices.Collect(maps.Keys(s.ids))
	slices.Sort(ids)
	return ids
}

// Union returns a set holding the members of both s and other.
func (s Set) Union(other Set) Set {
	next := make(map[int]struct{}, len(s.ids)+len(other.ids))
	maps.Copy(next, s.ids)
	maps.Copy(next, other.ids)
	return Set{ids: next}
}

// Equal reports whether s and other have the same members.
func (s Set) Equal(other Set) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for id := range s.ids {
		if _, ok := other.ids[id]; !ok {
			return false
		}
	}
	return true
}
