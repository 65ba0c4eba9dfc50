package logic

import (
	"sort"

	"golang.org/x/crypto/sha3"
)

// Set is a finite set of formulas with O(1) membership by formula key,
// insertion-order iteration, and a canonical set key: the sorted
// concatenation of its members' keys. Two sets are equal iff their set keys
// coincide, independently of insertion order.
//
// The set key can grow with the formulas it holds, so index tables key
// nodes by Digest instead, a SHA3-256 of the set key.
type Set struct {
	byKey map[string]*Formula
	order []*Formula

	key   string
	keyOK bool
}

// NewSet returns a set holding the given formulas, in order, duplicates
// ignored.
func NewSet(fs ...*Formula) *Set {
	s := &Set{byKey: make(map[string]*Formula, len(fs))}
	for _, f := range fs {
		s.Add(f)
	}
	return s
}

// Len returns the number of member formulas.
func (s *Set) Len() int {
	return len(s.order)
}

// Add inserts f and reports whether the set changed.
func (s *Set) Add(f *Formula) bool {
	if f == nil {
		panic(&InvariantError{Reason: "nil formula added to set"})
	}
	if _, ok := s.byKey[f.key]; ok {
		return false
	}
	s.byKey[f.key] = f
	s.order = append(s.order, f)
	s.keyOK = false
	return true
}

// Contains reports membership of f.
func (s *Set) Contains(f *Formula) bool {
	_, ok := s.byKey[f.key]
	return ok
}

// ContainsKey reports membership by formula key.
func (s *Set) ContainsKey(key string) bool {
	_, ok := s.byKey[key]
	return ok
}

// Formulas returns the members in insertion order. The slice is shared;
// callers must not modify it.
func (s *Set) Formulas() []*Formula {
	return s.order
}

// Clone returns an independent copy preserving insertion order.
func (s *Set) Clone() *Set {
	out := &Set{
		byKey: make(map[string]*Formula, len(s.byKey)),
		order: make([]*Formula, len(s.order)),
		key:   s.key,
		keyOK: s.keyOK,
	}
	copy(out.order, s.order)
	for k, f := range s.byKey {
		out.byKey[k] = f
	}
	return out
}

// Union returns a new set holding the members of s followed by those of
// other.
func (s *Set) Union(other *Set) *Set {
	out := s.Clone()
	for _, f := range other.order {
		out.Add(f)
	}
	return out
}

// SubsetOf reports whether every member of s is in other.
func (s *Set) SubsetOf(other *Set) bool {
	if len(s.order) > len(other.order) {
		return false
	}
	for k := range s.byKey {
		if !other.ContainsKey(k) {
			return false
		}
	}
	return true
}

// Equal reports set equality by canonical key.
func (s *Set) Equal(other *Set) bool {
	return s.Len() == other.Len() && s.Key() == other.Key()
}

// Key returns the canonical set key. It is computed lazily and cached until
// the next Add.
func (s *Set) Key() string {
	if !s.keyOK {
		keys := make([]string, 0, len(s.order))
		for _, f := range s.order {
			keys = append(keys, f.key)
		}
		sort.Strings(keys)
		s.key = joinKeys(keys)
		s.keyOK = true
	}
	return s.key
}

// Digest returns the SHA3-256 digest of the canonical set key, used as a
// fixed-size index key for node reuse tables.
func (s *Set) Digest() [32]byte {
	return sha3.Sum256([]byte(s.Key()))
}

func (s *Set) String() string {
	return "{" + s.Key() + "}"
}
