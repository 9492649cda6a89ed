// Package sets holds small generic set types used by the indexer and the output writer.
package sets

// Set is a generic hash set for comparable keys.
// Usage: s := sets.New("a", "b"); s.Add("c"); if s.Has("b") {...}
type Set[T comparable] map[T]struct{}

// New creates a set pre-populated with the provided values.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts value into the set.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has returns true if v is present.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Ordered is a set that remembers first-insertion order. Re-adding a member
// keeps its original position.
type Ordered[T comparable] struct {
	index map[T]int
	items []T
}

// NewOrdered creates an ordered set pre-populated with vals in the given order.
func NewOrdered[T comparable](vals ...T) *Ordered[T] {
	o := &Ordered[T]{index: make(map[T]int, len(vals))}
	for _, v := range vals {
		o.Add(v)
	}
	return o
}

// Add inserts v and reports whether it was not already present.
func (o *Ordered[T]) Add(v T) bool {
	if o.index == nil {
		o.index = make(map[T]int)
	}
	if _, ok := o.index[v]; ok {
		return false
	}
	o.index[v] = len(o.items)
	o.items = append(o.items, v)
	return true
}

// Has returns true if v is present.
func (o *Ordered[T]) Has(v T) bool {
	if o == nil {
		return false
	}
	_, ok := o.index[v]
	return ok
}

// Len returns the number of members.
func (o *Ordered[T]) Len() int {
	if o == nil {
		return 0
	}
	return len(o.items)
}

// Items returns a copy of the members in insertion order.
func (o *Ordered[T]) Items() []T {
	if o == nil {
		return nil
	}
	out := make([]T, len(o.items))
	copy(out, o.items)
	return out
}
