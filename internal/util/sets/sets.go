// Package sets provides small generic set types.
package sets

// Set is an unordered hash set.
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

// Ordered is a set that remembers insertion order. Re-adding a value keeps
// its original position. The zero value is ready to use.
type Ordered[T comparable] struct {
	index map[T]int
	vals  []T
}

// NewOrdered creates an ordered set pre-populated with vals.
func NewOrdered[T comparable](vals ...T) *Ordered[T] {
	o := &Ordered[T]{}
	for _, v := range vals {
		o.Add(v)
	}
	return o
}

// Add appends v unless present and reports whether it was added.
func (o *Ordered[T]) Add(v T) bool {
	if o.index == nil {
		o.index = make(map[T]int)
	}
	if _, ok := o.index[v]; ok {
		return false
	}
	o.index[v] = len(o.vals)
	o.vals = append(o.vals, v)
	return true
}

// Has returns true if v is present.
func (o *Ordered[T]) Has(v T) bool {
	_, ok := o.index[v]
	return ok
}

// Len returns the number of values.
func (o *Ordered[T]) Len() int { return len(o.vals) }

// Values returns a copy of the values in insertion order.
func (o *Ordered[T]) Values() []T {
	return append([]T(nil), o.vals...)
}
