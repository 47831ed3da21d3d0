package kecil

// Filter iterates over every entity that has a component of type A. It is a
// Query with typed access to the component of the current entity.
//
// Filter2 and Filter3 follow the same pattern for two and three components.
type Filter[A any] struct {
	Query
	a *Store[A]
}

// NewFilter creates a Filter over the entities present in store a. The
// returned filter is already reset.
//
// Parameters:
//   - a: The store of the required component.
//
// Returns:
//   - A pointer to the newly created Filter[A].
func NewFilter[A any](a *Store[A]) *Filter[A] {
	f := &Filter[A]{a: a}
	f.init(a.reg, a)
	return f
}

// Get returns the component of the current entity. Only valid after Next
// returned true.
func (f *Filter[A]) Get() *A {
	return f.a.at(f.cur)
}

// Filter2 iterates over the entities that have both A and B.
type Filter2[A, B any] struct {
	Query
	a *Store[A]
	b *Store[B]
}

// NewFilter2 creates a Filter2 over the entities present in both stores.
func NewFilter2[A, B any](a *Store[A], b *Store[B]) *Filter2[A, B] {
	f := &Filter2[A, B]{a: a, b: b}
	f.init(a.reg, a, b)
	return f
}

// Get returns both components of the current entity.
func (f *Filter2[A, B]) Get() (*A, *B) {
	return f.a.at(f.cur), f.b.at(f.cur)
}

// Filter3 iterates over the entities that have A, B and C.
type Filter3[A, B, C any] struct {
	Query
	a *Store[A]
	b *Store[B]
	c *Store[C]
}

// NewFilter3 creates a Filter3 over the entities present in all three stores.
func NewFilter3[A, B, C any](a *Store[A], b *Store[B], c *Store[C]) *Filter3[A, B, C] {
	f := &Filter3[A, B, C]{a: a, b: b, c: c}
	f.init(a.reg, a, b, c)
	return f
}

// Get returns the three components of the current entity.
func (f *Filter3[A, B, C]) Get() (*A, *B, *C) {
	return f.a.at(f.cur), f.b.at(f.cur), f.c.at(f.cur)
}
