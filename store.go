package kecil

import "unsafe"

// Presence is implemented by every Store. Queries combine the presence sets of
// the stores they are built from.
type Presence interface {
	presenceSet() *entitySet
}

// storage is the type-erased view of a Store the World keeps for bookkeeping
// that spans every component type.
type storage interface {
	Presence
	componentID() ComponentID
	componentName() string
	clearIndex(idx uint16)
	count() int
	footprint() uintptr
}

// Store holds the component of type T for every entity slot: a fixed array of
// MaxEntities values and a presence bit per slot. A value is only meaningful
// while its bit is set; Remove clears the bit and leaves the value in place.
//
// Stores are created by RegisterComponent and owned by their World.
type Store[T any] struct {
	data    [MaxEntities]T
	present entitySet
	reg     *entityRegistry
	name    string
	id      ComponentID
}

// Insert writes value into the slot of e and marks it present, replacing any
// previous value.
//
// Parameters:
//   - e: The entity receiving the component. It must be alive in the World
//     that owns this store.
//   - value: The component data.
//
// Returns:
//   - ErrStaleHandle if e is not alive, nil otherwise.
func (s *Store[T]) Insert(e Entity, value T) error {
	if !s.reg.isAlive(e) {
		return ErrStaleHandle
	}
	s.data[e.Index] = value
	s.present.set(e.Index)
	return nil
}

// Remove clears the component of e and returns the value it held. The boolean
// is false when e had no such component.
//
// Remove does not check the generation of e; callers that may hold old
// handles should check World.IsAlive first or use RemoveComponent.
func (s *Store[T]) Remove(e Entity) (T, bool) {
	var zero T
	if int(e.Index) >= MaxEntities || !s.present.has(e.Index) {
		return zero, false
	}
	s.present.unset(e.Index)
	return s.data[e.Index], true
}

// Get returns a pointer to the component of e, valid until the end of the
// current system. The boolean is false when the slot holds no component.
//
// Like Remove, Get only looks at the presence bit of e.Index.
func (s *Store[T]) Get(e Entity) (*T, bool) {
	if int(e.Index) >= MaxEntities || !s.present.has(e.Index) {
		return nil, false
	}
	return &s.data[e.Index], true
}

// Has reports whether the slot of e holds a component.
func (s *Store[T]) Has(e Entity) bool {
	return int(e.Index) < MaxEntities && s.present.has(e.Index)
}

// Len returns the number of slots holding a component.
func (s *Store[T]) Len() int {
	return s.present.count()
}

// ID returns the component ID assigned at registration.
func (s *Store[T]) ID() ComponentID {
	return s.id
}

// Name returns the component type name.
func (s *Store[T]) Name() string {
	return s.name
}

func (s *Store[T]) presenceSet() *entitySet  { return &s.present }
func (s *Store[T]) componentID() ComponentID { return s.id }
func (s *Store[T]) componentName() string    { return s.name }
func (s *Store[T]) clearIndex(idx uint16)    { s.present.unset(idx) }
func (s *Store[T]) count() int               { return s.present.count() }
func (s *Store[T]) footprint() uintptr       { return unsafe.Sizeof(*s) }

// at returns the value in slot idx without checking presence. Filters use it
// for indices they have already matched.
func (s *Store[T]) at(idx uint16) *T {
	return &s.data[idx]
}
