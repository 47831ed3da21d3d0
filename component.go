package kecil

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// ComponentID identifies a registered component type within one World.
type ComponentID uint8

// MaxComponentTypes is the number of component types a World can hold.
const MaxComponentTypes = 32

// componentRegistry maps component types to their stores. The set of types is
// fixed once the game starts; registration is meant for setup code.
type componentRegistry struct {
	typeToID map[reflect.Type]ComponentID
	stores   [MaxComponentTypes]storage
	n        int
}

// RegisterComponent creates the store for component type T in w.
//
// Parameters:
//   - w: The World that will own the store.
//
// Returns:
//   - The new store.
//   - ErrDuplicateComponent if T is already registered, ErrCapacityExceeded
//     when MaxComponentTypes stores exist, or ErrInFrame during Update.
func RegisterComponent[T any](w *World) (*Store[T], error) {
	t := reflect.TypeFor[T]()
	if w.inFrame {
		return nil, eris.Wrapf(ErrInFrame, "register component %s", t)
	}
	if _, ok := w.components.typeToID[t]; ok {
		return nil, eris.Wrapf(ErrDuplicateComponent, "register component %s", t)
	}
	if w.components.n >= MaxComponentTypes {
		return nil, eris.Wrapf(ErrCapacityExceeded, "register component %s: limit is %d", t, MaxComponentTypes)
	}
	id := ComponentID(w.components.n)
	s := &Store[T]{reg: &w.entities, name: t.String(), id: id}
	w.components.stores[id] = s
	w.components.typeToID[t] = id
	w.components.n++
	w.logger.Debug().
		Int("component_id", int(id)).
		Str("component_name", s.name).
		Msg("component registered")
	return s, nil
}

// MustRegisterComponent is RegisterComponent for setup code that cannot
// continue without the store. It panics on error.
func MustRegisterComponent[T any](w *World) *Store[T] {
	s, err := RegisterComponent[T](w)
	if err != nil {
		panic(err)
	}
	return s
}

// StoreOf returns the store registered for T in w.
func StoreOf[T any](w *World) (*Store[T], bool) {
	id, ok := w.components.typeToID[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return w.components.stores[id].(*Store[T]), true
}

// GetComponent returns a pointer to the component of type T for e, or nil if
// e is stale, T is not registered, or e has no such component.
func GetComponent[T any](w *World, e Entity) *T {
	if !w.entities.isAlive(e) {
		return nil
	}
	s, ok := StoreOf[T](w)
	if !ok {
		return nil
	}
	p, _ := s.Get(e)
	return p
}

// SetComponent adds the component of type T to e or overwrites it.
//
// Returns:
//   - ErrUnknownComponent if T was never registered.
//   - ErrStaleHandle if e is not alive.
func SetComponent[T any](w *World, e Entity, value T) error {
	s, ok := StoreOf[T](w)
	if !ok {
		return ErrUnknownComponent
	}
	return s.Insert(e, value)
}

// RemoveComponent removes the component of type T from e and returns it.
// Unlike Store.Remove it rejects stale handles, reporting them as absent.
func RemoveComponent[T any](w *World, e Entity) (T, bool) {
	var zero T
	if !w.entities.isAlive(e) {
		return zero, false
	}
	s, ok := StoreOf[T](w)
	if !ok {
		return zero, false
	}
	return s.Remove(e)
}
