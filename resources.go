package kecil

import "reflect"

// MaxResources is the number of resources a World can hold.
const MaxResources = 16

// Resources holds world-wide singletons that do not belong to any entity:
// input state, a random number generator, game settings. At most one
// resource of each type is stored. Resources are stored as pointers so
// systems can mutate them in place.
type Resources struct {
	items   [MaxResources]any
	types   map[reflect.Type]int
	freeIDs [MaxResources]int // LIFO stack of unused slots
	freeLen int
}

func (r *Resources) init() {
	if r.types == nil {
		r.types = make(map[reflect.Type]int, MaxResources)
	}
	for i := range r.freeIDs {
		r.freeIDs[i] = MaxResources - 1 - i
	}
	r.freeLen = MaxResources
}

// Add stores res and returns its ID. The type of res, usually a pointer,
// is the lookup key for GetResource.
//
// Returns:
//   - ErrDuplicateResource if a resource of the same type is stored.
//   - ErrCapacityExceeded when MaxResources resources are stored.
//   - ErrNilResource if res is nil or a nil pointer.
func (r *Resources) Add(res any) (int, error) {
	if r.types == nil {
		r.init()
	}
	if res == nil {
		return -1, ErrNilResource
	}
	if v := reflect.ValueOf(res); v.Kind() == reflect.Pointer && v.IsNil() {
		return -1, ErrNilResource
	}
	t := reflect.TypeOf(res)
	if _, ok := r.types[t]; ok {
		return -1, ErrDuplicateResource
	}
	if r.freeLen == 0 {
		return -1, ErrCapacityExceeded
	}
	r.freeLen--
	id := r.freeIDs[r.freeLen]
	r.items[id] = res
	r.types[t] = id
	return id, nil
}

// Has checks if a resource with the given ID exists.
func (r *Resources) Has(id int) bool {
	return id >= 0 && id < MaxResources && r.items[id] != nil
}

// Get retrieves the resource by ID, or nil if it doesn't exist.
func (r *Resources) Get(id int) any {
	if !r.Has(id) {
		return nil
	}
	return r.items[id]
}

// Remove removes the resource by ID if it exists, marking the ID as free for reuse.
func (r *Resources) Remove(id int) {
	if !r.Has(id) {
		return
	}
	delete(r.types, reflect.TypeOf(r.items[id]))
	r.items[id] = nil
	r.freeIDs[r.freeLen] = id
	r.freeLen++
}

// Len returns the number of stored resources.
func (r *Resources) Len() int {
	return MaxResources - r.freeLen
}

// Clear removes all resources.
func (r *Resources) Clear() {
	r.items = [MaxResources]any{}
	clear(r.types)
	r.init()
}

// HasResource checks if a resource of type *T exists, returning true and its ID, or false and -1.
func HasResource[T any](r *Resources) (bool, int) {
	if id, ok := r.types[reflect.TypeFor[*T]()]; ok {
		return true, id
	}
	return false, -1
}

// GetResource retrieves the resource of type *T if it exists, returning it and its ID, or nil and -1.
func GetResource[T any](r *Resources) (*T, int) {
	if id, ok := r.types[reflect.TypeFor[*T]()]; ok {
		return r.items[id].(*T), id
	}
	return nil, -1
}
