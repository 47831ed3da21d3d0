package kecil

import "github.com/rotisserie/eris"

// Sentinel errors returned by the World and its stores. Operations on the
// per-frame path return them unwrapped so reporting a failure never allocates;
// compare with errors.Is.
var (
	// ErrCapacityExceeded is returned when a fixed-size table is full: all
	// MaxEntities slots are live, MaxSystems systems are registered, or
	// MaxComponentTypes component types exist.
	ErrCapacityExceeded = eris.New("kecil: capacity exceeded")

	// ErrStaleHandle is returned when an Entity does not refer to a live slot,
	// either because it was already despawned or because its slot has been
	// recycled for a newer entity.
	ErrStaleHandle = eris.New("kecil: stale entity handle")

	// ErrUnknownComponent is returned by the World-level component helpers
	// when the component type was never registered.
	ErrUnknownComponent = eris.New("kecil: component type not registered")

	// ErrDuplicateComponent is returned when a component type is registered twice.
	ErrDuplicateComponent = eris.New("kecil: component type already registered")

	// ErrInFrame is returned by operations that are not allowed while Update is running.
	ErrInFrame = eris.New("kecil: not allowed during update")

	// ErrNilSystem is returned when registering a nil system.
	ErrNilSystem = eris.New("kecil: nil system")

	// ErrDuplicateResource is returned when a resource of the same type is already stored.
	ErrDuplicateResource = eris.New("kecil: resource of the same type already exists")

	// ErrNilResource is returned when adding a nil resource.
	ErrNilResource = eris.New("kecil: nil resource")
)
