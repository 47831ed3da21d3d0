// Package kecil provides a small, fixed-capacity Entity-Component-System for
// games that live inside a 64 KB memory budget.
//
// Every table in the package is sized at compile time: MaxEntities entity
// slots, MaxComponentTypes stores, MaxSystems systems. Running out of room is
// reported as ErrCapacityExceeded instead of growing, and the per-frame path
// (spawn, despawn, component access, queries, Update) does not allocate.
package kecil

import "strconv"

// MaxEntities is the number of entity slots in a World. Every component store
// holds exactly this many values, so an entity index is a key into all of them.
// It must be a multiple of 64.
const MaxEntities = 256

// Entity is an opaque handle for a game object. It combines the index of its
// slot with the generation of that slot at spawn time, so a handle kept after
// the entity was despawned, and its slot recycled, is detected as stale.
//
// The zero Entity is never alive.
type Entity struct {
	// Index is the slot, in [0, MaxEntities).
	Index uint16
	// Generation is bumped every time the slot is freed. It wraps after 65535
	// reuses of the same slot, skipping 0; a handle that old would alias the
	// current occupant.
	Generation uint16
}

// String renders the handle as "index:generation".
func (e Entity) String() string {
	return strconv.Itoa(int(e.Index)) + ":" + strconv.Itoa(int(e.Generation))
}

// IsZero reports whether e is the zero handle.
func (e Entity) IsZero() bool {
	return e == Entity{}
}

// entityRegistry allocates, recycles and validates entity handles. It knows
// nothing about components.
type entityRegistry struct {
	generations [MaxEntities]uint16 // current generation per slot
	free        [MaxEntities]uint16 // LIFO stack of free slots
	freeLen     int
	live        entitySet
}

// init fills the free stack so that slots are handed out in ascending order.
func (r *entityRegistry) init() {
	for i := range r.generations {
		r.generations[i] = 1
	}
	r.resetFree()
}

func (r *entityRegistry) resetFree() {
	for i := range r.free {
		r.free[i] = uint16(MaxEntities - 1 - i)
	}
	r.freeLen = MaxEntities
	r.live = entitySet{}
}

// spawn pops a free slot. It fails without touching any state when every slot
// is live.
func (r *entityRegistry) spawn() (Entity, error) {
	if r.freeLen == 0 {
		return Entity{}, ErrCapacityExceeded
	}
	r.freeLen--
	idx := r.free[r.freeLen]
	r.live.set(idx)
	return Entity{Index: idx, Generation: r.generations[idx]}, nil
}

// despawn frees the slot owned by e and bumps its generation.
func (r *entityRegistry) despawn(e Entity) error {
	if !r.isAlive(e) {
		return ErrStaleHandle
	}
	r.release(e.Index)
	return nil
}

func (r *entityRegistry) release(idx uint16) {
	r.live.unset(idx)
	g := r.generations[idx] + 1
	if g == 0 {
		g = 1
	}
	r.generations[idx] = g
	r.free[r.freeLen] = idx
	r.freeLen++
}

// isAlive reports whether e refers to the current occupant of a live slot.
func (r *entityRegistry) isAlive(e Entity) bool {
	if int(e.Index) >= MaxEntities {
		return false
	}
	return r.live.has(e.Index) && r.generations[e.Index] == e.Generation
}

// handle returns the live handle for a slot known to be in use.
func (r *entityRegistry) handle(idx uint16) Entity {
	return Entity{Index: idx, Generation: r.generations[idx]}
}

// len returns the number of live entities.
func (r *entityRegistry) len() int {
	return MaxEntities - r.freeLen
}

// clear frees every live slot, invalidating all outstanding handles, and
// restores the initial hand-out order.
func (r *entityRegistry) clear() {
	for i := 0; i < MaxEntities; i++ {
		idx := uint16(i)
		if r.live.has(idx) {
			g := r.generations[idx] + 1
			if g == 0 {
				g = 1
			}
			r.generations[idx] = g
		}
	}
	r.resetFree()
}
