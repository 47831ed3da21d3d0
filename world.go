package kecil

import (
	"reflect"
	"unsafe"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Despawned is published on the World's event bus when a despawn takes
// effect. The handle is already stale when handlers run.
type Despawned struct {
	Entity Entity
}

// World owns the entity registry, one store per registered component type,
// the systems, the deferred despawn buffer, resources and the event bus. It
// is the sole mutator of all of them; systems borrow it for one call.
//
// A World is not safe for concurrent use.
type World struct {
	entities   entityRegistry
	components componentRegistry
	systems    scheduler
	resources  Resources
	events     EventBus
	logger     zerolog.Logger

	// despawns requested during Update, applied in order after the last system
	pending    [MaxEntities]Entity
	pendingLen int
	pendingSet entitySet

	frame   uint64
	inFrame bool
}

// WorldOption configures a World at construction.
type WorldOption func(*World)

// WithLogger sets the logger used for registration and system failures. The
// default discards everything.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.logger = logger
	}
}

// NewWorld creates an empty World. All entity tables are allocated here;
// nothing on the per-frame path allocates afterwards.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		logger: zerolog.Nop(),
		components: componentRegistry{
			typeToID: make(map[reflect.Type]ComponentID, MaxComponentTypes),
		},
	}
	w.entities.init()
	w.systems.current = -1
	w.resources.init()
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Spawn creates an entity with no components.
//
// Returns:
//   - The new handle.
//   - ErrCapacityExceeded if MaxEntities entities are live. Entities whose
//     despawn is still pending count as live until the end of the frame.
func (w *World) Spawn() (Entity, error) {
	return w.entities.spawn()
}

// Despawn destroys e and all of its components.
//
// Outside Update the slot is freed at once. During Update the request is
// buffered: e stays alive, with its components, for every system of the
// current frame and is freed after the last one returns.
//
// Returns:
//   - ErrStaleHandle if e is not alive or is already scheduled for despawn.
func (w *World) Despawn(e Entity) error {
	if !w.entities.isAlive(e) {
		return ErrStaleHandle
	}
	if !w.inFrame {
		w.pendingSet.unset(e.Index)
		w.destroy(e)
		return nil
	}
	if w.pendingSet.has(e.Index) {
		return ErrStaleHandle
	}
	w.pendingSet.set(e.Index)
	w.pending[w.pendingLen] = e
	w.pendingLen++
	return nil
}

// destroy clears every component of e, frees its slot and announces it.
func (w *World) destroy(e Entity) {
	for i := 0; i < w.components.n; i++ {
		w.components.stores[i].clearIndex(e.Index)
	}
	w.entities.release(e.Index)
	Publish(&w.events, Despawned{Entity: e})
}

// flushDespawns applies the despawns buffered during the frame in request order.
func (w *World) flushDespawns() {
	for i := 0; i < w.pendingLen; i++ {
		e := w.pending[i]
		// a Despawned handler may already have destroyed it
		if !w.pendingSet.has(e.Index) || !w.entities.isAlive(e) {
			continue
		}
		w.pendingSet.unset(e.Index)
		w.destroy(e)
	}
	if w.pendingLen > 0 {
		w.logger.Trace().Uint64("frame", w.frame).Int("count", w.pendingLen).Msg("despawns applied")
	}
	w.pendingLen = 0
}

// IsAlive reports whether e refers to a live entity. An entity despawned
// during the current frame is alive until the frame ends.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e)
}

// IsDespawning reports whether e is scheduled to be despawned at the end of
// the current frame.
func (w *World) IsDespawning(e Entity) bool {
	return w.entities.isAlive(e) && w.pendingSet.has(e.Index)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.entities.len()
}

// RegisterSystem appends fn to the systems run by Update. Systems run in
// registration order and cannot be removed.
//
// Returns:
//   - ErrCapacityExceeded when MaxSystems are registered.
//   - ErrNilSystem if fn is nil.
//   - ErrInFrame when called from a system.
func (w *World) RegisterSystem(fn System) error {
	if w.inFrame {
		return ErrInFrame
	}
	name, err := w.systems.add(fn)
	if err != nil {
		return eris.Wrapf(err, "register system %d", w.systems.n)
	}
	w.logger.Debug().Str("system", name).Int("position", w.systems.n-1).Msg("system registered")
	return nil
}

// RegisterSystems registers each system in order, stopping at the first failure.
func (w *World) RegisterSystems(fns ...System) error {
	for _, fn := range fns {
		if err := w.RegisterSystem(fn); err != nil {
			return err
		}
	}
	return nil
}

// Update runs one frame: every system once, in registration order, then the
// despawns they requested. Each system sees everything committed by the
// systems before it in the same frame.
//
// A failing system is logged and the frame continues. Update returns the
// first system error, or ErrInFrame if called from inside a system.
func (w *World) Update() error {
	if w.inFrame {
		return ErrInFrame
	}
	w.inFrame = true
	err := w.systems.run(w)
	w.inFrame = false
	w.flushDespawns()
	w.frame++
	return err
}

func (w *World) logSystemError(name string, err error) {
	w.logger.Warn().Err(err).Str("system", name).Uint64("frame", w.frame).Msg("system failed")
}

// Frame returns the number of completed calls to Update.
func (w *World) Frame() uint64 {
	return w.frame
}

// CurrentSystem returns the name of the running system, or "" between frames.
func (w *World) CurrentSystem() string {
	return w.systems.currentName()
}

// Systems returns the names of the registered systems in execution order.
func (w *World) Systems() []string {
	names := make([]string, w.systems.n)
	for i := range names {
		names[i] = w.systems.entries[i].name
	}
	return names
}

// Resources returns the world's resource table.
func (w *World) Resources() *Resources {
	return &w.resources
}

// Events returns the world's event bus.
func (w *World) Events() *EventBus {
	return &w.events
}

// Logger returns the world's logger.
func (w *World) Logger() *zerolog.Logger {
	return &w.logger
}

// ClearEntities despawns every entity at once, invalidating all handles and
// clearing every store. Despawned is not published. It fails with ErrInFrame
// during Update.
func (w *World) ClearEntities() error {
	if w.inFrame {
		return ErrInFrame
	}
	for i := 0; i < w.components.n; i++ {
		*w.components.stores[i].presenceSet() = entitySet{}
	}
	w.entities.clear()
	w.pendingLen = 0
	w.pendingSet = entitySet{}
	return nil
}

// Footprint returns the number of bytes held by the entity tables and every
// registered store, for checking the game against its memory budget.
func (w *World) Footprint() uintptr {
	n := unsafe.Sizeof(w.entities) + unsafe.Sizeof(w.pending) + unsafe.Sizeof(w.pendingSet)
	for i := 0; i < w.components.n; i++ {
		n += w.components.stores[i].footprint()
	}
	return n
}
