package kecil

import "github.com/rs/zerolog"

// LogState writes one event describing the world: live entity count, frame,
// every registered component with its ID and population, and the systems in
// execution order.
func (w *World) LogState(level zerolog.Level) {
	components := zerolog.Arr()
	for i := 0; i < w.components.n; i++ {
		s := w.components.stores[i]
		components = components.Dict(zerolog.Dict().
			Int("component_id", int(s.componentID())).
			Str("component_name", s.componentName()).
			Int("count", s.count()))
	}
	systems := zerolog.Arr()
	for i := 0; i < w.systems.n; i++ {
		systems = systems.Str(w.systems.entries[i].name)
	}
	w.logger.WithLevel(level).
		Int("entities", w.entities.len()).
		Uint64("frame", w.frame).
		Uint64("footprint_bytes", uint64(w.Footprint())).
		Int("total_components", w.components.n).
		Array("components", components).
		Int("total_systems", w.systems.n).
		Array("systems", systems).
		Msg("world state")
}
