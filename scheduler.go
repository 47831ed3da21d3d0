package kecil

import (
	"path/filepath"
	"reflect"
	"runtime"
)

// MaxSystems is the number of systems a World can run per frame.
const MaxSystems = 32

// System is a unit of per-frame logic. It receives exclusive access to the
// World for the duration of the call and must not keep pointers obtained from
// it (component pointers, filters' current values) past its return.
//
// An error is reported by Update but does not stop the systems after it.
type System func(w *World) error

// systemEntry tracks a registered system. Systems have no identity besides
// their position; the name only serves diagnostics.
type systemEntry struct {
	fn   System
	name string
}

// scheduler is the fixed-capacity ordered list of systems.
type scheduler struct {
	entries [MaxSystems]systemEntry
	n       int
	current int // index of the running system, -1 between frames
}

func (s *scheduler) add(fn System) (string, error) {
	if fn == nil {
		return "", ErrNilSystem
	}
	if s.n >= MaxSystems {
		return "", ErrCapacityExceeded
	}
	name := filepath.Base(runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name())
	s.entries[s.n] = systemEntry{fn: fn, name: name}
	s.n++
	return name, nil
}

// run calls every system once in registration order. A failing system is
// logged and the next system still runs. It returns the first error.
func (s *scheduler) run(w *World) error {
	var first error
	for i := 0; i < s.n; i++ {
		s.current = i
		sys := &s.entries[i]
		if err := sys.fn(w); err != nil {
			w.logSystemError(sys.name, err)
			if first == nil {
				first = err
			}
		}
	}
	s.current = -1
	return first
}

func (s *scheduler) currentName() string {
	if s.current < 0 {
		return ""
	}
	return s.entries[s.current].name
}
