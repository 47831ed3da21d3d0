// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/pkg/profile"

	"github.com/edwinsyarief/kecil"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 10000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters)
	p.Stop()
}

// run fills the world, scans it and despawns everything the scan saw, from
// inside a system so the despawns go through the deferred path.
func run(rounds, iters int) {
	for range rounds {
		w := kecil.NewWorld()
		c1 := kecil.MustRegisterComponent[comp1](w)
		c2 := kecil.MustRegisterComponent[comp2](w)
		query := kecil.NewFilter2(c1, c2)

		err := w.RegisterSystem(func(w *kecil.World) error {
			query.Reset()
			for query.Next() {
				a, b := query.Get()
				a.V += b.V
				a.W += b.W
				if err := w.Despawn(query.Entity()); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			panic(err)
		}

		for range iters {
			for range kecil.MaxEntities {
				e, err := w.Spawn()
				if err != nil {
					panic(err)
				}
				must(c1.Insert(e, comp1{V: 1}))
				must(c2.Insert(e, comp2{V: 1, W: 1}))
			}
			if err := w.Update(); err != nil {
				panic(err)
			}
		}
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
