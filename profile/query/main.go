// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof

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

type comp3 struct {
	V int64
	W int64
}

type tag struct{}

func main() {
	count := 50
	iters := 100000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters)
	p.Stop()
}

func run(rounds, iters int) {
	for range rounds {
		w := kecil.NewWorld()
		c1 := kecil.MustRegisterComponent[comp1](w)
		c2 := kecil.MustRegisterComponent[comp2](w)
		c3 := kecil.MustRegisterComponent[comp3](w)
		skip := kecil.MustRegisterComponent[tag](w)

		for i := range kecil.MaxEntities {
			e, err := w.Spawn()
			must(err)
			must(c1.Insert(e, comp1{}))
			must(c2.Insert(e, comp2{V: 1, W: 2}))
			must(c3.Insert(e, comp3{}))
			if i%8 == 0 {
				must(skip.Insert(e, tag{}))
			}
		}

		query := kecil.NewFilter3(c1, c2, c3)
		query.Exclude(skip)
		for range iters {
			query.Reset()
			for query.Next() {
				a, b, c := query.Get()
				a.V += b.V
				a.W += b.W
				c.V = a.V
			}
		}
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
