package kecil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnN(t *testing.T, w *World, n int) []Entity {
	t.Helper()
	out := make([]Entity, n)
	for i := range out {
		e, err := w.Spawn()
		require.NoError(t, err)
		out[i] = e
	}
	return out
}

func collect(q interface {
	Next() bool
	Entity() Entity
}) []Entity {
	var out []Entity
	for q.Next() {
		out = append(out, q.Entity())
	}
	return out
}

// go test -run ^TestFilter2AscendingExact$ . -count 1
func TestFilter2AscendingExact(t *testing.T) {
	w := NewWorld()
	pos := MustRegisterComponent[Position](w)
	vel := MustRegisterComponent[Velocity](w)
	ents := spawnN(t, w, 20)
	// insert in reverse to make sure order comes from the index, not insertion
	for i := len(ents) - 1; i >= 0; i-- {
		if i%2 == 0 {
			require.NoError(t, pos.Insert(ents[i], Position{X: float32(i)}))
		}
		if i%3 == 0 {
			require.NoError(t, vel.Insert(ents[i], Velocity{DX: float32(i)}))
		}
	}

	f := NewFilter2(pos, vel)
	got := collect(f)
	assert.Equal(t, []Entity{ents[0], ents[6], ents[12], ents[18]}, got)
	assert.Equal(t, 4, f.Count())

	f.Reset()
	for f.Next() {
		p, v := f.Get()
		assert.Equal(t, p.X, v.DX)
	}
	assert.False(t, f.Next(), "exhausted scan stays exhausted")
}

func TestFilterAdditionsDuringScanAreNotVisited(t *testing.T) {
	w := NewWorld()
	pos := MustRegisterComponent[Position](w)
	vel := MustRegisterComponent[Velocity](w)
	ents := spawnN(t, w, 6)
	for _, e := range ents[:3] {
		require.NoError(t, pos.Insert(e, Position{}))
		require.NoError(t, vel.Insert(e, Velocity{}))
	}
	// ents[5] has only Position at scan start
	require.NoError(t, pos.Insert(ents[5], Position{}))

	f := NewFilter2(pos, vel)
	require.True(t, f.Next())
	assert.Equal(t, ents[0], f.Entity())

	late, err := w.Spawn()
	require.NoError(t, err)
	require.NoError(t, pos.Insert(late, Position{}))
	require.NoError(t, vel.Insert(late, Velocity{}))
	require.NoError(t, vel.Insert(ents[5], Velocity{}))

	rest := collect(f)
	assert.Equal(t, []Entity{ents[1], ents[2]}, rest)

	f.Reset()
	assert.Equal(t, []Entity{ents[0], ents[1], ents[2], ents[5], late}, collect(f))
}

func TestFilterSkipsRecycledSlotDuringScan(t *testing.T) {
	w := NewWorld()
	pos := MustRegisterComponent[Position](w)
	ents := spawnN(t, w, 4)
	for _, e := range ents {
		require.NoError(t, pos.Insert(e, Position{}))
	}

	f := NewFilter(pos)
	require.True(t, f.Next())
	assert.Equal(t, ents[0], f.Entity())

	// outside Update the slot is freed at once and handed straight back
	require.NoError(t, w.Despawn(ents[2]))
	late, err := w.Spawn()
	require.NoError(t, err)
	require.Equal(t, ents[2].Index, late.Index)
	require.NoError(t, pos.Insert(late, Position{}))

	assert.Equal(t, []Entity{ents[1], ents[3]}, collect(f))

	f.Reset()
	assert.Equal(t, []Entity{ents[0], ents[1], late, ents[3]}, collect(f))
}

func TestFilterRemovalDuringScan(t *testing.T) {
	w := NewWorld()
	pos := MustRegisterComponent[Position](w)
	ents := spawnN(t, w, 10)
	for _, e := range ents {
		require.NoError(t, pos.Insert(e, Position{}))
	}

	t.Run("CurrentEntity", func(t *testing.T) {
		f := NewFilter(pos)
		visited := 0
		for f.Next() {
			_, ok := pos.Remove(f.Entity())
			require.True(t, ok)
			visited++
		}
		assert.Equal(t, len(ents), visited)
		assert.Equal(t, 0, pos.Len())
	})

	for _, e := range ents {
		require.NoError(t, pos.Insert(e, Position{}))
	}

	t.Run("AheadOfCursor", func(t *testing.T) {
		f := NewFilter(pos)
		require.True(t, f.Next())
		_, _ = pos.Remove(ents[4])
		got := collect(f)
		assert.NotContains(t, got, ents[4])
		assert.Len(t, got, len(ents)-2)
	})
}

func TestFilterExclude(t *testing.T) {
	w := NewWorld()
	pos := MustRegisterComponent[Position](w)
	frozen := MustRegisterComponent[Frozen](w)
	ents := spawnN(t, w, 4)
	for _, e := range ents {
		require.NoError(t, pos.Insert(e, Position{}))
	}
	require.NoError(t, frozen.Insert(ents[1], Frozen{}))

	f := NewFilter(pos)
	f.Exclude(frozen)
	assert.Equal(t, []Entity{ents[0], ents[2], ents[3]}, collect(f))
	assert.Equal(t, 3, f.Count())
}

func TestQueryWithoutTermsMatchesLiveEntities(t *testing.T) {
	w := NewWorld()
	ents := spawnN(t, w, 5)
	require.NoError(t, w.Despawn(ents[2]))

	q := NewQuery(w)
	assert.Equal(t, []Entity{ents[0], ents[1], ents[3], ents[4]}, collect(q))
	assert.Equal(t, 4, q.Count())
}

func TestQueryEntityCarriesGeneration(t *testing.T) {
	w := NewWorld()
	pos := MustRegisterComponent[Position](w)
	e, _ := w.Spawn()
	require.NoError(t, w.Despawn(e))
	e2, _ := w.Spawn()
	require.NoError(t, pos.Insert(e2, Position{}))

	f := NewFilter(pos)
	require.True(t, f.Next())
	assert.Equal(t, e2, f.Entity())
	assert.True(t, w.IsAlive(f.Entity()))
}

func TestFilter3(t *testing.T) {
	w := NewWorld()
	pos := MustRegisterComponent[Position](w)
	vel := MustRegisterComponent[Velocity](w)
	hp := MustRegisterComponent[Health](w)
	ents := spawnN(t, w, 3)
	for i, e := range ents {
		require.NoError(t, pos.Insert(e, Position{X: float32(i)}))
		require.NoError(t, vel.Insert(e, Velocity{DX: 1}))
	}
	require.NoError(t, hp.Insert(ents[2], Health{HP: 7}))

	f := NewFilter3(pos, vel, hp)
	require.True(t, f.Next())
	p, v, h := f.Get()
	assert.Equal(t, float32(2), p.X)
	assert.Equal(t, float32(1), v.DX)
	assert.Equal(t, 7, h.HP)
	assert.False(t, f.Next())
}

func TestQueryTooManyTermsPanics(t *testing.T) {
	w := NewWorld()
	pos := MustRegisterComponent[Position](w)
	terms := make([]Presence, MaxQueryTerms+1)
	for i := range terms {
		terms[i] = pos
	}
	assert.Panics(t, func() { NewQuery(w, terms...) })
}
