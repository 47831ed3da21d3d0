package kecil

// MaxQueryTerms is the number of stores a Query can require, and separately
// the number it can exclude.
const MaxQueryTerms = 8

// Query is a forward-only iterator over the entities that have every
// required component and none of the excluded ones, in ascending index order.
//
// Reset takes a snapshot of the matching indices. Next walks that snapshot
// and re-checks each index against the live stores before returning it, so:
//   - an entity that starts matching after Reset is not visited by this scan,
//   - an entity ahead of the cursor that stopped matching is skipped,
//   - changing the components of the current entity never disturbs the scan,
//   - no index is returned twice.
//
// A Query keeps no heap state of its own. Build it once and call Reset at the
// start of every scan.
type Query struct {
	reg      *entityRegistry
	with     [MaxQueryTerms]*entitySet
	without  [MaxQueryTerms]*entitySet
	snapshot entitySet
	gens     [MaxEntities]uint16 // generation of each snapshot index at Reset
	nWith    int
	nWithout int
	cursor   int
	cur      uint16
}

// NewQuery creates a query over the given stores of w. With no stores it
// matches every live entity.
//
// It panics if more than MaxQueryTerms stores are given; the set of stores a
// query uses is fixed by the game's code, not by runtime data.
func NewQuery(w *World, with ...Presence) *Query {
	q := &Query{}
	q.init(&w.entities, with...)
	return q
}

func (q *Query) init(reg *entityRegistry, with ...Presence) {
	if len(with) > MaxQueryTerms {
		panic("kecil: too many query terms")
	}
	q.reg = reg
	for i, p := range with {
		q.with[i] = p.presenceSet()
	}
	q.nWith = len(with)
	q.Reset()
}

// Exclude adds stores whose components disqualify an entity, then resets the
// query. It panics if the total exceeds MaxQueryTerms.
func (q *Query) Exclude(without ...Presence) {
	if q.nWithout+len(without) > MaxQueryTerms {
		panic("kecil: too many excluded query terms")
	}
	for _, p := range without {
		q.without[q.nWithout] = p.presenceSet()
		q.nWithout++
	}
	q.Reset()
}

// Reset snapshots the entities matching the query right now and rewinds the
// cursor to the first index.
func (q *Query) Reset() {
	q.snapshot = q.reg.live
	for i := 0; i < q.nWith; i++ {
		q.snapshot.and(q.with[i])
	}
	for i := 0; i < q.nWithout; i++ {
		q.snapshot.andNot(q.without[i])
	}
	for idx, ok := q.snapshot.next(0); ok; idx, ok = q.snapshot.next(int(idx) + 1) {
		q.gens[idx] = q.reg.generations[idx]
	}
	q.cursor = 0
	q.cur = 0
}

// Next advances to the next matching entity. It returns false once the scan
// is exhausted; further calls keep returning false until Reset.
//
// Example:
//
//	q.Reset()
//	for q.Next() {
//	    e := q.Entity()
//	    // ...
//	}
func (q *Query) Next() bool {
	for {
		idx, ok := q.snapshot.next(q.cursor)
		if !ok {
			q.cursor = MaxEntities
			return false
		}
		q.cursor = int(idx) + 1
		// a slot freed and respawned since Reset holds a different entity
		if q.reg.generations[idx] != q.gens[idx] {
			continue
		}
		if q.matches(idx) {
			q.cur = idx
			return true
		}
	}
}

// matches re-checks idx against the current state of the stores.
func (q *Query) matches(idx uint16) bool {
	if !q.reg.live.has(idx) {
		return false
	}
	for i := 0; i < q.nWith; i++ {
		if !q.with[i].has(idx) {
			return false
		}
	}
	for i := 0; i < q.nWithout; i++ {
		if q.without[i].has(idx) {
			return false
		}
	}
	return true
}

// Entity returns the current entity. Only valid after Next returned true.
func (q *Query) Entity() Entity {
	return q.reg.handle(q.cur)
}

// Count returns how many entities match the query right now. It does not
// move the cursor.
func (q *Query) Count() int {
	s := q.reg.live
	for i := 0; i < q.nWith; i++ {
		s.and(q.with[i])
	}
	for i := 0; i < q.nWithout; i++ {
		s.andNot(q.without[i])
	}
	return s.count()
}
