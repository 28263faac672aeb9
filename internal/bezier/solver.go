package bezier

import (
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/ivlev/keyframes/internal/cache"
)

// Solver solves timing curves through a bounded cache of solved entries.
// A nil *Solver is valid and solves every curve cold.
//
// Misses are built outside the cache lock, so a lookup never waits on another
// key being solved. Concurrent misses on the same key share one build.
type Solver struct {
	entries *cache.Cache[Key, *Entry]
	group   singleflight.Group
}

// NewSolver creates a solver caching at most size curves.
func NewSolver(size int) *Solver {
	return &Solver{entries: cache.New[Key, *Entry](size)}
}

// Solve returns y for the linear fraction t on curve c.
func (s *Solver) Solve(c Curve, t float64) float64 {
	return s.Entry(c).Y(t)
}

// Entry returns the solved entry for c, from cache when present.
func (s *Solver) Entry(c Curve) *Entry {
	if s == nil {
		return NewEntry(c)
	}
	if e, ok := s.entries.Get(c.key); ok {
		return e
	}

	k := c.key
	v, _, _ := s.group.Do(fmt.Sprintf("%d:%d:%d:%d", k[0], k[1], k[2], k[3]), func() (interface{}, error) {
		e := NewEntry(c)
		s.entries.Set(k, e)
		return e, nil
	})
	return v.(*Entry)
}

// Clear empties the cache. Later lookups rebuild entries lazily and produce
// the same results.
func (s *Solver) Clear() {
	if s == nil {
		return
	}
	s.entries.Clear()
}

// Stats reports cache size and counters.
func (s *Solver) Stats() cache.Stats {
	if s == nil {
		return cache.Stats{}
	}
	return s.entries.Stats()
}

// Solve solves c at t without any cache.
func Solve(c Curve, t float64) float64 {
	return NewEntry(c).Y(t)
}
