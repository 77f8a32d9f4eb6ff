// Package insertion layers ACO-specific insertion scoring (trail-weighted
// cost and attractiveness) and a bounded, attractiveness-sorted candidate
// list on top of vrptw/route's Solomon I1 scoring core.
package insertion

import (
	"math"
	"math/rand"

	"github.com/vrptwms/solver/vrptw/route"
)

// List holds up to maxSize candidate insertions, kept sorted by descending
// Attractiveness (index 0 is the most attractive). A slice-backed
// reimplementation of the original's sorted doubly-linked insertion list.
type List struct {
	items   []*route.Insertion
	maxSize int
}

// NewList allocates a list bounded to maxSize entries. maxSize <= 0 means
// unbounded.
func NewList(maxSize int) *List {
	return &List{maxSize: maxSize}
}

// Len returns the number of candidates currently held.
func (l *List) Len() int { return len(l.items) }

// Reset discards every held candidate.
func (l *List) Reset() { l.items = nil }

// Update inserts ins into its sorted position and, if the list is now over
// capacity, evicts the least attractive entry. Returns whether ins was kept.
func (l *List) Update(ins *route.Insertion) bool {
	if l.maxSize > 0 && l.maxSize == 1 {
		if len(l.items) == 1 && l.items[0].Attractiveness > ins.Attractiveness {
			return false
		}
		l.items = []*route.Insertion{ins}
		return true
	}
	pos := 0
	for pos < len(l.items) && l.items[pos].Attractiveness >= ins.Attractiveness {
		pos++
	}
	if l.maxSize > 0 && len(l.items) >= l.maxSize {
		if pos == len(l.items) {
			return false // would be the new worst entry, and there's no room
		}
		l.items = append(l.items, nil)
		copy(l.items[pos+1:], l.items[pos:len(l.items)-1])
		l.items[pos] = ins
		l.items = l.items[:l.maxSize]
		return true
	}
	l.items = append(l.items, nil)
	copy(l.items[pos+1:], l.items[pos:len(l.items)-1])
	l.items[pos] = ins
	return true
}

// Pick returns a candidate: weighted by Attractiveness via a roulette wheel
// when useWeights is set (every Attractiveness must be positive), otherwise
// uniformly at random. Returns nil on an empty list.
func (l *List) Pick(useWeights bool, rng *rand.Rand) *route.Insertion {
	if len(l.items) == 0 {
		return nil
	}
	if !useWeights {
		return l.items[rng.Intn(len(l.items))]
	}
	var cum float64
	for _, ins := range l.items {
		cum += ins.Attractiveness
	}
	threshold := rng.Float64() * cum
	for _, ins := range l.items {
		cum -= ins.Attractiveness
		if threshold >= cum {
			return ins
		}
	}
	return l.items[len(l.items)-1]
}

// PickFromArray picks one of insertions via a weighted roulette wheel over
// Attractiveness, skipping any with infinite attractiveness of either sign
// (the "no candidate" sentinel). Returns nil if insertions is empty.
func PickFromArray(insertions []*route.Insertion, rng *rand.Rand) *route.Insertion {
	var cum float64
	for _, ins := range insertions {
		if math.IsInf(ins.Attractiveness, 0) {
			continue
		}
		cum += ins.Attractiveness
	}
	threshold := rng.Float64() * cum
	for _, ins := range insertions {
		if math.IsInf(ins.Attractiveness, 0) {
			continue
		}
		cum -= ins.Attractiveness
		if threshold >= cum {
			return ins
		}
	}
	return nil
}
