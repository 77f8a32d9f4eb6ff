// Package solcache implements a simple solution cache used by the cached
// ACO/GRASP metaheuristics to skip redundant local search: solutions are
// fingerprinted by their objective value alone (not compared for structural
// identity), trading a small chance of false-positive collisions for a very
// cheap "have I already explored this neighborhood" check.
package solcache

import "math"

// Cache maps a solution's cost fingerprint to how many times it has been
// seen.
type Cache struct {
	hits   map[uint64]uint64
	factor float64
}

// New allocates a cache for an instance with numNodes nodes (including the
// depot); factor scales a cost into the uint64 hash space the same way
// across every solution from this instance.
func New(numNodes int) *Cache {
	return &Cache{
		hits:   make(map[uint64]uint64),
		factor: float64(math.MaxUint64) / float64(numNodes),
	}
}

// hash rounds cost*factor down to a uint64 fingerprint.
func (c *Cache) hash(cost float64) uint64 {
	return uint64(cost * c.factor)
}

// Add records cost as seen once, overwriting any prior hit count for the
// same fingerprint. Call only when Contains has just reported zero.
func (c *Cache) Add(cost float64) {
	c.hits[c.hash(cost)] = 1
}

// Contains increments and returns the hit count for cost's fingerprint, or
// 0 if that fingerprint was never recorded by Add (Contains itself does not
// record a fingerprint).
func (c *Cache) Contains(cost float64) uint64 {
	h := c.hash(cost)
	if n, ok := c.hits[h]; ok {
		n++
		c.hits[h] = n
		return n
	}
	return 0
}

// Size returns the number of distinct fingerprints recorded.
func (c *Cache) Size() int { return len(c.hits) }

// Queries returns the sum of every hit count: one per fingerprint recorded
// by Add, plus one per Contains call that found a recorded fingerprint.
func (c *Cache) Queries() uint64 {
	var total uint64
	for _, n := range c.hits {
		total += n
	}
	return total
}
