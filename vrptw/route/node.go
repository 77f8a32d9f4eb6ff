// Package route implements the doubly-linked route representation at the
// heart of the VRPTWMS solver: Node (a route-owned working copy of a
// geom.Node, carrying prev/next links and earliest/latest-start fields) and
// Route (a sequence of Nodes bracketed by cloned depot sentinels).
package route

import "github.com/vrptwms/solver/vrptw/geom"

// uncomputed marks AEstCache/ALstCache as not-yet-filled, matching the
// original's -1.0 sentinel for freshly cloned nodes.
const uncomputed = -1.0

// Node is a route-linked working copy of a geom.Node. Every route owns its
// own Node objects (including its own depot sentinel pair) so identity never
// aliases across routes — moving or swapping nodes between routes relinks
// the same Node values rather than copying them again.
type Node struct {
	ID          int
	Demand      float64
	Est, Lst    float64
	ServiceTime float64

	// AEst, ALst are the actual earliest/latest start of service given the
	// node's current position and the route's current worker count.
	AEst, ALst float64

	// AEstCache, ALstCache hold what-if recomputations (e.g. for a different
	// worker count or a provisional insertion) without disturbing AEst/ALst.
	AEstCache, ALstCache float64

	Prev, Next *Node
}

// NewNode creates a fresh, unlinked working copy of g with caches reset.
func NewNode(g geom.Node) *Node {
	return &Node{
		ID:          g.ID,
		Demand:      g.Demand,
		Est:         g.Est,
		Lst:         g.Lst,
		ServiceTime: g.ServiceTime,
		AEst:        uncomputed,
		ALst:        uncomputed,
		AEstCache:   uncomputed,
		ALstCache:   uncomputed,
	}
}

// Clone returns an unlinked copy of n (prev/next reset to nil).
func (n *Node) Clone() *Node {
	cp := *n
	cp.Prev = nil
	cp.Next = nil
	return &cp
}

// SumDemands returns the total demand of first..last inclusive, following Next.
func SumDemands(first, last *Node) float64 {
	var sum float64
	n := first
	for {
		sum += n.Demand
		if n == last {
			break
		}
		n = n.Next
	}
	return sum
}
