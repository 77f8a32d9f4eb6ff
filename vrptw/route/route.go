package route

import (
	"math"

	"github.com/vrptwms/solver/vrptw/geom"
	"github.com/vrptwms/solver/vrptw/pheromone"
)

// MinCost floors per-edge costs used as ACO roulette denominators, avoiding
// division by zero on zero-distance edges.
const MinCost = 0.001

// DepotID is the real depot's node id, re-exported from geom for scoring
// functions in this package.
const DepotID = geom.DepotID

// Route length thresholds: Len always counts the opening and closing depot.
const (
	Empty        = 2
	OneCustomer  = 3
	TwoCustomers = 4
)

// Route is one truck's doubly-linked sequence of Nodes, bracketed by a
// cloned opening/closing depot pair private to this route.
type Route struct {
	Problem *geom.Problem
	ID      int
	// DepotID is this route's virtual depot id (NumNodes + ID), used only to
	// index into the pheromone matrix.
	DepotID int
	Nodes   *Node // opening depot sentinel
	Tail    *Node // closing depot sentinel
	Len     int
	Load    float64
	Workers int
}

// newDepot returns a fresh clone of the problem's depot node.
func newDepot(pb *geom.Problem) *Node {
	return NewNode(pb.Nodes[geom.DepotID])
}

// NewRoute creates a route seeded with a single customer node, already
// unlinked from any other list, and computes its initial aest/alst.
func NewRoute(pb *geom.Problem, id int, seed *Node, workers int) *Route {
	r := &Route{
		Problem: pb,
		ID:      id,
		DepotID: pb.NumNodes() + id,
		Workers: workers,
		Len:     OneCustomer,
		Load:    seed.Demand,
	}
	r.Nodes = newDepot(pb)
	r.Nodes.Next = seed
	seed.Prev = r.Nodes
	seed.Next = newDepot(pb)
	r.Tail = seed.Next
	r.Tail.Prev = seed
	r.CalcEsts(r.Nodes, workers)
	r.CalcLsts(r.Tail, workers)
	return r
}

// AddNodesNoUpdate splices first..last (already removed from their previous
// route) in after `after`, without recomputing aest/alst.
func (r *Route) AddNodesNoUpdate(first, last, after *Node) {
	n := first
	for {
		r.Load += n.Demand
		r.Len++
		if n == last {
			break
		}
		n = n.Next
	}
	first.Prev = after
	last.Next = after.Next
	last.Next.Prev = last
	after.Next = first
}

// AddNodes splices first..last in after `after` and refreshes aest/alst.
func (r *Route) AddNodes(first, last, after *Node) {
	r.AddNodesNoUpdate(first, last, after)
	r.CalcEsts(first, r.Workers)
	r.CalcLsts(last, r.Workers)
}

// RemoveNodesNoUpdate detaches first..last from the route without
// recomputing aest/alst.
func (r *Route) RemoveNodesNoUpdate(first, last *Node) {
	n := first
	for {
		r.Load -= n.Demand
		r.Len--
		if n == last {
			break
		}
		n = n.Next
	}
	first.Prev.Next = last.Next
	last.Next.Prev = first.Prev
	last.Next = nil
	first.Prev = nil
}

// RemoveNodes detaches first..last and refreshes aest/alst for what remains.
func (r *Route) RemoveNodes(first, last *Node) {
	prev := first.Prev
	r.RemoveNodesNoUpdate(first, last)
	r.CalcEsts(prev.Next, r.Workers)
	r.CalcLsts(prev, r.Workers)
}

// RemoveNodesAndWorkers detaches first..last and additionally drops
// numWorkers service workers from the route. Must only be called after
// MoveReducesWorkers confirmed feasibility for the same arguments.
func (r *Route) RemoveNodesAndWorkers(first, last *Node, numWorkers int) {
	n := first
	for {
		r.Load -= n.Demand
		r.Len--
		if n == last {
			break
		}
		n = n.Next
	}
	first.Prev.Next = last.Next
	last.Next.Prev = first.Prev
	last.Next = nil
	first.Prev = nil
	for n = r.Nodes; n != nil; n = n.Next {
		n.AEst = n.AEstCache
	}
	r.Workers -= numWorkers
	r.CalcLsts(r.Tail, r.Workers)
}

// CalcEsts (re)computes earliest-start times from n to the route's end.
// If workers equals the route's current worker count, the real AEst fields
// are updated; otherwise the what-if AEstCache fields are filled instead
// (used by IsFeasibleWith to test an alternate worker count without
// disturbing the route's committed state).
func (r *Route) CalcEsts(n *Node, workers int) {
	cm := r.Problem.CostFor(workers)
	if r.Workers == workers {
		if n == r.Nodes {
			n.AEst = n.Est
			n = n.Next
		}
		for n.Next != nil {
			n.AEst = math.Max(n.Est, n.Prev.AEst+cm.MustAt(n.Prev.ID, n.ID))
			n = n.Next
		}
		return
	}
	if n == r.Nodes {
		n.AEstCache = n.Est
		n = n.Next
	}
	for n != nil {
		n.AEstCache = math.Max(n.Est, n.Prev.AEstCache+cm.MustAt(n.Prev.ID, n.ID))
		n = n.Next
	}
}

// CalcLsts (re)computes latest-start times from n back to the route's start.
func (r *Route) CalcLsts(n *Node, workers int) {
	cm := r.Problem.CostFor(workers)
	if n == r.Tail {
		n.ALst = n.Lst
		n = n.Prev
	}
	for n.Prev != nil {
		n.ALst = math.Min(n.Lst, n.Next.ALst-cm.MustAt(n.ID, n.Next.ID))
		n = n.Prev
	}
}

// CalcLength returns the route's total driving distance, rounded to 1e-9
// precision so it stays stable across platforms.
func (r *Route) CalcLength() float64 {
	d := r.Problem.Distances()
	var dist float64
	for n := r.Nodes.Next; n != nil; n = n.Next {
		dist += d.MustAt(n.Prev.ID, n.ID)
	}
	return geom.Round1e9(dist)
}

// Edges returns the view of this route that pheromone.Matrix.Evaporate needs
// to deposit along every edge actually driven. Empty routes (no customers
// yet) have no interior to walk.
func (r *Route) Edges() pheromone.RouteEdges {
	e := pheromone.RouteEdges{DepotID: r.DepotID}
	if r.Len == Empty {
		return e
	}
	e.FirstID = r.Nodes.Next.ID
	e.LastID = r.Tail.Prev.ID
	for n := r.Nodes.Next.Next; n != r.Tail; n = n.Next {
		e.InteriorIDs = append(e.InteriorIDs, n.ID)
	}
	return e
}

// Clone returns a deep copy of the route with entirely new Node objects.
func (r *Route) Clone() *Route {
	clone := &Route{Problem: r.Problem, ID: r.ID, DepotID: r.DepotID, Len: r.Len, Load: r.Load, Workers: r.Workers}
	clone.Nodes = r.Nodes.Clone()
	clone.Tail = clone.Nodes
	for n := r.Nodes.Next; n != nil; n = n.Next {
		cp := n.Clone()
		clone.Tail.Next = cp
		cp.Prev = clone.Tail
		clone.Tail = cp
	}
	return clone
}

// IsFeasible re-derives feasibility from scratch (capacity + time windows),
// ignoring any cached aest/alst. Intended only for end-of-computation sanity
// checks, not hot-path use.
func (r *Route) IsFeasible() bool {
	cm := r.Problem.CostFor(r.Workers)
	var load, est float64
	est = r.Nodes.Est
	for n := r.Nodes.Next; n != nil; n = n.Next {
		load += n.Demand
		est = math.Max(n.Est, est+cm.MustAt(n.Prev.ID, n.ID))
		if est > n.Lst {
			return false
		}
	}
	return load <= r.Problem.Capacity
}

// IsFeasibleWith returns whether the route would remain time-window feasible
// if its worker count were changed to workers, filling AEstCache as a
// side effect (callers such as ReduceServiceWorkers rely on this).
func (r *Route) IsFeasibleWith(workers int) bool {
	if r.Workers == workers {
		return true
	}
	r.CalcEsts(r.Nodes, workers)
	for n := r.Nodes.Next; n != nil; n = n.Next {
		if n.AEstCache > n.Lst {
			return false
		}
	}
	return true
}

// ReduceServiceWorkers greedily drops the route's worker count to the lowest
// feasible value (at least 1) and returns whether any reduction happened.
func (r *Route) ReduceServiceWorkers() bool {
	reduced := false
	workers := r.Workers - 1
	for workers >= 1 && r.IsFeasibleWith(workers) {
		r.Workers = workers
		for n := r.Nodes; n != nil; n = n.Next {
			n.AEst = n.AEstCache
		}
		workers--
		reduced = true
	}
	if reduced {
		r.CalcLsts(r.Tail, r.Workers)
	}
	return reduced
}

// CanInsertOne returns whether a single node n can be inserted right after
// pred without a time-window collision, using the route's current worker
// count. Capacity is not checked here.
func (r *Route) CanInsertOne(n, pred *Node) bool {
	cm := r.Problem.CostFor(r.Workers)
	earliest := pred.AEst + cm.MustAt(pred.ID, n.ID)
	latest := pred.Next.ALst - cm.MustAt(n.ID, pred.Next.ID)
	return earliest <= n.Lst && latest >= n.Est && earliest <= latest
}

// CanInsert returns whether the block first..last can be inserted after
// `after` on this route, filling AEstCache along the way.
func (r *Route) CanInsert(first, last, after *Node) bool {
	cm := r.Problem.CostFor(r.Workers)
	first.AEstCache = math.Max(after.AEst+cm.MustAt(after.ID, first.ID), first.Est)
	if first.AEstCache > first.Lst {
		return false
	}
	for first != last {
		next := first.Next
		next.AEstCache = math.Max(first.AEstCache+cm.MustAt(first.ID, next.ID), next.Est)
		if next.AEstCache > next.Lst {
			return false
		}
		first = next
	}
	return last.AEstCache+cm.MustAt(last.ID, after.Next.ID) <= after.Next.ALst
}

// Swap exchanges n1 (on r1) with n2 (on r2) and updates both routes'
// load/aest/alst. No feasibility checks are performed.
func Swap(r1, r2 *Route, n1, n2 *Node) {
	temp := n1.Prev
	r1.Load += n2.Demand - n1.Demand
	r2.Load += n1.Demand - n2.Demand

	n1.Prev = n2.Prev
	n2.Prev = temp
	temp = n1.Next
	n1.Next = n2.Next
	n2.Next = temp

	n1.Prev.Next = n1
	n1.Next.Prev = n1
	n2.Prev.Next = n2
	n2.Next.Prev = n2

	n1.AEst = n1.AEstCache
	n1.Next.AEst = n1.Next.AEstCache
	n2.AEst = n2.AEstCache
	n2.Next.AEst = n2.Next.AEstCache
	if n1.Next.Next != nil && n1.Next.Next.Next != nil {
		r2.CalcEsts(n1.Next.Next, r2.Workers)
	}
	if n2.Next.Next != nil && n2.Next.Next.Next != nil {
		r1.CalcEsts(n2.Next.Next, r1.Workers)
	}
	r2.CalcLsts(n1, r2.Workers)
	r1.CalcLsts(n2, r1.Workers)
}
