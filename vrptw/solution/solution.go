// Package solution holds a VRPTWMS candidate solution: the set of routes in
// use plus the doubly-linked list of not-yet-routed customers. A solution
// starts with every customer unrouted; a feasible solution has none left.
package solution

import (
	"errors"
	"fmt"
	"time"

	"github.com/vrptwms/solver/vrptw/geom"
	"github.com/vrptwms/solver/vrptw/route"
)

// ErrNoRoutes indicates AssertFeasible was called on a solution with zero routes.
var ErrNoRoutes = errors.New("solution: no routes")

// ErrNotFeasible wraps the first feasibility violation found by AssertFeasible.
var ErrNotFeasible = errors.New("solution: not feasible")

// ErrRouteNotEmpty indicates RemoveRoute was called on a non-empty route.
var ErrRouteNotEmpty = errors.New("solution: route is not empty")

// ErrRouteNotFound indicates RouteIndex found no route with the given id.
var ErrRouteNotFound = errors.New("solution: route id not found")

// Solution is one candidate assignment of customers to routes. Cost/worker/
// distance fields are caches refreshed by Cost (Dist and Workers recompute
// without storing), not maintained incrementally, matching the original's
// documented performance tradeoff.
type Solution struct {
	Problem  *geom.Problem
	Routes   []*route.Route
	Unrouted *route.Node // head of a doubly-linked list; nil when fully routed

	NumUnrouted int
	Time        time.Duration
	SaturationTime time.Duration

	WorkersCache int
	DistCache    float64
	CostCache    float64
}

// New builds an all-unrouted solution: every customer (every node but the
// depot) starts on the Unrouted list.
func New(pb *geom.Problem) *Solution {
	sol := &Solution{Problem: pb, NumUnrouted: pb.NumNodes() - 1}
	if sol.NumUnrouted == 0 {
		return sol
	}
	sol.Unrouted = route.NewNode(pb.Nodes[1])
	tail := sol.Unrouted
	for i := 2; i < pb.NumNodes(); i++ {
		n := route.NewNode(pb.Nodes[i])
		tail.Next = n
		n.Prev = tail
		tail = n
	}
	return sol
}

// AssertFeasible verifies every route is individually feasible and every
// customer is served exactly once.
func (s *Solution) AssertFeasible() error {
	if len(s.Routes) == 0 {
		return ErrNoRoutes
	}
	served := make([]int, s.Problem.NumNodes())
	for _, r := range s.Routes {
		if !r.IsFeasible() {
			return fmt.Errorf("%w: route %d infeasible", ErrNotFeasible, r.ID)
		}
		for n := r.Nodes.Next; n.Next != nil; n = n.Next {
			served[n.ID]++
		}
	}
	served[geom.DepotID] = 1
	for i, count := range served {
		if count != 1 {
			return fmt.Errorf("%w: node %d served %d times", ErrNotFeasible, i, count)
		}
	}
	return nil
}

// Cost recomputes and caches the hierarchical objective value: trucks first,
// then workers, then distance, combined via cfg's linear weights (the three
// terms are weighted so far apart in practice that trucks/workers dominate).
func (s *Solution) Cost(costTruck, costWorker, costDistance float64) float64 {
	var workers int
	var dist float64
	for _, r := range s.Routes {
		workers += r.Workers
		dist += r.CalcLength()
	}
	s.WorkersCache = workers
	s.DistCache = dist
	s.CostCache = geom.Round1e9(dist*costDistance + float64(workers)*costWorker + float64(len(s.Routes))*costTruck)
	return s.CostCache
}

// Dist returns the total distance driven by all routes.
func (s *Solution) Dist() float64 {
	var dist float64
	for _, r := range s.Routes {
		dist += r.CalcLength()
	}
	return geom.Round1e9(dist)
}

// Workers returns the total number of service workers across all routes.
func (s *Solution) Workers() int {
	var workers int
	for _, r := range s.Routes {
		workers += r.Workers
	}
	return workers
}

// Clone deep-copies the solution: every route gets entirely new Node objects,
// and the unrouted list is copied node-for-node.
func (s *Solution) Clone() *Solution {
	clone := &Solution{
		Problem:        s.Problem,
		NumUnrouted:    s.NumUnrouted,
		Time:           s.Time,
		SaturationTime: s.SaturationTime,
		WorkersCache:   s.WorkersCache,
		DistCache:      s.DistCache,
		CostCache:      s.CostCache,
	}
	clone.Routes = make([]*route.Route, len(s.Routes))
	for i, r := range s.Routes {
		clone.Routes[i] = r.Clone()
	}
	if s.Unrouted != nil {
		clone.Unrouted = s.Unrouted.Clone()
		tail := clone.Unrouted
		for n := s.Unrouted.Next; n != nil; n = n.Next {
			cp := n.Clone()
			tail.Next = cp
			cp.Prev = tail
			tail = cp
		}
	}
	return clone
}

// RouteIndex returns the slice index of the route with the given id.
func (s *Solution) RouteIndex(routeID int) (int, error) {
	for i, r := range s.Routes {
		if r.ID == routeID {
			return i, nil
		}
	}
	return 0, ErrRouteNotFound
}

// RemoveRoute drops the route at idx from the solution. Only valid on a
// route left with nothing but its opening/closing depot.
func (s *Solution) RemoveRoute(idx int) error {
	if s.Routes[idx].Len != route.Empty {
		return ErrRouteNotEmpty
	}
	s.Routes = append(s.Routes[:idx], s.Routes[idx+1:]...)
	return nil
}

// RemoveUnrouted unlinks n from the unrouted list. Must be called before n
// is spliced into a route.
func (s *Solution) RemoveUnrouted(n *route.Node) {
	if n.Prev != nil {
		n.Prev.Next = n.Next
	} else {
		s.Unrouted = n.Next
	}
	if n.Next != nil {
		n.Next.Prev = n.Prev
	}
	n.Prev, n.Next = nil, nil
	s.NumUnrouted--
}

// Reset discards every route, returning all customers to the unrouted list,
// and zeroes the solution's caches. Used between metaheuristic restarts.
func (s *Solution) Reset() {
	for _, r := range s.Routes {
		if r.Len == route.Empty {
			continue
		}
		customersTail := r.Tail.Prev
		customersTail.Next = s.Unrouted
		if s.Unrouted != nil {
			s.Unrouted.Prev = customersTail
		}
		s.Unrouted = r.Nodes.Next
		s.Unrouted.Prev = nil
	}
	s.Routes = nil
	s.NumUnrouted = s.Problem.NumNodes() - 1
	s.WorkersCache = 0
	s.DistCache = 0
	s.CostCache = 0
	s.Time = 0
	s.SaturationTime = 0
}
