// Package localsearch implements the post-construction improvement phase:
// relocate moves of 1..MaxMove consecutive customers between routes, inter-
// route node swaps, truck-emptying, and service-worker reduction, driven by
// the hierarchical trucks/workers/distance objective and checked against a
// tabu.List.
package localsearch

import (
	"math"

	"github.com/vrptwms/solver/vrptw/config"
	"github.com/vrptwms/solver/vrptw/geom"
	"github.com/vrptwms/solver/vrptw/route"
	"github.com/vrptwms/solver/vrptw/solution"
	"github.com/vrptwms/solver/vrptw/tabu"
)

// State selects which savings a relocate move is allowed to chase: trucks
// first, then workers, then (never implemented upstream) distance alone.
type State int

const (
	StateReduceTrucks State = iota
	StateReduceWorkers
	StateReduceDistance
)

// calcDeltaDistMove returns the distance saved by relocating the block
// first..last (still attached to its source route) to right after `after`
// on some target route. Positive means the move shortens total distance.
func calcDeltaDistMove(d *geom.Matrix, first, last, after *route.Node) float64 {
	return d.MustAt(first.Prev.ID, first.ID) + d.MustAt(last.ID, last.Next.ID) -
		d.MustAt(first.Prev.ID, last.Next.ID) +
		d.MustAt(after.ID, after.Next.ID) -
		d.MustAt(after.ID, first.ID) - d.MustAt(last.ID, after.Next.ID)
}

// DeltaIsHigher returns whether (dTrucks, dWorkers, dDist) dominates m's
// currently held deltas under the hierarchical objective: a truck saved
// beats any number of workers saved, a worker saved beats any amount of
// distance saved, and a distance saving only counts once it clears
// route.MinDelta (to avoid chasing floating-point noise).
func DeltaIsHigher(m *tabu.Move, dTrucks, dWorkers int, dDist float64) bool {
	if dTrucks != 0 && m.DeltaTrucks == 0 {
		return true
	}
	if dTrucks == m.DeltaTrucks {
		if dWorkers > m.DeltaWorkers {
			return true
		}
		if dWorkers == m.DeltaWorkers && dDist-route.MinDelta > m.DeltaDist {
			return true
		}
	}
	return false
}

// EmptyRoute attempts to relocate every customer off sol.Routes[routeIdx]
// onto some other route, stopping at the first customer with nowhere
// feasible to go. Returns whether the route ended up empty. This generally
// increases total distance, so callers should only commit the result when
// it fully succeeds (see BruteReduceTrucks).
func EmptyRoute(sol *solution.Solution, routeIdx int, cfg *config.Config) bool {
	source := sol.Routes[routeIdx]
	if source.Len == route.Empty {
		return true
	}
	n := source.Nodes.Next
	for n != source.Tail {
		best := route.Insertion{Cost: math.Inf(1)}
		for j, target := range sol.Routes {
			if j == routeIdx {
				continue
			}
			target.CalcBestInsertion(n, cfg.Alpha, cfg.Mu, cfg.Lambda, &best)
		}
		next := n.Next
		if math.IsInf(best.Cost, 1) {
			break
		}
		source.RemoveNodes(best.Node, best.Node)
		best.Target.AddNodes(best.Node, best.Node, best.After)
		n = next
		if source.Len == route.Empty {
			return true
		}
	}
	return false
}

// MoveReducesWorkers returns the largest worker-count reduction (at least
// minReduction, capped at source.Workers-1) that keeps source feasible once
// first..last are hypothetically removed, or 0 if even minReduction isn't
// feasible. first..last are unlinked and relinked around the probe so the
// route's structure is left unchanged.
func MoveReducesWorkers(source *route.Route, first, last *route.Node, minReduction int) int {
	maxReduction := source.Workers - 1
	if minReduction == 0 {
		minReduction++
	}
	reduction := 0
	first.Prev.Next = last.Next
	last.Next.Prev = first.Prev
	for minReduction <= maxReduction && source.IsFeasibleWith(source.Workers-minReduction) {
		reduction = minReduction
		minReduction++
	}
	first.Prev.Next = first
	last.Next.Prev = last
	return reduction
}

// SwapNode performs the first feasible inter-route swap between r1 and r2
// that strictly reduces total distance, committing it via route.Swap.
// Returns whether a swap was performed.
func SwapNode(r1, r2 *route.Route) bool {
	capacity := r1.Problem.Capacity
	d := r1.Problem.Distances()
	cm1 := r1.Problem.CostFor(r1.Workers)
	cm2 := r2.Problem.CostFor(r2.Workers)
	for n1 := r1.Nodes.Next; n1.Next != nil; n1 = n1.Next {
		for n2 := r2.Nodes.Next; n2.Next != nil; n2 = n2.Next {
			if capacity < r1.Load-n1.Demand+n2.Demand || capacity < r2.Load-n2.Demand+n1.Demand {
				continue
			}
			n1.AEstCache = math.Max(n2.Prev.AEst+cm2.MustAt(n2.Prev.ID, n1.ID), n1.Est)
			n2.AEstCache = math.Max(n1.Prev.AEst+cm1.MustAt(n1.Prev.ID, n2.ID), n2.Est)
			if n1.AEstCache > n1.Lst || n2.AEstCache > n2.Lst {
				continue
			}
			n1.Next.AEstCache = math.Max(n2.AEstCache+cm1.MustAt(n2.ID, n1.Next.ID), n1.Next.Est)
			n2.Next.AEstCache = math.Max(n1.AEstCache+cm2.MustAt(n1.ID, n2.Next.ID), n2.Next.Est)
			if n1.Next.AEstCache > n1.Next.ALst || n2.Next.AEstCache > n2.Next.ALst {
				continue
			}
			savings := d.MustAt(n1.Prev.ID, n1.ID) + d.MustAt(n1.ID, n1.Next.ID) +
				d.MustAt(n2.Prev.ID, n2.ID) + d.MustAt(n2.ID, n2.Next.ID) -
				d.MustAt(n1.Prev.ID, n2.ID) - d.MustAt(n2.ID, n1.Next.ID) -
				d.MustAt(n2.Prev.ID, n1.ID) - d.MustAt(n1.ID, n2.Next.ID)
			if savings > route.MinDelta {
				route.Swap(r1, r2, n1, n2)
				return true
			}
		}
	}
	return false
}

// BruteReduceTrucks repeatedly tries to fully empty some route of *solPtr
// (via EmptyRoute on a scratch clone) and, on success, commits the clone
// with that route removed. Returns whether any truck was eliminated.
func BruteReduceTrucks(solPtr **solution.Solution, cfg *config.Config) bool {
	clone := (*solPtr).Clone()
	improved := false
	reduced := true
	for reduced {
		reduced = false
		for i := 0; i < len(clone.Routes); i++ {
			if EmptyRoute(clone, i, cfg) {
				_ = clone.RemoveRoute(i)
				*solPtr = clone.Clone()
				improved = true
				reduced = true
				break
			}
		}
	}
	return improved
}

// PerformMove commits m (a no-op if m.First is nil, i.e. no move was found),
// records it in tl, and resets m for the next search round.
func PerformMove(sol *solution.Solution, tl *tabu.List, m *tabu.Move) {
	if m.First == nil {
		return
	}
	tl.RecordMove(m)
	switch {
	case m.DeltaTrucks != 0:
		m.Source.RemoveNodesNoUpdate(m.First, m.Last)
		if idx, err := sol.RouteIndex(m.Source.ID); err == nil {
			_ = sol.RemoveRoute(idx)
		}
	case m.DeltaWorkers != 0:
		m.Source.RemoveNodesAndWorkers(m.First, m.Last, m.DeltaWorkers)
	default:
		m.Source.RemoveNodes(m.First, m.Last)
	}
	m.Target.AddNodes(m.First, m.Last, m.After)
	m.Reset(m.Improving)
}

// UpdateMove scans every (first..last, after) placement of a length-node
// block moving from source to target and, if one dominates m under
// DeltaIsHigher and is feasible and not tabu, replaces m with it. Returns
// whether m was updated. When cfg.BestMoves is false, returns as soon as
// any improving move is found instead of searching for the best one.
func UpdateMove(m *tabu.Move, source, target *route.Route, tl *tabu.List, cfg *config.Config, state State, length int) bool {
	if int(cfg.MaxMove) < length {
		return false
	}
	if source.Len < route.Empty+length {
		return false
	}
	updated := false
	deltaTrucks := 0
	if source.Len == route.Empty+length {
		deltaTrucks = 1
	}
	deltaWorkers := 0
	if deltaTrucks != 0 {
		deltaWorkers = source.Workers
	}
	if m.DeltaTrucks == 1 && deltaTrucks == 0 {
		return false
	}
	after := target.Nodes
	first := source.Nodes.Next
	last := first
	for i := length - 1; i > 0; i-- {
		last = last.Next
	}
	d := source.Problem.Distances()
	for last.Next != nil {
		// Go panics on an out-of-range slice access where the original's
		// fixed-size routes array tolerated trucks shrinking mid-scan;
		// callers only pass routes still present in sol.Routes.
		if target.Problem.Capacity < target.Load+route.SumDemands(first, last) {
			first = first.Next
			last = last.Next
			continue
		}
		if state >= StateReduceWorkers && deltaTrucks == 0 {
			deltaWorkers = MoveReducesWorkers(source, first, last, m.DeltaWorkers)
		}
		for after != target.Tail {
			deltaDist := calcDeltaDistMove(d, first, last, after)
			if DeltaIsHigher(m, deltaTrucks, deltaWorkers, deltaDist) && target.CanInsert(first, last, after) {
				candidate := tabu.Move{
					Source: source, Target: target, First: first, Last: last, After: after,
					DeltaDist: deltaDist, DeltaTrucks: deltaTrucks, DeltaWorkers: deltaWorkers,
					Improving: m.Improving,
				}
				if !tl.IsTabu(&candidate) {
					*m = candidate
					if !cfg.BestMoves {
						return true
					}
					updated = true
				}
			}
			after = after.Next
		}
		after = target.Nodes
		first = first.Next
		last = last.Next
	}
	return updated
}

// MoveAll drives UpdateMove/PerformMove over every ordered route pair, for
// block lengths MaxMove down to 1, until no further move is found.
// Delegates to MoveAllBest when cfg.BestMoves is set.
func MoveAll(sol *solution.Solution, cfg *config.Config, tl *tabu.List, state State) bool {
	if cfg.BestMoves {
		return MoveAllBest(sol, cfg, tl, state)
	}
	success := false
	for length := int(cfg.MaxMove); length >= 1; length-- {
		for {
			updated := false
			for i := len(sol.Routes) - 1; i >= 1 && i < len(sol.Routes); i-- {
				for j := i - 1; j >= 0 && j < len(sol.Routes); j-- {
					m := &tabu.Move{}
					m.Reset(true)
					u := UpdateMove(m, sol.Routes[j], sol.Routes[i], tl, cfg, state, length)
					removed := m.DeltaTrucks != 0
					PerformMove(sol, tl, m)
					updated = updated || u
					if removed {
						break
					}
					m.Reset(true)
					u = UpdateMove(m, sol.Routes[i], sol.Routes[j], tl, cfg, state, length)
					removed = m.DeltaTrucks != 0
					PerformMove(sol, tl, m)
					updated = updated || u
					if removed {
						break
					}
				}
			}
			success = success || updated
			if !updated {
				break
			}
		}
	}
	return success
}

// MoveAllBest scans every ordered route pair for the single best length-1
// or length-2 relocate move, applies it, and repeats until no improving
// move remains.
func MoveAllBest(sol *solution.Solution, cfg *config.Config, tl *tabu.List, state State) bool {
	success := false
	for {
		m := &tabu.Move{}
		m.Reset(true)
		updated := false
		for i := len(sol.Routes) - 1; i >= 1 && i < len(sol.Routes); i-- {
			for j := i - 1; j >= 0 && j < len(sol.Routes); j-- {
				updated = UpdateMove(m, sol.Routes[j], sol.Routes[i], tl, cfg, state, 2) || updated
				updated = UpdateMove(m, sol.Routes[i], sol.Routes[j], tl, cfg, state, 2) || updated
				updated = UpdateMove(m, sol.Routes[j], sol.Routes[i], tl, cfg, state, 1) || updated
				updated = UpdateMove(m, sol.Routes[i], sol.Routes[j], tl, cfg, state, 1) || updated
			}
		}
		PerformMove(sol, tl, m)
		success = success || updated
		if !updated {
			break
		}
	}
	return success
}

// SwapAll drives SwapNode over every unordered route pair until no swap
// improves the solution. A no-op when cfg.MaxSwap < 1.
func SwapAll(sol *solution.Solution, cfg *config.Config) bool {
	success := false
	if cfg.MaxSwap < 1 {
		return false
	}
	for {
		improved := false
		for i := len(sol.Routes) - 1; i >= 1 && i < len(sol.Routes); i-- {
			for j := i - 1; j >= 0 && j < len(sol.Routes); j-- {
				if SwapNode(sol.Routes[i], sol.Routes[j]) {
					improved = true
				}
			}
		}
		success = success || improved
		if !improved {
			break
		}
	}
	return success
}

// ReduceTrucks alternates truck-emptying, relocate, and swap passes until
// none of the three finds any further improvement.
func ReduceTrucks(sol *solution.Solution, cfg *config.Config, tl *tabu.List) *solution.Solution {
	for {
		improved := false
		if BruteReduceTrucks(&sol, cfg) {
			improved = true
		}
		if MoveAll(sol, cfg, tl, StateReduceTrucks) {
			improved = true
		}
		if SwapAll(sol, cfg) {
			improved = true
		}
		if !improved {
			break
		}
	}
	return sol
}

// ReduceWorkers greedily drops every route's worker count to its lowest
// feasible value, then alternates relocate and swap passes aimed at further
// worker savings until neither finds any.
func ReduceWorkers(sol *solution.Solution, cfg *config.Config, tl *tabu.List) {
	for _, r := range sol.Routes {
		r.ReduceServiceWorkers()
	}
	for {
		improved := false
		if MoveAll(sol, cfg, tl, StateReduceWorkers) {
			improved = true
		}
		if SwapAll(sol, cfg) {
			improved = true
		}
		if !improved {
			break
		}
	}
}

// DoLS runs the full local search pipeline: reduce trucks, then (if more
// than one worker per truck is allowed) reduce workers. Distance-only
// reduction was never implemented upstream either and is not attempted here.
// When cfg.DoLS is false, only superfluous workers are trimmed.
func DoLS(sol *solution.Solution, cfg *config.Config, tl *tabu.List) *solution.Solution {
	if cfg.DoLS {
		sol = ReduceTrucks(sol, cfg, tl)
		if cfg.MaxWorkers > 1 {
			ReduceWorkers(sol, cfg, tl)
		}
		return sol
	}
	for _, r := range sol.Routes {
		r.ReduceServiceWorkers()
	}
	return sol
}
