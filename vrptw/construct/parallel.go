package construct

import (
	"math/rand"

	"github.com/vrptwms/solver/vrptw/config"
	"github.com/vrptwms/solver/vrptw/insertion"
	"github.com/vrptwms/solver/vrptw/pheromone"
	"github.com/vrptwms/solver/vrptw/route"
	"github.com/vrptwms/solver/vrptw/solution"
)

// PrependInsertions appends every feasible position of n on r to existing,
// scanning the whole route left to right (insertion.CalcNextInsertion finds
// one feasible position at a time; this keeps calling it from just past the
// last one found until none remain).
func PrependInsertions(existing []*route.Insertion, r *route.Route, n *route.Node, pm *pheromone.Matrix, alpha, mu float64) []*route.Insertion {
	after := r.Nodes
	for after != r.Tail {
		ins, ok := insertion.CalcNextInsertion(r, n, after, pm, alpha, mu)
		if !ok {
			break
		}
		existing = append(existing, &ins)
		after = ins.After.Next
	}
	return existing
}

// InitParallelInsertions returns every feasible (node, route, position)
// triple for every currently unrouted node against every existing route.
func InitParallelInsertions(sol *solution.Solution, pm *pheromone.Matrix, cfg *config.Config) []*route.Insertion {
	var all []*route.Insertion
	for n := sol.Unrouted; n != nil; n = n.Next {
		for _, r := range sol.Routes {
			all = PrependInsertions(all, r, n, pm, cfg.Alpha, cfg.Mu)
		}
	}
	return all
}

// UpdateInsertions drops every candidate referencing the just-routed node
// or the route it landed on (both are now stale: the node is no longer
// unrouted, and the route's feasible positions have shifted), then adds
// fresh candidates for that route against every node still unrouted.
func UpdateInsertions(existing []*route.Insertion, performed *route.Insertion, sol *solution.Solution, pm *pheromone.Matrix, cfg *config.Config) []*route.Insertion {
	kept := existing[:0]
	for _, ins := range existing {
		if ins.Target != performed.Target && ins.Node != performed.Node {
			kept = append(kept, ins)
		}
	}
	for n := sol.Unrouted; n != nil; n = n.Next {
		kept = PrependInsertions(kept, performed.Target, n, pm, cfg.Alpha, cfg.Mu)
	}
	return kept
}

// InitParallelRoutes seeds one route per truck up front, instead of growing
// routes one at a time: bestTrucks is the lowest truck count known feasible
// so far (0 if none yet, in which case a throwaway Solomon construction
// establishes a starting estimate); reduceTrucks asks for one fewer than
// that, betting construction can still find a feasible assignment. Returns
// the number of routes actually seeded (fewer than requested if unrouted
// nodes run out).
func InitParallelRoutes(sol *solution.Solution, cfg *config.Config, pm *pheromone.Matrix, workers, bestTrucks int, reduceTrucks bool, rng *rand.Rand) int {
	maxTrucks := bestTrucks
	if maxTrucks == 0 {
		scratch := sol.Clone()
		SolveSolomon(scratch, cfg, pm, workers, scratch.Problem.NumNodes(), rng)
		maxTrucks = len(scratch.Routes)
	}
	if reduceTrucks {
		maxTrucks--
	}
	seeded := 0
	for i := 0; i < maxTrucks && sol.Unrouted != nil; i++ {
		seed := ParallelSeed(sol, pm, rng)
		if seed == nil {
			break
		}
		sol.RemoveUnrouted(seed)
		sol.Routes = append(sol.Routes, route.NewRoute(sol.Problem, len(sol.Routes), seed, workers))
		seeded++
	}
	return seeded
}

// SolveParallelACO constructs every route at once: InitParallelRoutes seeds
// the trucks, then every remaining unrouted node is assigned by repeatedly
// picking one of all currently-feasible (node, route, position) triples via
// a weighted roulette wheel. Any nodes left unrouted when no triple remains
// feasible are mopped up by SolveSolomonACO. Returns the number of nodes
// still unrouted right before that mop-up runs, so the caller can tell
// whether this attempt's truck count (bestTrucks, reduced by one if
// reduceTrucks) was actually sufficient: zero means it was, matching
// solve_parallel_aco's sol->unrouted check.
func SolveParallelACO(sol *solution.Solution, cfg *config.Config, pm *pheromone.Matrix, workers, bestTrucks int, reduceTrucks bool, rng *rand.Rand) int {
	InitParallelRoutes(sol, cfg, pm, workers, bestTrucks, reduceTrucks, rng)
	candidates := InitParallelInsertions(sol, pm, cfg)
	for len(candidates) > 0 {
		picked := insertion.PickFromArray(candidates, rng)
		if picked == nil {
			break
		}
		sol.RemoveUnrouted(picked.Node)
		picked.Target.AddNodes(picked.Node, picked.Node, picked.After)
		candidates = UpdateInsertions(candidates, picked, sol, pm, cfg)
	}
	unrouted := sol.NumUnrouted
	SolveSolomonACO(sol, cfg, pm, workers, rng)
	return unrouted
}
