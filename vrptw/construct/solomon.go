package construct

import (
	"math"
	"math/rand"

	"github.com/vrptwms/solver/vrptw/config"
	"github.com/vrptwms/solver/vrptw/insertion"
	"github.com/vrptwms/solver/vrptw/pheromone"
	"github.com/vrptwms/solver/vrptw/route"
	"github.com/vrptwms/solver/vrptw/solution"
)

// SolveSolomon builds routes with Solomon's I1 heuristic: repeatedly seed a
// new route from the furthest (or, stochastically, pheromone/distance
// roulette-picked) unrouted node, then fill it with the cheapest feasible
// insertion — found exhaustively when cfg.Deterministic, or roulette-picked
// among every unrouted node's own best position otherwise — until nothing
// fits. Stops early, returning the number of nodes left unrouted, once
// fleetsize routes exist; pm may be a trivial (all-ones) matrix for runs
// with no pheromone concept, matching the original's seed selection being
// shared by every metaheuristic.
func SolveSolomon(sol *solution.Solution, cfg *config.Config, pm *pheromone.Matrix, workers, fleetsize int, rng *rand.Rand) int {
	for sol.Unrouted != nil {
		if len(sol.Routes) == fleetsize {
			return sol.NumUnrouted
		}
		var seed *route.Node
		if cfg.Deterministic {
			seed = BestSeed(sol.Unrouted, sol.Problem.Distances())
		} else {
			seed = Seed(sol, pm, rng)
		}
		sol.RemoveUnrouted(seed)
		r := route.NewRoute(sol.Problem, len(sol.Routes), seed, workers)
		sol.Routes = append(sol.Routes, r)

		for sol.Unrouted != nil {
			if cfg.Deterministic {
				best := route.Insertion{Cost: math.Inf(1)}
				for n := sol.Unrouted; n != nil; n = n.Next {
					r.CalcBestInsertion(n, cfg.Alpha, cfg.Mu, cfg.Lambda, &best)
				}
				if math.IsInf(best.Cost, 1) {
					break
				}
				sol.RemoveUnrouted(best.Node)
				best.Target.AddNodes(best.Node, best.Node, best.After)
				continue
			}
			minCost := math.Inf(1)
			candidates := make([]route.Insertion, 0, sol.NumUnrouted)
			for n := sol.Unrouted; n != nil; n = n.Next {
				cand := route.Insertion{Cost: math.Inf(1)}
				r.CalcBestInsertion(n, cfg.Alpha, cfg.Mu, cfg.Lambda, &cand)
				candidates = append(candidates, cand)
				if cand.Cost < minCost {
					minCost = cand.Cost
				}
			}
			if math.IsInf(minCost, 1) {
				break
			}
			picked := insertion.ACOPickInsertion(candidates, minCost, rng)
			sol.RemoveUnrouted(picked.Node)
			picked.Target.AddNodes(picked.Node, picked.Node, picked.After)
		}
	}
	return 0
}

// SolveSolomonACO is SolveSolomon's pheromone-aware twin: always seeds
// stochastically (construct.Seed) and scores insertions with
// insertion.CalcACOInsertion (trail-weighted cost) instead of plain Solomon
// cost, picking among candidates the same way.
func SolveSolomonACO(sol *solution.Solution, cfg *config.Config, pm *pheromone.Matrix, workers int, rng *rand.Rand) {
	for sol.Unrouted != nil {
		seed := Seed(sol, pm, rng)
		if seed == nil {
			return
		}
		sol.RemoveUnrouted(seed)
		r := route.NewRoute(sol.Problem, len(sol.Routes), seed, workers)
		sol.Routes = append(sol.Routes, r)

		for sol.Unrouted != nil {
			minCost := math.Inf(1)
			candidates := make([]route.Insertion, 0, sol.NumUnrouted)
			for n := sol.Unrouted; n != nil; n = n.Next {
				cand := route.Insertion{Cost: math.Inf(1)}
				insertion.CalcACOInsertion(r, n, pm, cfg.Alpha, cfg.Mu, cfg.Lambda, &cand)
				candidates = append(candidates, cand)
				if cand.Cost < minCost {
					minCost = cand.Cost
				}
			}
			if math.IsInf(minCost, 1) {
				break
			}
			picked := insertion.ACOPickInsertion(candidates, minCost, rng)
			sol.RemoveUnrouted(picked.Node)
			picked.Target.AddNodes(picked.Node, picked.Node, picked.After)
		}
	}
}

// SolveSolomonMR is SolveSolomonACO's attractiveness-maximizing twin: scores
// insertions with insertion.CalcMRInsertion and picks among candidates with
// insertion.PickFromArray instead of the cost-based roulette. No measurable
// quality or speed difference from SolveSolomonACO was found upstream;
// both are kept as alternative start heuristics.
func SolveSolomonMR(sol *solution.Solution, cfg *config.Config, pm *pheromone.Matrix, workers int, rng *rand.Rand) {
	for sol.Unrouted != nil {
		seed := Seed(sol, pm, rng)
		if seed == nil {
			return
		}
		sol.RemoveUnrouted(seed)
		r := route.NewRoute(sol.Problem, len(sol.Routes), seed, workers)
		sol.Routes = append(sol.Routes, r)

		for sol.Unrouted != nil {
			maxAttr := math.Inf(-1)
			candidates := make([]*route.Insertion, 0, sol.NumUnrouted)
			for n := sol.Unrouted; n != nil; n = n.Next {
				cand := &route.Insertion{Attractiveness: math.Inf(-1)}
				insertion.CalcMRInsertion(r, n, pm, cfg.Alpha, cfg.Mu, cfg.Lambda, cand)
				candidates = append(candidates, cand)
				if cand.Attractiveness > maxAttr {
					maxAttr = cand.Attractiveness
				}
			}
			if math.IsInf(maxAttr, -1) {
				break
			}
			picked := insertion.PickFromArray(candidates, rng)
			if picked == nil {
				break
			}
			sol.RemoveUnrouted(picked.Node)
			picked.Target.AddNodes(picked.Node, picked.Node, picked.After)
		}
	}
}

// GraspSolveSolomon builds routes with Solomon's I1 heuristic restricted to
// a bounded candidate list (cfg.RCLSize): for every unrouted node, the most
// attractive feasible position on the current route (route.GetBestInsertion)
// is offered to an insertion.List capped at RCLSize, and one survivor is
// picked (weighted or uniformly, per cfg.UseWeights) to commit.
func GraspSolveSolomon(sol *solution.Solution, cfg *config.Config, workers int, rng *rand.Rand) {
	il := insertion.NewList(cfg.RCLSize)
	unitTrail := pheromone.New(sol.Problem.NumNodes(), 1.0)
	for sol.Unrouted != nil {
		seed := Seed(sol, unitTrail, rng)
		if seed == nil {
			return
		}
		sol.RemoveUnrouted(seed)
		r := route.NewRoute(sol.Problem, len(sol.Routes), seed, workers)
		sol.Routes = append(sol.Routes, r)

		for sol.Unrouted != nil {
			for n := sol.Unrouted; n != nil; n = n.Next {
				if ins, ok := r.GetBestInsertion(n, cfg.Alpha, cfg.Mu, cfg.Lambda); ok {
					il.Update(&ins)
				}
			}
			picked := il.Pick(cfg.UseWeights, rng)
			if picked == nil {
				break
			}
			sol.RemoveUnrouted(picked.Node)
			picked.Target.AddNodes(picked.Node, picked.Node, picked.After)
			il.Reset()
		}
	}
}
