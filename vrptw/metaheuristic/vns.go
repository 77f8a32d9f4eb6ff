package metaheuristic

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/vrptwms/solver/vrptw/config"
	"github.com/vrptwms/solver/vrptw/localsearch"
	"github.com/vrptwms/solver/vrptw/pheromone"
	"github.com/vrptwms/solver/vrptw/route"
	"github.com/vrptwms/solver/vrptw/solution"
	"github.com/vrptwms/solver/vrptw/tabu"
)

// distributeNodes attempts to relocate every customer off sol.Routes[routeIdx]
// onto some other route, skipping any customer with nowhere feasible to go
// (unlike localsearch.EmptyRoute, it never stops at the first one). Removes
// the route from sol once it empties out. Returns how many customers moved.
func distributeNodes(sol *solution.Solution, routeIdx int, cfg *config.Config) int {
	source := sol.Routes[routeIdx]
	oldLen := source.Len
	if source.Len == route.Empty {
		return 0
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
		if !math.IsInf(best.Cost, 1) {
			source.RemoveNodes(best.Node, best.Node)
			best.Target.AddNodes(best.Node, best.Node, best.After)
			if source.Len == route.Empty {
				_ = sol.RemoveRoute(routeIdx)
				return oldLen - route.Empty
			}
		}
		n = next
	}
	return oldLen - source.Len
}

// shakeSolution jumps away from a local optimum: every route is reset to
// the maximum worker count (to give the subsequent improveSolution call as
// much freedom as possible), then the movable customers of one random route
// are distributed onto the other routes via distributeNodes (the route is
// removed if that empties it), retrying with another random route while no
// customer could be moved at all. With fewer than two routes there is
// nothing to distribute onto and the shake stops after the worker reset.
//
// With two or more routes this loops forever if no customer of any route
// can be moved — there is no retry cap.
func shakeSolution(sol *solution.Solution, cfg *config.Config, rng *rand.Rand) {
	for _, r := range sol.Routes {
		r.Workers = int(cfg.MaxWorkers)
	}
	if len(sol.Routes) < 2 {
		return
	}
	routeIdx := rng.Intn(len(sol.Routes))
	for distributeNodes(sol, routeIdx, cfg) == 0 {
		routeIdx = rng.Intn(len(sol.Routes))
	}
}

// improveSolution is VNS's own, lighter-weight local search: relocate and
// swap passes until neither improves trucks, then the same for workers.
// Unlike localsearch.DoLS it never calls localsearch.BruteReduceTrucks.
func improveSolution(sol *solution.Solution, cfg *config.Config, tl *tabu.List) {
	for {
		improved := localsearch.MoveAll(sol, cfg, tl, localsearch.StateReduceTrucks)
		if localsearch.SwapAll(sol, cfg) {
			improved = true
		}
		if !improved {
			break
		}
	}
	for _, r := range sol.Routes {
		r.ReduceServiceWorkers()
	}
	for {
		improved := localsearch.MoveAll(sol, cfg, tl, localsearch.StateReduceWorkers)
		if localsearch.SwapAll(sol, cfg) {
			improved = true
		}
		if !improved {
			break
		}
	}
}

// RunVNS solves with variable neighborhood search. Upstream this
// metaheuristic is explicitly marked incomplete ("VNS is not fully
// implemented yet"); it is reimplemented exactly as found: construct once,
// run the full local search pipeline, then repeatedly shake and lightly
// re-improve, keeping the best solution seen.
func RunVNS(ctx context.Context, sol *solution.Solution, cfg *config.Config, tl *tabu.List, pm *pheromone.Matrix, workers, fleetsize int, rng *rand.Rand, progress Progress) (*solution.Solution, error) {
	if err := solomonConstructRoutes(sol, cfg, pm, workers, fleetsize, rng); err != nil {
		return nil, err
	}
	sol = localsearch.DoLS(sol, cfg, tl)
	best := sol
	bestCost := best.Cost(cfg.CostTruck, cfg.CostWorker, cfg.CostDistance)
	work := sol.Clone()
	start := time.Now()
	var numSolutions uint64
	for Proceed(ctx, cfg, start, numSolutions) {
		shakeSolution(work, cfg, rng)
		improveSolution(work, cfg, tl)
		cost := work.Cost(cfg.CostTruck, cfg.CostWorker, cfg.CostDistance)
		if cost < bestCost {
			bestCost = cost
			work.Time = time.Since(start)
			if progress != nil {
				progress(work)
			}
			best = work.Clone()
		}
		numSolutions++
	}
	return best, nil
}
