package metaheuristic

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/vrptwms/solver/vrptw/config"
	"github.com/vrptwms/solver/vrptw/geom"
	"github.com/vrptwms/solver/vrptw/localsearch"
	"github.com/vrptwms/solver/vrptw/solution"
	"github.com/vrptwms/solver/vrptw/tabu"
)

// RunGRASP repeatedly constructs a fresh solution with GRASP's restricted
// candidate list and local-searches it, keeping the best found.
func RunGRASP(ctx context.Context, pb *geom.Problem, cfg *config.Config, tl *tabu.List, workers int, rng *rand.Rand, progress Progress) (*solution.Solution, error) {
	best := solution.New(pb)
	bestCost := math.Inf(1)
	start := time.Now()
	var numSolutions uint64
	for Proceed(ctx, cfg, start, numSolutions) {
		sol := solution.New(pb)
		if err := graspConstructRoutes(sol, cfg, workers, rng); err != nil {
			return nil, err
		}
		sol = localsearch.DoLS(sol, cfg, tl)
		cost := sol.Cost(cfg.CostTruck, cfg.CostWorker, cfg.CostDistance)
		if cost < bestCost {
			bestCost = cost
			sol.Time = time.Since(start)
			if progress != nil {
				progress(sol)
			}
			best = sol
		}
		numSolutions++
	}
	return best, nil
}
