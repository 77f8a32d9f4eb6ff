package metaheuristic

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/vrptwms/solver/vrptw/config"
	"github.com/vrptwms/solver/vrptw/geom"
	"github.com/vrptwms/solver/vrptw/localsearch"
	"github.com/vrptwms/solver/vrptw/pheromone"
	"github.com/vrptwms/solver/vrptw/solcache"
	"github.com/vrptwms/solver/vrptw/solution"
	"github.com/vrptwms/solver/vrptw/tabu"
)

// maxCacheHits is how many times the same cost fingerprint may recur before
// a run is considered saturated (stuck revisiting the same neighborhood).
// Upstream this was itself marked "make configurable"; it never was, so it
// stays a constant here too.
const maxCacheHits = 5

// RunCachedACO is RunACO with a solcache.Cache short-circuiting local search
// on a construction whose pre-search cost fingerprint has already been
// explored. The first time the cache hits more than maxCacheHits times, the
// elapsed runtime is recorded on the returned solution's SaturationTime.
func RunCachedACO(ctx context.Context, pb *geom.Problem, cfg *config.Config, tl *tabu.List, pm *pheromone.Matrix, workers int, rng *rand.Rand, progress Progress) (*solution.Solution, error) {
	best := solution.New(pb)
	bestCost := math.Inf(1)
	start := time.Now()
	cache := solcache.New(pb.NumNodes())
	ants := resolveAnts(cfg, pb)
	parallelState := newParallelConstructionState()
	saturized := false
	var numSolutions uint64
	for Proceed(ctx, cfg, start, numSolutions) {
		for i := 0; i < ants; i++ {
			sol := solution.New(pb)
			if err := acoConstructRoutes(sol, cfg, pm, workers, rng, parallelState); err != nil {
				return nil, err
			}
			cost := sol.Cost(cfg.CostTruck, cfg.CostWorker, cfg.CostDistance)
			if hits := cache.Contains(cost); hits > 0 {
				if hits > maxCacheHits && !saturized {
					saturized = true
					best.SaturationTime = time.Since(start)
				}
				continue
			}
			cache.Add(cost)
			sol = localsearch.DoLS(sol, cfg, tl)
			cost = sol.Cost(cfg.CostTruck, cfg.CostWorker, cfg.CostDistance)
			if cost < bestCost {
				bestCost = cost
				sol.Time = time.Since(start)
				sol.SaturationTime = best.SaturationTime
				if progress != nil {
					progress(sol)
				}
				best = sol
			}
		}
		numSolutions += uint64(ants)
		depositPheromone(pm, best, cfg)
	}
	return best, nil
}

// RunCachedGRASP is RunGRASP with the same solcache.Cache short-circuit as
// RunCachedACO. GRASP construction carries no pheromone concept, so there is
// no deposit step between rounds.
func RunCachedGRASP(ctx context.Context, pb *geom.Problem, cfg *config.Config, tl *tabu.List, workers int, rng *rand.Rand, progress Progress) (*solution.Solution, error) {
	best := solution.New(pb)
	bestCost := math.Inf(1)
	start := time.Now()
	cache := solcache.New(pb.NumNodes())
	var numSolutions uint64
	for Proceed(ctx, cfg, start, numSolutions) {
		sol := solution.New(pb)
		if err := graspConstructRoutes(sol, cfg, workers, rng); err != nil {
			return nil, err
		}
		numSolutions++
		cost := sol.Cost(cfg.CostTruck, cfg.CostWorker, cfg.CostDistance)
		if cache.Contains(cost) > 0 {
			continue
		}
		cache.Add(cost)
		sol = localsearch.DoLS(sol, cfg, tl)
		cost = sol.Cost(cfg.CostTruck, cfg.CostWorker, cfg.CostDistance)
		if cost < bestCost {
			bestCost = cost
			sol.Time = time.Since(start)
			if progress != nil {
				progress(sol)
			}
			best = sol
		}
	}
	return best, nil
}
