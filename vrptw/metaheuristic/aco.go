package metaheuristic

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/vrptwms/solver/vrptw/config"
	"github.com/vrptwms/solver/vrptw/construct"
	"github.com/vrptwms/solver/vrptw/geom"
	"github.com/vrptwms/solver/vrptw/localsearch"
	"github.com/vrptwms/solver/vrptw/pheromone"
	"github.com/vrptwms/solver/vrptw/solution"
	"github.com/vrptwms/solver/vrptw/tabu"
)

// parallelConstructionState carries the REDUCE_TRUCKS -> REDUCE_WORKERS
// attempt counter PARALLEL construction needs across ants within one run:
// bestTrucks is the lowest truck count known feasible so far (0 until the
// first attempt establishes a baseline via InitParallelRoutes's own
// throwaway Solomon estimate); reducing is true while still betting on one
// fewer truck than bestTrucks. A consecutive run of cfg.MaxFailedAttempts
// attempts that leave someone unrouted commits to bestTrucks and stops
// reducing, matching solve_parallel_aco's attempts/state handling.
type parallelConstructionState struct {
	bestTrucks     int
	failedAttempts int64
	reducing       bool
}

func newParallelConstructionState() *parallelConstructionState {
	return &parallelConstructionState{reducing: true}
}

// construct runs one PARALLEL-construction attempt and updates the state
// machine from its result.
func (s *parallelConstructionState) construct(sol *solution.Solution, cfg *config.Config, pm *pheromone.Matrix, workers int, rng *rand.Rand) {
	reduceTrucks := s.reducing
	unrouted := construct.SolveParallelACO(sol, cfg, pm, workers, s.bestTrucks, reduceTrucks, rng)
	trucksUsed := len(sol.Routes)
	if unrouted == 0 {
		s.bestTrucks = trucksUsed
		s.failedAttempts = 0
		return
	}
	if s.bestTrucks == 0 || trucksUsed < s.bestTrucks {
		s.bestTrucks = trucksUsed
	}
	if !s.reducing {
		return
	}
	s.failedAttempts++
	if s.failedAttempts >= cfg.MaxFailedAttempts {
		s.reducing = false
	}
}

// runAntColony is the ant colony optimization driver shared by RunACO and
// RunGACO: construct, local-search, and keep the best of cfg.Ants (or one
// per customer, see resolveAnts) attempts per round, then deposit pheromone
// along the best solution's edges and repeat until the runtime/iteration
// budget runs out.
func runAntColony(ctx context.Context, pb *geom.Problem, cfg *config.Config, tl *tabu.List, pm *pheromone.Matrix, workers int, rng *rand.Rand, progress Progress) (*solution.Solution, error) {
	best := solution.New(pb)
	bestCost := math.Inf(1)
	start := time.Now()
	ants := resolveAnts(cfg, pb)
	parallelState := newParallelConstructionState()
	var numSolutions uint64
	for Proceed(ctx, cfg, start, numSolutions) {
		for i := 0; i < ants; i++ {
			sol := solution.New(pb)
			if err := acoConstructRoutes(sol, cfg, pm, workers, rng, parallelState); err != nil {
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
		}
		numSolutions += uint64(ants)
		depositPheromone(pm, best, cfg)
	}
	return best, nil
}

// RunACO solves with plain ant colony optimization.
func RunACO(ctx context.Context, pb *geom.Problem, cfg *config.Config, tl *tabu.List, pm *pheromone.Matrix, workers int, rng *rand.Rand, progress Progress) (*solution.Solution, error) {
	return runAntColony(ctx, pb, cfg, tl, pm, workers, rng, progress)
}

// RunGACO solves with "greedy" ACO. Upstream this differed from plain ACO by
// resetting the pheromone matrix once the same cost was seen on several
// consecutive ants — but that reset sat behind a `drand48() >= 0.0` guard,
// which is always true, so the branch it was meant to replace (skip local
// search, just trim workers) never ran either way. Per the decided Open
// Question, neither the stagnation reset nor its dead sibling branch are
// reimplemented, leaving this identical to RunACO; it stays a separate entry
// point since cfg.Metaheuristic still distinguishes the two for selection,
// and either may diverge again if that feature is revisited.
func RunGACO(ctx context.Context, pb *geom.Problem, cfg *config.Config, tl *tabu.List, pm *pheromone.Matrix, workers int, rng *rand.Rand, progress Progress) (*solution.Solution, error) {
	return runAntColony(ctx, pb, cfg, tl, pm, workers, rng, progress)
}
