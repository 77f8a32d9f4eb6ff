// Package metaheuristic implements the outer optimization loops that drive
// repeated construction and local search towards a better solution: plain
// and cached ant colony optimization, greedy ACO, GRASP and its cached
// variant, tabu search, and variable neighborhood search. Run dispatches to
// whichever of these cfg.Metaheuristic names, mirroring the single switch
// the original solver used to pick one at runtime.
package metaheuristic

import (
	"context"
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

// Progress is called whenever a driver accepts a new best solution. sol's
// Time field is already stamped; callers typically print a one-line status.
type Progress func(sol *solution.Solution)

// Proceed reports whether a metaheuristic should keep iterating: neither the
// configured runtime budget nor iteration budget (0 meaning unlimited) may
// be exceeded, and ctx must not have been cancelled.
func Proceed(ctx context.Context, cfg *config.Config, start time.Time, iteration uint64) bool {
	if ctx.Err() != nil {
		return false
	}
	if cfg.RunTime != 0 && time.Since(start) >= cfg.RunTime {
		return false
	}
	if cfg.MaxIterations != 0 && iteration >= uint64(cfg.MaxIterations) {
		return false
	}
	return true
}

// resolveAnts returns cfg.Ants, or one ant per customer when cfg.Ants is 0
// (config.h documents ants=0 as shorthand for "the number of customers").
func resolveAnts(cfg *config.Config, pb *geom.Problem) int {
	if cfg.Ants != 0 {
		return cfg.Ants
	}
	return pb.NumNodes() - 1
}

// depositPheromone evaporates pm and reinforces every edge driven by sol,
// the common tail end of every ACO-family iteration.
func depositPheromone(pm *pheromone.Matrix, sol *solution.Solution, cfg *config.Config) {
	edges := make([]pheromone.RouteEdges, len(sol.Routes))
	for i, r := range sol.Routes {
		edges[i] = r.Edges()
	}
	pm.Evaporate(edges, cfg.Rho, cfg.MinPheromone)
}

// acoConstructRoutes picks the ACO-aware construction heuristic cfg names:
// Solomon runs SolveSolomonACO (Solomon cost scoring weighted by the
// pheromone trail), Parallel and SolomonMR their ACO variants. parallelState
// is only consulted for config.Parallel; it carries the truck-count attempt
// counter across the calling driver's whole run.
func acoConstructRoutes(sol *solution.Solution, cfg *config.Config, pm *pheromone.Matrix, workers int, rng *rand.Rand, parallelState *parallelConstructionState) error {
	switch cfg.StartHeuristic {
	case config.Solomon:
		construct.SolveSolomonACO(sol, cfg, pm, workers, rng)
	case config.Parallel:
		parallelState.construct(sol, cfg, pm, workers, rng)
	case config.SolomonMR:
		construct.SolveSolomonMR(sol, cfg, pm, workers, rng)
	default:
		return config.ErrUnknownStartHeuristic
	}
	return nil
}

// graspConstructRoutes is GRASP's only supported construction heuristic:
// Solomon I1 restricted to a candidate list, pheromone blind.
func graspConstructRoutes(sol *solution.Solution, cfg *config.Config, workers int, rng *rand.Rand) error {
	if cfg.StartHeuristic != config.Solomon {
		return config.ErrUnknownStartHeuristic
	}
	construct.GraspSolveSolomon(sol, cfg, workers, rng)
	return nil
}

// solomonConstructRoutes is the construction heuristic available to every
// non-ACO, non-GRASP metaheuristic (TS, VNS): plain Solomon I1, pheromone
// blind.
func solomonConstructRoutes(sol *solution.Solution, cfg *config.Config, pm *pheromone.Matrix, workers, fleetsize int, rng *rand.Rand) error {
	if cfg.StartHeuristic != config.Solomon {
		return config.ErrUnknownStartHeuristic
	}
	construct.SolveSolomon(sol, cfg, pm, workers, fleetsize, rng)
	return nil
}

// Run dispatches to the metaheuristic cfg.Metaheuristic names and returns
// the best solution it found. workers is the worker count new routes are
// seeded with; fleetsize bounds NoMetaheuristic/TS/VNS's single Solomon
// construction (every ACO-family driver grows its fleet one route at a time
// instead, so it has no fixed bound).
func Run(ctx context.Context, sol *solution.Solution, cfg *config.Config, tl *tabu.List, pm *pheromone.Matrix, workers, fleetsize int, rng *rand.Rand, progress Progress) (*solution.Solution, error) {
	switch cfg.Metaheuristic {
	case config.ACO:
		return RunACO(ctx, sol.Problem, cfg, tl, pm, workers, rng, progress)
	case config.CachedACO:
		return RunCachedACO(ctx, sol.Problem, cfg, tl, pm, workers, rng, progress)
	case config.CachedGRASP:
		return RunCachedGRASP(ctx, sol.Problem, cfg, tl, workers, rng, progress)
	case config.GACO:
		return RunGACO(ctx, sol.Problem, cfg, tl, pm, workers, rng, progress)
	case config.GRASP:
		return RunGRASP(ctx, sol.Problem, cfg, tl, workers, rng, progress)
	case config.TS:
		return RunTS(ctx, sol, cfg, tl, pm, workers, fleetsize, rng, progress)
	case config.VNS:
		return RunVNS(ctx, sol, cfg, tl, pm, workers, fleetsize, rng, progress)
	case config.NoMetaheuristic:
		if err := solomonConstructRoutes(sol, cfg, pm, workers, fleetsize, rng); err != nil {
			return nil, err
		}
		return localsearch.DoLS(sol, cfg, tl), nil
	default:
		return nil, config.ErrUnknownMetaheuristic
	}
}
