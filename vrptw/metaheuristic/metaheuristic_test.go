package metaheuristic_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vrptwms/solver/vrptw/config"
	"github.com/vrptwms/solver/vrptw/geom"
	"github.com/vrptwms/solver/vrptw/metaheuristic"
	"github.com/vrptwms/solver/vrptw/pheromone"
	"github.com/vrptwms/solver/vrptw/solution"
	"github.com/vrptwms/solver/vrptw/tabu"
)

// buildProblem lays five customers on a line with wide time windows and
// plenty of capacity, so construction always manages to route everyone.
func buildProblem(t *testing.T) *geom.Problem {
	t.Helper()
	inst := &geom.Instance{
		Name:     "test",
		Capacity: 1000,
		Nodes: []geom.Node{
			{ID: 0, X: 0, Y: 0, Demand: 0, Est: 0, Lst: 10000},
			{ID: 1, X: 10, Y: 0, Demand: 5, Est: 0, Lst: 10000, ServiceTime: 1},
			{ID: 2, X: 20, Y: 0, Demand: 5, Est: 0, Lst: 10000, ServiceTime: 1},
			{ID: 3, X: 30, Y: 0, Demand: 5, Est: 0, Lst: 10000, ServiceTime: 1},
			{ID: 4, X: 40, Y: 0, Demand: 5, Est: 0, Lst: 10000, ServiceTime: 1},
			{ID: 5, X: 50, Y: 0, Demand: 5, Est: 0, Lst: 10000, ServiceTime: 1},
		},
	}
	pb, err := geom.BuildMatrices(inst, 3, 2.0, 1.0, false)
	require.NoError(t, err)
	return pb
}

// oneRoundConfig bounds every driver to a single outer round: RunTime is
// disabled so only MaxIterations matters.
func oneRoundConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.RunTime = 0
	cfg.MaxIterations = 1
	return cfg
}

func TestRunACOFindsFeasibleSolution(t *testing.T) {
	pb := buildProblem(t)
	cfg := oneRoundConfig()
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), false)
	pm := pheromone.New(pb.NumNodes(), cfg.InitialPheromone)
	rng := rand.New(rand.NewSource(1))

	best, err := metaheuristic.RunACO(context.Background(), pb, &cfg, tl, pm, 1, rng, nil)
	require.NoError(t, err)
	require.NoError(t, best.AssertFeasible())
}

func TestRunGACOFindsFeasibleSolution(t *testing.T) {
	pb := buildProblem(t)
	cfg := oneRoundConfig()
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), false)
	pm := pheromone.New(pb.NumNodes(), cfg.InitialPheromone)
	rng := rand.New(rand.NewSource(2))

	best, err := metaheuristic.RunGACO(context.Background(), pb, &cfg, tl, pm, 1, rng, nil)
	require.NoError(t, err)
	require.NoError(t, best.AssertFeasible())
}

func TestRunCachedACOFindsFeasibleSolution(t *testing.T) {
	pb := buildProblem(t)
	cfg := oneRoundConfig()
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), false)
	pm := pheromone.New(pb.NumNodes(), cfg.InitialPheromone)
	rng := rand.New(rand.NewSource(3))

	var progressed int
	best, err := metaheuristic.RunCachedACO(context.Background(), pb, &cfg, tl, pm, 1, rng,
		func(*solution.Solution) { progressed++ })
	require.NoError(t, err)
	require.NoError(t, best.AssertFeasible())
	require.Greater(t, progressed, 0)
}

func TestRunGRASPFindsFeasibleSolution(t *testing.T) {
	pb := buildProblem(t)
	cfg := oneRoundConfig()
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), false)
	rng := rand.New(rand.NewSource(4))

	best, err := metaheuristic.RunGRASP(context.Background(), pb, &cfg, tl, 1, rng, nil)
	require.NoError(t, err)
	require.NoError(t, best.AssertFeasible())
}

func TestRunCachedGRASPFindsFeasibleSolution(t *testing.T) {
	pb := buildProblem(t)
	cfg := oneRoundConfig()
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), false)
	rng := rand.New(rand.NewSource(5))

	best, err := metaheuristic.RunCachedGRASP(context.Background(), pb, &cfg, tl, 1, rng, nil)
	require.NoError(t, err)
	require.NoError(t, best.AssertFeasible())
}

func TestRunTSFindsFeasibleSolution(t *testing.T) {
	pb := buildProblem(t)
	cfg := oneRoundConfig()
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), true)
	pm := pheromone.New(pb.NumNodes(), cfg.InitialPheromone)
	rng := rand.New(rand.NewSource(6))
	sol := solution.New(pb)

	best, err := metaheuristic.RunTS(context.Background(), sol, &cfg, tl, pm, 1, pb.NumNodes(), rng, nil)
	require.NoError(t, err)
	require.NoError(t, best.AssertFeasible())
}

func TestRunVNSFindsFeasibleSolution(t *testing.T) {
	pb := buildProblem(t)
	cfg := oneRoundConfig()
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), false)
	pm := pheromone.New(pb.NumNodes(), cfg.InitialPheromone)
	rng := rand.New(rand.NewSource(7))
	sol := solution.New(pb)

	best, err := metaheuristic.RunVNS(context.Background(), sol, &cfg, tl, pm, 1, pb.NumNodes(), rng, nil)
	require.NoError(t, err)
	require.NoError(t, best.AssertFeasible())
}

func TestRunACOWithParallelConstructionFindsFeasibleSolution(t *testing.T) {
	pb := buildProblem(t)
	cfg := oneRoundConfig()
	cfg.StartHeuristic = config.Parallel
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), false)
	pm := pheromone.New(pb.NumNodes(), cfg.InitialPheromone)
	rng := rand.New(rand.NewSource(10))

	best, err := metaheuristic.RunACO(context.Background(), pb, &cfg, tl, pm, 1, rng, nil)
	require.NoError(t, err)
	require.NoError(t, best.AssertFeasible())
}

func TestRunACOWithSolomonMRConstructionFindsFeasibleSolution(t *testing.T) {
	pb := buildProblem(t)
	cfg := oneRoundConfig()
	cfg.StartHeuristic = config.SolomonMR
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), false)
	pm := pheromone.New(pb.NumNodes(), cfg.InitialPheromone)
	rng := rand.New(rand.NewSource(11))

	best, err := metaheuristic.RunACO(context.Background(), pb, &cfg, tl, pm, 1, rng, nil)
	require.NoError(t, err)
	require.NoError(t, best.AssertFeasible())
}

// TestRunACOParallelConstructionStopsAtIterationBudget exercises the
// "R101, ACO with 50 ants, PARALLEL construction, runtime=0,
// max_iterations=70, LS off, seed=0" scenario: the driver must stop after at
// most 70 ants' worth of iterations with a feasible solution, and Proceed
// must report false on the first call after the budget is exhausted.
func TestRunACOParallelConstructionStopsAtIterationBudget(t *testing.T) {
	pb := buildProblem(t)
	cfg := config.DefaultConfig()
	cfg.StartHeuristic = config.Parallel
	cfg.Ants = 50
	cfg.AntsDynamic = false
	cfg.RunTime = 0
	cfg.MaxIterations = 70
	cfg.DoLS = false
	cfg.Seed = 0
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), false)
	pm := pheromone.New(pb.NumNodes(), cfg.InitialPheromone)
	rng := rand.New(rand.NewSource(cfg.Seed))

	best, err := metaheuristic.RunACO(context.Background(), pb, &cfg, tl, pm, 1, rng, nil)
	require.NoError(t, err)
	require.NoError(t, best.AssertFeasible())
	require.False(t, metaheuristic.Proceed(context.Background(), &cfg, time.Now().Add(-time.Hour), uint64(cfg.MaxIterations)))
}

func TestRunDispatchesNoMetaheuristic(t *testing.T) {
	pb := buildProblem(t)
	cfg := oneRoundConfig()
	cfg.Metaheuristic = config.NoMetaheuristic
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), false)
	pm := pheromone.New(pb.NumNodes(), cfg.InitialPheromone)
	rng := rand.New(rand.NewSource(8))
	sol := solution.New(pb)

	best, err := metaheuristic.Run(context.Background(), sol, &cfg, tl, pm, 1, pb.NumNodes(), rng, nil)
	require.NoError(t, err)
	require.NoError(t, best.AssertFeasible())
}

func TestRunRejectsUnknownMetaheuristic(t *testing.T) {
	pb := buildProblem(t)
	cfg := oneRoundConfig()
	cfg.Metaheuristic = config.Metaheuristic(99)
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), false)
	pm := pheromone.New(pb.NumNodes(), cfg.InitialPheromone)
	rng := rand.New(rand.NewSource(9))
	sol := solution.New(pb)

	_, err := metaheuristic.Run(context.Background(), sol, &cfg, tl, pm, 1, pb.NumNodes(), rng, nil)
	require.ErrorIs(t, err, config.ErrUnknownMetaheuristic)
}
