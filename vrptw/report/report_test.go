package report_test

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vrptwms/solver/vrptw/config"
	"github.com/vrptwms/solver/vrptw/geom"
	"github.com/vrptwms/solver/vrptw/metaheuristic"
	"github.com/vrptwms/solver/vrptw/pheromone"
	"github.com/vrptwms/solver/vrptw/report"
	"github.com/vrptwms/solver/vrptw/solution"
	"github.com/vrptwms/solver/vrptw/tabu"
)

// fixtureSolution builds and solves a tiny feasible instance, used to
// exercise the printers against a real Solution rather than a hand-built one.
func fixtureSolution(t *testing.T) (*solution.Solution, *config.Config) {
	t.Helper()
	inst := &geom.Instance{
		Name:     "test",
		Capacity: 1000,
		Nodes: []geom.Node{
			{ID: 0, X: 0, Y: 0, Lst: 10000},
			{ID: 1, X: 10, Y: 0, Demand: 5, Lst: 10000, ServiceTime: 1},
			{ID: 2, X: 20, Y: 0, Demand: 5, Lst: 10000, ServiceTime: 1},
			{ID: 3, X: 30, Y: 0, Demand: 5, Lst: 10000, ServiceTime: 1},
		},
	}
	pb, err := geom.BuildMatrices(inst, 2, 2.0, 1.0, false)
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.RunTime = 0
	cfg.MaxIterations = 1
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), false)
	pm := pheromone.New(pb.NumNodes(), cfg.InitialPheromone)
	rng := rand.New(rand.NewSource(42))

	best, err := metaheuristic.RunACO(context.Background(), pb, &cfg, tl, pm, 1, rng, nil)
	require.NoError(t, err)
	require.NoError(t, best.AssertFeasible())
	return best, &cfg
}

func TestFprintSolutionWritesRoutesAndSummary(t *testing.T) {
	sol, cfg := fixtureSolution(t)

	var buf bytes.Buffer
	err := report.FprintSolution(&buf, "c101", sol, cfg)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "c101\n")
	require.Contains(t, out, "found best solution after")
	require.Contains(t, out, "trucks:")
	require.Contains(t, out, "[0")
}

func TestProgressFormatsSummaryLine(t *testing.T) {
	sol, cfg := fixtureSolution(t)
	sol.Cost(cfg.CostTruck, cfg.CostWorker, cfg.CostDistance)

	var buf bytes.Buffer
	report.Progress(&buf, sol)
	require.Contains(t, buf.String(), "->")
}

func TestNewResultSumsRouteDistanceAndWorkers(t *testing.T) {
	sol, cfg := fixtureSolution(t)
	res := report.NewResult("c101", sol, cfg)
	require.Equal(t, "c101", res.Name)
	require.Equal(t, len(sol.Routes), res.Trucks)
	require.Greater(t, res.Distance, 0.0)
	require.True(t, res.HasMetaheuristic)
}

func TestPrintResultsHumanDoesNotPanic(t *testing.T) {
	results := []report.Result{
		{Name: "a", Trucks: 1, Workers: 2, Distance: 10, Cost: 1.5},
		{Name: "b", Trucks: 2, Workers: 3, Distance: 20, Cost: 2.5},
	}
	require.NotPanics(t, func() {
		report.PrintResults(results, &config.Config{Format: config.Human})
	})
}

func TestPrintResultsCSVDoesNotPanic(t *testing.T) {
	results := []report.Result{
		{Name: "a", Trucks: 1, Workers: 2, Distance: 10, Cost: 1.5},
	}
	require.NotPanics(t, func() {
		report.PrintResults(results, &config.Config{Format: config.CSV, Verbosity: config.BasicVerbosity})
	})
}
