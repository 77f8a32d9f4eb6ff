package localsearch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vrptwms/solver/vrptw/config"
	"github.com/vrptwms/solver/vrptw/geom"
	"github.com/vrptwms/solver/vrptw/localsearch"
	"github.com/vrptwms/solver/vrptw/route"
	"github.com/vrptwms/solver/vrptw/solution"
	"github.com/vrptwms/solver/vrptw/tabu"
)

// buildProblem lays three customers on a line with wide time windows and
// plenty of capacity, so any route/assignment of them is feasible unless a
// test narrows something down.
func buildProblem(t *testing.T) *geom.Problem {
	t.Helper()
	inst := &geom.Instance{
		Name:     "test",
		Capacity: 100,
		Nodes: []geom.Node{
			{ID: 0, X: 0, Y: 0, Demand: 0, Est: 0, Lst: 1000},
			{ID: 1, X: 10, Y: 0, Demand: 5, Est: 0, Lst: 1000, ServiceTime: 1},
			{ID: 2, X: 20, Y: 0, Demand: 5, Est: 0, Lst: 1000, ServiceTime: 1},
			{ID: 3, X: 30, Y: 0, Demand: 5, Est: 0, Lst: 1000, ServiceTime: 1},
		},
	}
	pb, err := geom.BuildMatrices(inst, 2, 2.0, 1.0, false)
	require.NoError(t, err)
	return pb
}

func twoSingletonRoutes(t *testing.T, pb *geom.Problem) *solution.Solution {
	t.Helper()
	sol := solution.New(pb)
	n1 := sol.Unrouted
	sol.RemoveUnrouted(n1)
	n2 := sol.Unrouted
	sol.RemoveUnrouted(n2)
	r0 := route.NewRoute(pb, 0, n1, 1)
	r1 := route.NewRoute(pb, 1, n2, 1)
	sol.Routes = []*route.Route{r0, r1}
	return sol
}

func TestDeltaIsHigherPrefersTruckSavingsOverWorkersOrDistance(t *testing.T) {
	m := &tabu.Move{}
	m.Reset(true)
	require.True(t, localsearch.DeltaIsHigher(m, 1, 0, 0))

	m.DeltaTrucks = 1
	require.False(t, localsearch.DeltaIsHigher(m, 0, 100, 1000))
}

func TestDeltaIsHigherPrefersWorkersOverDistance(t *testing.T) {
	m := &tabu.Move{}
	m.Reset(true)
	m.DeltaWorkers = 1
	require.True(t, localsearch.DeltaIsHigher(m, 0, 2, 0))
	require.False(t, localsearch.DeltaIsHigher(m, 0, 0, 1000))
}

func TestMoveReducesWorkersFindsFeasibleReduction(t *testing.T) {
	pb := buildProblem(t)
	seed := route.NewNode(pb.Nodes[1])
	r := route.NewRoute(pb, 0, seed, 2)
	next := route.NewNode(pb.Nodes[2])
	r.AddNodes(next, next, seed)

	reduction := localsearch.MoveReducesWorkers(r, next, next, 0)
	require.Equal(t, 1, reduction)
	require.Equal(t, route.TwoCustomers, r.Len)
}

func TestEmptyRouteRelocatesOnlyCustomer(t *testing.T) {
	pb := buildProblem(t)
	sol := twoSingletonRoutes(t, pb)
	cfg := config.DefaultConfig()

	ok := localsearch.EmptyRoute(sol, 0, &cfg)
	require.True(t, ok)
	require.Equal(t, route.Empty, sol.Routes[0].Len)
	require.Equal(t, route.TwoCustomers, sol.Routes[1].Len)
}

func TestBruteReduceTrucksMergesSingletonRoutes(t *testing.T) {
	pb := buildProblem(t)
	sol := twoSingletonRoutes(t, pb)
	cfg := config.DefaultConfig()

	improved := localsearch.BruteReduceTrucks(&sol, &cfg)
	require.True(t, improved)
	require.Len(t, sol.Routes, 1)
	require.Equal(t, route.TwoCustomers, sol.Routes[0].Len)
}

func TestSwapNodeKeepsRoutesFeasible(t *testing.T) {
	pb := buildProblem(t)
	// r0 carries the far customer, r1 the near one; on this line layout
	// exchanging two single customers leaves the total distance unchanged.
	seedFar := route.NewNode(pb.Nodes[3])
	r0 := route.NewRoute(pb, 0, seedFar, 1)
	seedNear := route.NewNode(pb.Nodes[1])
	r1 := route.NewRoute(pb, 1, seedNear, 1)

	// Not every configuration improves under a straight line layout; this
	// asserts the call completes and leaves both routes feasible either way.
	_ = localsearch.SwapNode(r0, r1)
	require.True(t, r0.IsFeasible())
	require.True(t, r1.IsFeasible())
}

func TestMoveAllReducesTrucksForMergeableRoutes(t *testing.T) {
	pb := buildProblem(t)
	sol := twoSingletonRoutes(t, pb)
	cfg := config.DefaultConfig()
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), false)

	updated := localsearch.MoveAll(sol, &cfg, tl, localsearch.StateReduceTrucks)
	require.True(t, updated)
}

func TestDoLSRunsWithoutPanicking(t *testing.T) {
	pb := buildProblem(t)
	sol := twoSingletonRoutes(t, pb)
	cfg := config.DefaultConfig()
	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), false)

	result := localsearch.DoLS(sol, &cfg, tl)
	require.NotNil(t, result)
	for _, r := range result.Routes {
		require.True(t, r.IsFeasible())
	}
}
