package solution_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vrptwms/solver/vrptw/geom"
	"github.com/vrptwms/solver/vrptw/route"
	"github.com/vrptwms/solver/vrptw/solution"
)

func buildProblem(t *testing.T) *geom.Problem {
	t.Helper()
	inst := &geom.Instance{
		Name:     "test",
		Capacity: 100,
		Nodes: []geom.Node{
			{ID: 0, X: 0, Y: 0, Demand: 0, Est: 0, Lst: 1000},
			{ID: 1, X: 10, Y: 0, Demand: 5, Est: 0, Lst: 1000, ServiceTime: 1},
			{ID: 2, X: 20, Y: 0, Demand: 5, Est: 0, Lst: 1000, ServiceTime: 1},
		},
	}
	pb, err := geom.BuildMatrices(inst, 1, 2.0, 1.0, false)
	require.NoError(t, err)
	return pb
}

func TestNewStartsFullyUnrouted(t *testing.T) {
	pb := buildProblem(t)
	sol := solution.New(pb)
	require.Equal(t, 2, sol.NumUnrouted)
	require.NotNil(t, sol.Unrouted)
}

func TestAssertFeasibleDetectsMissingRoutes(t *testing.T) {
	pb := buildProblem(t)
	sol := solution.New(pb)
	require.ErrorIs(t, sol.AssertFeasible(), solution.ErrNoRoutes)
}

func TestAssertFeasibleAcceptsFullyRoutedSolution(t *testing.T) {
	pb := buildProblem(t)
	sol := solution.New(pb)
	n1 := sol.Unrouted
	sol.RemoveUnrouted(n1)
	n2 := sol.Unrouted
	sol.RemoveUnrouted(n2)
	r := route.NewRoute(pb, 0, n1, 1)
	r.AddNodes(n2, n2, n1)
	sol.Routes = []*route.Route{r}
	require.NoError(t, sol.AssertFeasible())
}

func TestCostSumsAcrossRoutes(t *testing.T) {
	pb := buildProblem(t)
	sol := solution.New(pb)
	n1 := sol.Unrouted
	sol.RemoveUnrouted(n1)
	r := route.NewRoute(pb, 0, n1, 1)
	sol.Routes = []*route.Route{r}
	cost := sol.Cost(1.0, 0.1, 0.0001)
	require.Equal(t, 1, sol.WorkersCache)
	require.Greater(t, cost, 0.0)
}

func TestRemoveRouteRejectsNonEmpty(t *testing.T) {
	pb := buildProblem(t)
	sol := solution.New(pb)
	n1 := sol.Unrouted
	sol.RemoveUnrouted(n1)
	r := route.NewRoute(pb, 0, n1, 1)
	sol.Routes = []*route.Route{r}
	require.ErrorIs(t, sol.RemoveRoute(0), solution.ErrRouteNotEmpty)
}

func TestCloneProducesIndependentNodes(t *testing.T) {
	pb := buildProblem(t)
	sol := solution.New(pb)
	n1 := sol.Unrouted
	sol.RemoveUnrouted(n1)
	r := route.NewRoute(pb, 0, n1, 1)
	sol.Routes = []*route.Route{r}

	clone := sol.Clone()
	require.Len(t, clone.Routes, 1)
	require.NotSame(t, sol.Routes[0].Nodes, clone.Routes[0].Nodes)
	require.Equal(t, sol.Routes[0].Nodes.Next.ID, clone.Routes[0].Nodes.Next.ID)
}

func TestResetReturnsCustomersToUnrouted(t *testing.T) {
	pb := buildProblem(t)
	sol := solution.New(pb)
	n1 := sol.Unrouted
	sol.RemoveUnrouted(n1)
	n2 := sol.Unrouted
	sol.RemoveUnrouted(n2)
	r := route.NewRoute(pb, 0, n1, 1)
	r.AddNodes(n2, n2, n1)
	sol.Routes = []*route.Route{r}

	sol.Reset()
	require.Empty(t, sol.Routes)
	require.Equal(t, 2, sol.NumUnrouted)
}
