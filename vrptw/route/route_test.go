package route_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vrptwms/solver/vrptw/geom"
	"github.com/vrptwms/solver/vrptw/route"
)

// buildProblem makes a depot + 3-customer instance laid out on a line, wide
// enough time windows that nothing is infeasible unless a test narrows them.
func buildProblem(t *testing.T) *geom.Problem {
	t.Helper()
	inst := &geom.Instance{
		Name:     "test",
		Capacity: 100,
		Nodes: []geom.Node{
			{ID: 0, X: 0, Y: 0, Demand: 0, Est: 0, Lst: 1000, ServiceTime: 0},
			{ID: 1, X: 10, Y: 0, Demand: 5, Est: 0, Lst: 1000, ServiceTime: 1},
			{ID: 2, X: 20, Y: 0, Demand: 5, Est: 0, Lst: 1000, ServiceTime: 1},
			{ID: 3, X: 30, Y: 0, Demand: 5, Est: 0, Lst: 1000, ServiceTime: 1},
		},
	}
	pb, err := geom.BuildMatrices(inst, 2, 2.0, 1.0, false)
	require.NoError(t, err)
	return pb
}

func TestNewRouteFeasibleSingleCustomer(t *testing.T) {
	pb := buildProblem(t)
	seed := route.NewNode(pb.Nodes[1])
	r := route.NewRoute(pb, 0, seed, 1)
	require.Equal(t, route.OneCustomer, r.Len)
	require.True(t, r.IsFeasible())
}

func TestAddNodesAppendsAndUpdatesEsts(t *testing.T) {
	pb := buildProblem(t)
	seed := route.NewNode(pb.Nodes[1])
	r := route.NewRoute(pb, 0, seed, 1)

	next := route.NewNode(pb.Nodes[2])
	r.AddNodes(next, next, seed)

	require.Equal(t, route.TwoCustomers, r.Len)
	require.True(t, r.IsFeasible())
	require.InDelta(t, seed.AEst+pb.CostFor(1).MustAt(1, 2), next.AEst, 1e-9)
}

func TestRemoveNodesShrinksRouteAndRestoresFeasibility(t *testing.T) {
	pb := buildProblem(t)
	seed := route.NewNode(pb.Nodes[1])
	r := route.NewRoute(pb, 0, seed, 1)
	next := route.NewNode(pb.Nodes[2])
	r.AddNodes(next, next, seed)

	r.RemoveNodes(next, next)
	require.Equal(t, route.OneCustomer, r.Len)
	require.True(t, r.IsFeasible())
}

func TestCanInsertOneRejectsLateWindow(t *testing.T) {
	pb := buildProblem(t)
	pb.Nodes[2].Lst = 0.1 // arrival from node 1 can't possibly make this
	seed := route.NewNode(pb.Nodes[1])
	r := route.NewRoute(pb, 0, seed, 1)
	candidate := route.NewNode(pb.Nodes[2])
	ok := r.CanInsertOne(candidate, seed)
	require.False(t, ok)
}

func TestCanInsertFeasibleBlock(t *testing.T) {
	pb := buildProblem(t)
	seed := route.NewNode(pb.Nodes[1])
	r := route.NewRoute(pb, 0, seed, 1)
	block := route.NewNode(pb.Nodes[2])
	ok := r.CanInsert(block, block, seed)
	require.True(t, ok)
}

func TestReduceServiceWorkers(t *testing.T) {
	pb := buildProblem(t)
	seed := route.NewNode(pb.Nodes[1])
	r := route.NewRoute(pb, 0, seed, 2)
	reduced := r.ReduceServiceWorkers()
	require.True(t, reduced)
	require.Equal(t, 1, r.Workers)
}

func TestCalcBestInsertionFeasible(t *testing.T) {
	pb := buildProblem(t)
	seed := route.NewNode(pb.Nodes[1])
	r := route.NewRoute(pb, 0, seed, 1)
	candidate := route.NewNode(pb.Nodes[2])
	best := route.Insertion{Cost: math.Inf(1)}
	updated := r.CalcBestInsertion(candidate, 1.0, 1.0, 2.0, &best)
	require.True(t, updated)
	require.Equal(t, r.Nodes, best.After)
}

func TestSwapExchangesNodesAcrossRoutes(t *testing.T) {
	pb := buildProblem(t)
	seed1 := route.NewNode(pb.Nodes[1])
	r1 := route.NewRoute(pb, 0, seed1, 1)
	seed2 := route.NewNode(pb.Nodes[2])
	r2 := route.NewRoute(pb, 1, seed2, 1)

	route.Swap(r1, r2, seed1, seed2)

	require.Equal(t, seed2, r1.Nodes.Next)
	require.Equal(t, seed1, r2.Nodes.Next)
}
