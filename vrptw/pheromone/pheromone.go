// Package pheromone implements the ACO trail matrix shared by all routes in
// a VRPTWMS solution. The matrix is indexed over both the real node ids and
// one virtual depot id per route (id = numNodes + routeID), since giving
// every route's opening/closing depot the same id would erase the
// pheromone's ability to tell routes apart.
package pheromone

import (
	"math/rand"

	"github.com/vrptwms/solver/vrptw/geom"
)

// DepotID is the real depot's node id; calc_trail substitutes a route's
// virtual depot id for it at route boundaries.
const DepotID = geom.DepotID

// Matrix is a dense (2*numNodes-1)x(2*numNodes-1) pheromone trail grid: rows
// and cols [0, numNodes) are real nodes, [numNodes, 2*numNodes-1) are
// virtual per-route depots.
type Matrix struct {
	numNodes int
	size     int
	data     [][]float64
}

// New allocates a pheromone matrix for an instance with numNodes real nodes
// (including the depot) and up to numNodes-1 simultaneous routes, all cells
// initialized to initial.
func New(numNodes int, initial float64) *Matrix {
	size := 2*numNodes - 1
	m := &Matrix{numNodes: numNodes, size: size, data: make([][]float64, size)}
	for i := range m.data {
		m.data[i] = make([]float64, size)
		for j := range m.data[i] {
			m.data[i][j] = initial
		}
	}
	return m
}

// Size returns the matrix's row/column count.
func (m *Matrix) Size() int { return m.size }

// VirtualDepot returns the virtual depot id for the routeIdx-th route about
// to be constructed, matching route.Route.DepotID's numNodes+id scheme.
func (m *Matrix) VirtualDepot(routeIdx int) int { return m.numNodes + routeIdx }

// At returns the raw trail value between from and to (already resolved to
// virtual depot ids where relevant).
func (m *Matrix) At(from, to int) float64 { return m.data[from][to] }

// Add increments the trail value between from and to.
func (m *Matrix) Add(from, to int, delta float64) { m.data[from][to] += delta }

// resolveDepot substitutes the real depot id for a route's virtual depot id
// at the boundary of a prospective insertion.
func resolveDepot(id, routeDepotID int) int {
	if id == DepotID {
		return routeDepotID
	}
	return id
}

// Trail returns the pheromone-trail contribution of inserting node between
// after and after's successor on a route whose virtual depot id is
// routeDepotID.
func (m *Matrix) Trail(routeDepotID, afterID, succID, nodeID int) float64 {
	afterID = resolveDepot(afterID, routeDepotID)
	succID = resolveDepot(succID, routeDepotID)
	return (m.At(afterID, nodeID) + m.At(nodeID, succID)) / (2.0 * m.At(afterID, succID))
}

// RouteEdges is the minimal view of a route Evaporate needs to deposit: the
// first and last customer ids (after the opening/before the closing virtual
// depot) plus the ids that follow the first customer, in order. Kept independent of
// vrptw/route to avoid an import cycle with packages that already import
// pheromone.
type RouteEdges struct {
	DepotID    int
	FirstID    int
	LastID     int
	InteriorIDs []int // node ids after first, up to and including last, in route order
}

// Evaporate applies evaporation (rho) floored at minPheromone to every real-
// to-real and real-to-virtual-depot cell, then deposits (1-rho) along every
// edge used by the given routes. Ignores row/col 0 (the real depot), which
// never appears as an edge endpoint once virtual depots are in play.
func (m *Matrix) Evaporate(routes []RouteEdges, rho, minPheromone float64) {
	for i := 1; i < m.size; i++ {
		for j := 1; j < m.size; j++ {
			v := m.data[i][j] * rho
			if v < minPheromone {
				v = minPheromone
			}
			m.data[i][j] = v
		}
	}
	deposit := 1.0 - rho
	for _, r := range routes {
		m.Add(r.DepotID, r.FirstID, deposit)
		m.Add(r.LastID, r.DepotID, deposit)
		prev := r.FirstID
		for _, id := range r.InteriorIDs {
			m.Add(prev, id, deposit)
			prev = id
		}
	}
}

// Reset restores every cell to the configured initial pheromone value.
// Provided for optional stagnation handling; no metaheuristic driver in this
// module currently calls it, matching the original's reset_pheromone being
// static with its call site commented out.
func (m *Matrix) Reset(initial float64) {
	for i := range m.data {
		for j := range m.data[i] {
			m.data[i][j] = initial
		}
	}
}

// Shake randomizes every cell to a uniform value in [minPheromone, 1.0).
// Provided for optional stagnation handling; no metaheuristic driver in this
// module currently calls it, matching the original's shake_pheromone being
// static with its call site commented out.
func (m *Matrix) Shake(rng *rand.Rand, minPheromone float64) {
	for i := range m.data {
		for j := range m.data[i] {
			v := rng.Float64()
			if v < minPheromone {
				v = minPheromone
			}
			m.data[i][j] = v
		}
	}
}
