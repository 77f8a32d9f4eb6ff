// Package construct implements initial-solution construction: Solomon I1
// sequential insertion (plain, pheromone-weighted, and attractiveness
// variants), parallel (all-routes-at-once) construction, and GRASP's
// restricted-candidate-list variant.
package construct

import (
	"math/rand"

	"github.com/vrptwms/solver/vrptw/geom"
	"github.com/vrptwms/solver/vrptw/pheromone"
	"github.com/vrptwms/solver/vrptw/route"
	"github.com/vrptwms/solver/vrptw/solution"
)

// BestSeed returns the unrouted node furthest from the depot (the
// deterministic seed rule): ties keep the first candidate found.
func BestSeed(unrouted *route.Node, d *geom.Matrix) *route.Node {
	var best *route.Node
	maxDist := -1.0
	for n := unrouted; n != nil; n = n.Next {
		if dist := d.MustAt(route.DepotID, n.ID); dist > maxDist {
			maxDist = dist
			best = n
		}
	}
	return best
}

// Seed picks a stochastic seed for sequential construction: a roulette
// wheel over each unrouted node's distance from the depot weighted by its
// pheromone trail to/from the current route's virtual depot. Only the
// pheromone between this route's depot and the candidate is considered,
// not the candidate's pheromone to every other depot.
func Seed(sol *solution.Solution, pm *pheromone.Matrix, rng *rand.Rand) *route.Node {
	d := sol.Problem.Distances()
	depotID := pm.VirtualDepot(len(sol.Routes))
	var cum float64
	trails := make([]float64, 0, sol.NumUnrouted)
	for n := sol.Unrouted; n != nil; n = n.Next {
		trail := pm.At(depotID, n.ID) + pm.At(n.ID, depotID)
		trails = append(trails, trail)
		cum += d.MustAt(route.DepotID, n.ID) * trail
	}
	threshold := rng.Float64() * cum
	i := 0
	for n := sol.Unrouted; n != nil; n = n.Next {
		cum -= d.MustAt(route.DepotID, n.ID) * trails[i]
		if threshold >= cum {
			return n
		}
		i++
	}
	return nil
}

// ParallelSeed picks a stochastic seed for parallel construction: a
// roulette wheel over each unrouted node's pheromone trail to/from the
// current route's virtual depot alone (no distance term) — two nodes both
// favored by the starting depot are, by construction, likely to end up on
// different routes.
func ParallelSeed(sol *solution.Solution, pm *pheromone.Matrix, rng *rand.Rand) *route.Node {
	depotID := pm.VirtualDepot(len(sol.Routes))
	var cum float64
	trails := make([]float64, 0, sol.NumUnrouted)
	for n := sol.Unrouted; n != nil; n = n.Next {
		trail := pm.At(depotID, n.ID) + pm.At(n.ID, depotID)
		trails = append(trails, trail)
		cum += trail
	}
	threshold := rng.Float64() * cum
	i := 0
	for n := sol.Unrouted; n != nil; n = n.Next {
		cum -= trails[i]
		if threshold >= cum {
			return n
		}
		i++
	}
	return nil
}
