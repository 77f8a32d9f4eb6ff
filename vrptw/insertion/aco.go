package insertion

import (
	"math"
	"math/rand"

	"github.com/vrptwms/solver/vrptw/pheromone"
	"github.com/vrptwms/solver/vrptw/route"
)

// CalcACOInsertion scans every position on target for the cheapest place to
// insert n, folding in the pheromone trail as a multiplier: trail divides
// cost when cost is non-negative (cheaper trails are preferred the same way
// cheaper costs are), and multiplies it when cost is negative (so a strong
// trail makes an already-attractive negative cost even more attractive).
// Updates best in place and returns whether a strictly better position was
// found.
func CalcACOInsertion(target *route.Route, n *route.Node, pm *pheromone.Matrix, alpha, mu, lambda float64, best *route.Insertion) bool {
	if target.Problem.Capacity < target.Load+n.Demand {
		return false
	}
	d := target.Problem.Distances()
	cm := target.Problem.CostFor(target.Workers)
	alpha2 := 1 - alpha
	updated := false
	for after := target.Nodes; after != target.Tail; after = after.Next {
		if !target.CanInsertOne(n, after) {
			continue
		}
		next := after.Next
		costDist := d.MustAt(after.ID, n.ID) + d.MustAt(n.ID, next.ID) - mu*d.MustAt(after.ID, next.ID)
		var costTime float64
		if alpha2 != 0 {
			estNode := math.Max(n.Est, after.AEst+cm.MustAt(after.ID, n.ID))
			estSucc := math.Max(next.AEst, estNode+cm.MustAt(n.ID, next.ID))
			costTime = estSucc - next.AEst
		}
		cost := alpha*costDist + alpha2*costTime
		cost -= lambda * d.MustAt(route.DepotID, n.ID)
		trail := pm.Trail(target.DepotID, after.ID, next.ID, n.ID)
		if cost >= 0 {
			cost /= trail
		} else {
			cost *= trail
		}
		if cost < best.Cost {
			best.Target = target
			best.Node = n
			best.After = after
			best.Cost = cost
			updated = true
		}
	}
	return updated
}

// CalcMRInsertion is CalcACOInsertion's attractiveness-maximizing twin,
// mirroring route.GetBestInsertion but with the depot-bonus attractiveness
// multiplied by the pheromone trail before comparison.
func CalcMRInsertion(target *route.Route, n *route.Node, pm *pheromone.Matrix, alpha, mu, lambda float64, best *route.Insertion) bool {
	if target.Problem.Capacity < target.Load+n.Demand {
		return false
	}
	d := target.Problem.Distances()
	cm := target.Problem.CostFor(target.Workers)
	alpha2 := 1 - alpha
	updated := false
	for after := target.Nodes; after != target.Tail; after = after.Next {
		if !target.CanInsertOne(n, after) {
			continue
		}
		next := after.Next
		costDist := d.MustAt(after.ID, n.ID) + d.MustAt(n.ID, next.ID) - mu*d.MustAt(after.ID, next.ID)
		var costTime float64
		if alpha2 != 0 {
			estNode := math.Max(n.Est, after.AEst+cm.MustAt(after.ID, n.ID))
			estSucc := math.Max(next.AEst, estNode+cm.MustAt(n.ID, next.ID))
			costTime = estSucc - next.AEst
		}
		cost := alpha*costDist + alpha2*costTime
		attract := lambda*d.MustAt(route.DepotID, n.ID) - cost
		trail := pm.Trail(target.DepotID, after.ID, next.ID, n.ID)
		if attract <= 0.0 {
			attract = route.MinDelta
		}
		attract *= trail
		if attract > best.Attractiveness {
			best.Target = target
			best.Node = n
			best.After = after
			best.Attractiveness = attract
			updated = true
		}
	}
	return updated
}

// CalcNextInsertion returns the first feasible position for n at or after
// `after` on target, used by parallel construction where only one new
// insertion needs to be (re)computed per unrouted node per round. Returns
// ok=false if n no longer fits anywhere from `after` onward.
func CalcNextInsertion(target *route.Route, n *route.Node, after *route.Node, pm *pheromone.Matrix, alpha, mu float64) (ins route.Insertion, ok bool) {
	if target.Problem.Capacity < target.Load+n.Demand {
		return route.Insertion{}, false
	}
	for !target.CanInsertOne(n, after) {
		if after.Next == target.Tail {
			return route.Insertion{}, false
		}
		after = after.Next
	}
	d := target.Problem.Distances()
	cm := target.Problem.CostFor(target.Workers)
	next := after.Next
	costDist := d.MustAt(after.ID, n.ID) + d.MustAt(n.ID, next.ID) - mu*d.MustAt(after.ID, next.ID)
	var costTime float64
	alpha2 := 1 - alpha
	if alpha2 != 0 {
		estNode := math.Max(n.Est, after.AEst+cm.MustAt(after.ID, n.ID))
		estSucc := math.Max(next.AEst, estNode+cm.MustAt(n.ID, next.ID))
		costTime = estSucc - next.AEst
	}
	cost := alpha*costDist + alpha2*costTime
	trail := pm.Trail(target.DepotID, after.ID, next.ID, n.ID)
	var attract float64
	if cost > route.MinCost {
		attract = trail / cost
	} else {
		attract = trail / route.MinCost
	}
	return route.Insertion{
		Node:           n,
		After:          after,
		Target:         target,
		Cost:           -1.0,
		Attractiveness: attract,
	}, true
}

// ACOPickInsertion picks one of insertions via a roulette wheel over
// 1/(cost-(minCost-1)), i.e. attractiveness grows the cheaper (and more
// negative) cost gets, normalized so every weight stays positive.
func ACOPickInsertion(insertions []route.Insertion, minCost float64, rng *rand.Rand) *route.Insertion {
	if len(insertions) == 0 {
		return nil
	}
	minCost -= 1.0
	weights := make([]float64, len(insertions))
	var cum float64
	for i := range insertions {
		weights[i] = 1.0 / (insertions[i].Cost - minCost)
		cum += weights[i]
	}
	threshold := rng.Float64() * cum
	for i := range insertions {
		cum -= weights[i]
		if threshold >= cum {
			return &insertions[i]
		}
	}
	return &insertions[len(insertions)-1]
}
