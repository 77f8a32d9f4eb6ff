package route

import "math"

// MinDelta floors attractiveness scores so a negative or zero raw score
// never wins a roulette draw or a best-of comparison outright.
const MinDelta = 1e-13

// Insertion records the best place found so far to insert a node into a
// route: After is the predecessor node, Cost/Attractiveness hold whichever
// scoring metric the caller is minimizing/maximizing, and Target is the
// candidate route.
type Insertion struct {
	Node           *Node
	After          *Node
	Target         *Route
	Cost           float64
	Attractiveness float64
}

// scorePosition returns the Solomon I1 cost-minimizing score of inserting n
// between after and after.Next, biased by -lambda*d(depot,n) so that
// customers far from the depot are preferred (Solomon's seed bonus). ok is
// false if n cannot go between after and after.Next at all.
//
// Note: est_succ is measured against after.Next.Est while the resulting
// cost_time is measured against after.Next.AEst — an inconsistency carried
// over unchanged from the original scoring function.
func (r *Route) scorePosition(n, after *Node, alpha, mu, lambda float64) (cost float64, ok bool) {
	if !r.CanInsertOne(n, after) {
		return 0, false
	}
	d := r.Problem.Distances()
	cm := r.Problem.CostFor(r.Workers)
	next := after.Next
	costDist := d.MustAt(after.ID, n.ID) + d.MustAt(n.ID, next.ID) - mu*d.MustAt(after.ID, next.ID)
	var costTime float64
	alpha2 := 1 - alpha
	if alpha2 != 0 {
		estNode := math.Max(n.Est, after.AEst+cm.MustAt(after.ID, n.ID))
		estSucc := math.Max(next.Est, estNode+cm.MustAt(n.ID, next.ID))
		costTime = estSucc - next.AEst
	}
	cost = alpha*costDist + alpha2*costTime
	cost -= lambda * d.MustAt(DepotID, n.ID)
	return cost, true
}

// CalcBestInsertion scans every position on r for the cheapest place to
// insert n (route.scorePosition, minimized) and updates best in place.
// Returns whether a strictly better position than best's current Cost was
// found. Callers seed best.Cost to +Inf before the first call in a series
// across several candidate routes, matching the original's reuse of one
// Insertion across a loop over routes.
func (r *Route) CalcBestInsertion(n *Node, alpha, mu, lambda float64, best *Insertion) bool {
	if r.Problem.Capacity < r.Load+n.Demand {
		return false
	}
	updated := false
	for after := r.Nodes; after != r.Tail; after = after.Next {
		cost, ok := r.scorePosition(n, after, alpha, mu, lambda)
		if !ok {
			continue
		}
		if cost < best.Cost {
			best.Target = r
			best.Node = n
			best.After = after
			best.Cost = cost
			updated = true
		}
	}
	return updated
}

// attractPosition returns the Reimann-style attractiveness of inserting n
// between after and after.Next (higher is better, floored at MinDelta).
//
// Note: when alpha2 is nonzero the time-window term replaces rather than
// combines with the distance term (cost is reassigned, not accumulated) —
// preserved unchanged from the original.
func (r *Route) attractPosition(n, after *Node, alpha, mu, lambda float64) (attract float64, ok bool) {
	if !r.CanInsertOne(n, after) {
		return 0, false
	}
	d := r.Problem.Distances()
	cm := r.Problem.CostFor(r.Workers)
	next := after.Next
	cost := d.MustAt(after.ID, n.ID) + d.MustAt(n.ID, next.ID) - mu*d.MustAt(after.ID, next.ID)
	alpha2 := 1 - alpha
	if alpha2 != 0 {
		cost *= alpha
		estNode := math.Max(n.Est, after.AEst+cm.MustAt(after.ID, n.ID))
		estSucc := math.Max(next.AEst, estNode+cm.MustAt(n.ID, next.ID))
		cost = alpha2 * (estSucc - next.AEst)
	}
	attract = lambda*d.MustAt(DepotID, n.ID) - cost
	if attract <= 0.0 {
		attract = MinDelta
	}
	return attract, true
}

// GetBestInsertion scans every position on r for the most attractive place
// to insert n (route.attractPosition, maximized). Returns ok=false if n
// cannot be feasibly inserted anywhere on r.
func (r *Route) GetBestInsertion(n *Node, alpha, mu, lambda float64) (ins Insertion, ok bool) {
	if r.Problem.Capacity < r.Load+n.Demand {
		return Insertion{}, false
	}
	best := math.Inf(-1)
	for after := r.Nodes; after != r.Tail; after = after.Next {
		attract, posOK := r.attractPosition(n, after, alpha, mu, lambda)
		if !posOK {
			continue
		}
		if attract > best {
			best = attract
			ins = Insertion{Node: n, After: after, Target: r, Cost: 0, Attractiveness: attract}
			ok = true
		}
	}
	return ins, ok
}
