// Package tabu implements the short-term memory used by tabu search (and
// consulted, harmlessly inert, by every other local-search-driven
// metaheuristic): a node/route recency matrix that forbids re-inserting a
// recently-moved-away-from node back onto a route for a configurable number
// of iterations.
//
// Move also lives here rather than in vrptw/localsearch to avoid an import
// cycle: localsearch needs Move and List.IsTabu together, and Move's fields
// reference vrptw/route types, so whichever package defined Move would have
// to import the other for the tabu check — defining it once, here, breaks
// the cycle the same way the original's forward-declared Tabulist/Move
// structs reference each other across tabu_search.h and local_search.h.
package tabu

import "github.com/vrptwms/solver/vrptw/route"

// Move describes a single local-search relocate: the block first..last is
// cut from source and spliced in on target, after `after`. The delta fields
// are savings (positive means improvement) accumulated by whichever search
// operator is building the move.
type Move struct {
	Source, Target     *route.Route
	First, Last, After *route.Node
	DeltaTrucks        int
	DeltaWorkers       int
	DeltaDist          float64
	Improving          bool
}

// Reset clears m back to its zero move. When improving is false, DeltaDist
// starts at -Inf so move_all's "no move found yet" sentinel is also "no
// delta beats this", matching the worsening-moves-allowed branch of the
// original's init_move.
func (m *Move) Reset(improving bool) {
	*m = Move{Improving: improving}
	if !improving {
		m.DeltaDist = negInf
	}
}

const negInf = -1e308

// List is the node x route recency matrix: ForbiddenUntil[nodeID][routeID]
// holds the iteration number before which that node may not be moved onto
// that route (the move is tabu while the stored value exceeds Iteration). Active is false for every metaheuristic except
// TS, in which case every check/record call is a no-op — mirroring the
// original's tl->active guard rather than simply not constructing a List.
type List struct {
	Active         bool
	Iteration      uint64
	Tabutime       uint64
	ForbiddenUntil [][]uint64 // [nodeID][routeID]
}

// New allocates a List sized for numNodes node ids (row 0, the depot, is
// allocated but never consulted) and numNodes-1 possible simultaneous routes.
func New(numNodes int, tabutime uint64, active bool) *List {
	rows := make([][]uint64, numNodes)
	for i := range rows {
		rows[i] = make([]uint64, numNodes-1)
	}
	return &List{Active: active, Tabutime: tabutime, ForbiddenUntil: rows}
}

// IsTabu returns whether any node in m.First..m.Last is still forbidden on
// m.Target. Always false when the list is inactive.
func (l *List) IsTabu(m *Move) bool {
	if !l.Active {
		return false
	}
	for n := m.First; ; n = n.Next {
		if l.ForbiddenUntil[n.ID][m.Target.ID] > l.Iteration {
			return true
		}
		if n == m.Last {
			return false
		}
	}
}

// RecordMove advances the iteration counter and stamps every node in
// m.First..m.Last as forbidden on m.Source (the route it is leaving) until
// Iteration+Tabutime. No-op when the list is inactive.
//
// Recording against m.Source while IsTabu checks m.Target is the original's
// own asymmetry (a node is blocked from returning to where it came from, but
// the check that stops a move happening at all looks at the destination) —
// preserved rather than reconciled.
func (l *List) RecordMove(m *Move) {
	if !l.Active {
		return
	}
	l.Iteration++
	until := l.Iteration + l.Tabutime
	for n := m.First; ; n = n.Next {
		l.ForbiddenUntil[n.ID][m.Source.ID] = until
		if n == m.Last {
			return
		}
	}
}
