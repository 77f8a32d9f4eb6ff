package geom

import "math"

// Problem holds one VRPTWMS instance's resolved geometry: the node array
// (depot first) and the W+1 dense cost matrices CostMatrices[0..MaxWorkers].
// CostMatrices[0] is pure Euclidean distance; CostMatrices[w] for w>=1 adds
// the source node's service time divided by w workers, so it doubles as the
// "driving + service" time used by aest/alst propagation for that worker
// count.
type Problem struct {
	Name        string
	Capacity    float64
	Nodes       []Node // Nodes[0] is the depot
	MaxWorkers  int
	CostMatrices []*Matrix // length MaxWorkers+1
}

// NumNodes returns the total node count including the depot.
func (p *Problem) NumNodes() int { return len(p.Nodes) }

// Distances returns the plain distance matrix (CostMatrices[0]).
func (p *Problem) Distances() *Matrix { return p.CostMatrices[0] }

// CostFor returns the cost matrix for the given worker count (driving time
// plus source-node service time divided by workers). workers must be in
// [1, MaxWorkers].
func (p *Problem) CostFor(workers int) *Matrix { return p.CostMatrices[workers] }

// BuildMatrices computes the distance matrix and one driving+service-time
// matrix per worker count 1..maxWorkers from an Instance's coordinates.
//
// When adaptServiceTimes is set, each customer's service time is rescaled
// per Reimann et al.'s adaptation so that the depot's own time window still
// closes on return: service_time = min(serviceRate*demand, depotLst -
// max(est, dist(depot,i)/truckVelocity) - dist(i,depot)/truckVelocity).
//
// Complexity: O(n^2 * maxWorkers).
func BuildMatrices(inst *Instance, maxWorkers int, serviceRate, truckVelocity float64, adaptServiceTimes bool) (*Problem, error) {
	n := len(inst.Nodes)
	if n == 0 || maxWorkers < 1 {
		return nil, ErrInvalidDimensions
	}

	dist, err := NewMatrix(n, n)
	if err != nil {
		return nil, err
	}
	var i, j int
	var dx, dy float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i == j {
				continue
			}
			dx = inst.Nodes[i].X - inst.Nodes[j].X
			dy = inst.Nodes[i].Y - inst.Nodes[j].Y
			dist.MustSet(i, j, math.Sqrt(dx*dx+dy*dy))
		}
	}

	nodes := make([]Node, n)
	copy(nodes, inst.Nodes)
	if adaptServiceTimes {
		depot := nodes[0]
		for i = 1; i < n; i++ {
			toDepot := dist.MustAt(0, i) / truckVelocity
			fromDepot := dist.MustAt(i, 0) / truckVelocity
			cap := depot.Lst - math.Max(nodes[i].Est, toDepot) - fromDepot
			nodes[i].ServiceTime = math.Min(serviceRate*nodes[i].Demand, cap)
		}
	}

	matrices := make([]*Matrix, maxWorkers+1)
	matrices[0] = dist
	var w int
	for w = 1; w <= maxWorkers; w++ {
		m, merr := NewMatrix(n, n)
		if merr != nil {
			return nil, merr
		}
		for i = 0; i < n; i++ {
			for j = 0; j < n; j++ {
				if i == j {
					continue
				}
				m.MustSet(i, j, dist.MustAt(i, j)+nodes[i].ServiceTime/float64(w))
			}
		}
		matrices[w] = m
	}

	return &Problem{
		Name:         inst.Name,
		Capacity:     inst.Capacity,
		Nodes:        nodes,
		MaxWorkers:   maxWorkers,
		CostMatrices: matrices,
	}, nil
}
