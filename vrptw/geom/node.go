package geom

// Node is the immutable, problem-level representation of a customer (or the
// depot, always id 0). Routes never mutate a Node directly — route.Node
// holds a working copy with route-linkage fields; see route.NewNode.
type Node struct {
	// ID is the node's index into the cost matrices, 0 for the depot.
	ID int

	// X, Y are the node's coordinates, used only to compute distances during
	// BuildMatrices and to pick deterministic seeds by Euclidean distance.
	X, Y float64

	// Demand is the quantity a truck's capacity is reduced by when visiting.
	Demand float64

	// Est, Lst bound the input time window: service may not start before Est
	// and must start no later than Lst.
	Est, Lst float64

	// ServiceTime is the nominal time spent servicing this node with a
	// single worker; BuildMatrices divides it by the worker count.
	ServiceTime float64
}

// DepotID is the node id reserved for the depot in every instance.
const DepotID = 0

// Instance is a fully parsed problem: the node array (depot first) plus
// vehicle capacity, ready for BuildMatrices.
type Instance struct {
	Name     string
	Capacity float64
	Nodes    []Node // Nodes[0] is always the depot
}
