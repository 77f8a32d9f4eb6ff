// Package solver is a VRPTWMS solver: vehicle routing with time windows and
// multiple service workers per stop.
//
// A run parses a Solomon-format instance (vrptw/parser), builds its dense
// cost matrices (vrptw/geom), constructs an initial set of routes (Solomon
// I1 sequential, parallel, or GRASP — vrptw/construct), then improves it
// with one of seven metaheuristics (vrptw/metaheuristic): ant colony
// optimization (plain, greedy, or cached), GRASP (plain or cached), tabu
// search, or variable neighborhood search. Local search
// (vrptw/localsearch), the tabu list (vrptw/tabu), and the pheromone
// matrix (vrptw/pheromone) are shared building blocks the metaheuristics
// compose rather than owning their own copies.
//
//	go run ./cmd/vrptwms -m aco -r 20 data/R101.txt
//
// See cmd/vrptwms for the command-line entry point and vrptw/config for
// every tunable knob.
package solver
