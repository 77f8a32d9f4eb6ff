// Package config defines the VRPTWMS solver's tunable parameters: the
// metaheuristic and construction-heuristic selectors, cost weights, local
// search knobs, and the ACO/GRASP-specific constants.
//
// Config is a near-literal transliteration of the original solver's
// configuration struct, using Go enums in place of integer tags and bool in
// place of a tri-state config bool. DefaultConfig mirrors the original's
// compiled-in defaults; Validate replaces its validity check.
package config

import (
	"errors"
	"time"
)

// Sentinel validation errors. Checked with errors.Is, never string-matched.
var (
	// ErrNoBudget indicates neither a runtime nor an iteration budget was set.
	ErrNoBudget = errors.New("config: runtime or max_iterations must be > 0")

	// ErrNegativeRuntime indicates RunTime is negative.
	ErrNegativeRuntime = errors.New("config: runtime must be >= 0")

	// ErrNegativeIterations indicates MaxIterations is negative.
	ErrNegativeIterations = errors.New("config: max_iterations must be >= 0")

	// ErrNegativeMaxMove indicates MaxMove is negative.
	ErrNegativeMaxMove = errors.New("config: max_move must be >= 0")

	// ErrNegativeMaxSwap indicates MaxSwap is negative.
	ErrNegativeMaxSwap = errors.New("config: max_swap must be >= 0")

	// ErrNoWorkers indicates MaxWorkers is less than 1.
	ErrNoWorkers = errors.New("config: max_workers must be >= 1")

	// ErrUnknownMetaheuristic indicates an unrecognized -m/metaheuristic value.
	ErrUnknownMetaheuristic = errors.New("config: unknown metaheuristic")

	// ErrUnknownStartHeuristic indicates an unrecognized start_heuristic value.
	ErrUnknownStartHeuristic = errors.New("config: unknown start heuristic")

	// ErrUnknownOutputFormat indicates an unrecognized format value.
	ErrUnknownOutputFormat = errors.New("config: unknown output format")

	// ErrUnknownKey indicates a LoadFile line set a key this config doesn't have.
	ErrUnknownKey = errors.New("config: unknown key")

	// ErrMalformedLine indicates a LoadFile line isn't "key = value" or "key value".
	ErrMalformedLine = errors.New("config: malformed line")
)

// Metaheuristic selects the outer optimization loop.
type Metaheuristic int

const (
	NoMetaheuristic Metaheuristic = iota
	ACO
	CachedACO
	CachedGRASP
	GACO
	GRASP
	VNS
	TS
)

func (m Metaheuristic) String() string {
	switch m {
	case NoMetaheuristic:
		return "none"
	case ACO:
		return "aco"
	case CachedACO:
		return "cached_aco"
	case CachedGRASP:
		return "cached_grasp"
	case GACO:
		return "gaco"
	case GRASP:
		return "grasp"
	case VNS:
		return "vns"
	case TS:
		return "ts"
	default:
		return "unknown"
	}
}

// StartHeuristic selects the initial route construction heuristic.
type StartHeuristic int

const (
	Solomon StartHeuristic = iota
	SolomonMR
	Parallel
)

func (h StartHeuristic) String() string {
	switch h {
	case Solomon:
		return "solomon"
	case SolomonMR:
		return "solomon-mr"
	case Parallel:
		return "parallel"
	default:
		return "unknown"
	}
}

// OutputFormat selects result printing.
type OutputFormat int

const (
	Human OutputFormat = iota
	CSV
)

func (f OutputFormat) String() string {
	if f == CSV {
		return "csv"
	}
	return "human"
}

// Verbosity mirrors the original's numeric verbosity levels.
type Verbosity int

const (
	MinVerbosity   Verbosity = 0
	BasicVerbosity Verbosity = 1
	BasicDebug     Verbosity = 2
	DebugFlags     Verbosity = 9
	DebugCache     Verbosity = 10
	FullDebug      Verbosity = 99
)

// Config carries every tunable knob of the solver. Zero value is not
// meaningful; use DefaultConfig() and override fields as needed.
type Config struct {
	AdaptServiceTimes bool
	Alpha             float64 // Solomon I1 distance/time weight, in [0,1]
	Mu                float64 // Solomon I1 "greediness" parameter
	Lambda            float64 // Solomon I1 seed-bonus parameter

	Ants        int  // 0 => dynamic (num customers)
	AntsDynamic bool // true when Ants was resolved from instance size

	BestMoves bool // true: best-improvement local search, false: first-improvement

	CostTruck    float64
	CostWorker   float64
	CostDistance float64

	Deterministic bool // deterministic vs stochastic Solomon construction
	DoLS          bool // run local search after construction at all

	Format OutputFormat

	InitialPheromone float64
	MinPheromone     float64
	Rho              float64 // pheromone evaporation rate

	// MaxFailedAttempts bounds how many consecutive PARALLEL-construction
	// attempts may leave a customer unrouted at a reduced truck count before
	// the driver commits to the best truck count found so far and stops
	// trying to reduce further (vrptw/metaheuristic's parallelConstructionState).
	MaxFailedAttempts int64
	MaxIterations     int64 // 0 => unlimited
	MaxMove           int64 // relocate block size cap (move1/move2)
	MaxOptimize       int64 // reserved: no described operator consumes it yet
	MaxSwap           int64
	MaxWorkers        int64

	Metaheuristic Metaheuristic

	Parallel bool // output tweak for batch runs: suppresses per-instance banners (parallel construction is StartHeuristic Parallel)

	RCLSize int // GRASP restricted candidate list size

	RunTime time.Duration // 0 => unlimited

	ServiceRate   float64
	TruckVelocity float64

	SolDetailsFilename string
	StatsFilename      string

	StartHeuristic StartHeuristic

	Tabutime int64 // iterations a node/route pair stays tabu

	UseWeights bool // roulette wheel vs uniform random pick

	Verbosity Verbosity

	Seed int64 // RNG seed; 0 derives a seed from the clock at CLI level
}

// DefaultConfig mirrors config_set_default_values's compiled-in defaults.
func DefaultConfig() Config {
	return Config{
		AdaptServiceTimes:  true,
		Alpha:              1.0,
		Mu:                 1.0,
		Lambda:             2.0,
		Ants:               0,
		AntsDynamic:        true,
		BestMoves:          true,
		CostTruck:          1.0,
		CostWorker:         0.1,
		CostDistance:       0.0001,
		Deterministic:      false,
		DoLS:               true,
		Format:             Human,
		InitialPheromone:   1.0,
		MinPheromone:       1e-13,
		Rho:                0.985,
		MaxFailedAttempts:  500,
		MaxIterations:      0,
		MaxMove:            2,
		MaxOptimize:        3,
		MaxSwap:            1,
		MaxWorkers:         3,
		Metaheuristic:      ACO,
		Parallel:           false,
		RCLSize:            2,
		RunTime:            10 * time.Second,
		ServiceRate:        2.0,
		TruckVelocity:      1.0,
		SolDetailsFilename: "details.txt",
		StatsFilename:      "stats.txt",
		StartHeuristic:     Solomon,
		Tabutime:           50,
		UseWeights:         true,
		Verbosity:          MinVerbosity,
		Seed:               0,
	}
}

// Validate replaces config_is_valid: it returns the first violated invariant
// as a sentinel error, or nil.
func (c *Config) Validate() error {
	if c.RunTime < 0 {
		return ErrNegativeRuntime
	}
	if c.MaxIterations < 0 {
		return ErrNegativeIterations
	}
	if c.RunTime == 0 && c.MaxIterations == 0 {
		return ErrNoBudget
	}
	if c.MaxMove < 0 {
		return ErrNegativeMaxMove
	}
	if c.MaxSwap < 0 {
		return ErrNegativeMaxSwap
	}
	if c.MaxWorkers < 1 {
		return ErrNoWorkers
	}
	return nil
}
