// Command vrptwms solves one or more Solomon-format VRPTWMS instances and
// prints an aggregated summary. See -h for the full flag list.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/vrptwms/solver/vrptw/config"
	"github.com/vrptwms/solver/vrptw/geom"
	"github.com/vrptwms/solver/vrptw/metaheuristic"
	"github.com/vrptwms/solver/vrptw/parser"
	"github.com/vrptwms/solver/vrptw/pheromone"
	"github.com/vrptwms/solver/vrptw/report"
	"github.com/vrptwms/solver/vrptw/solution"
	"github.com/vrptwms/solver/vrptw/tabu"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("vrptwms", flag.ContinueOnError)

	configFile := fs.String("config", "", "path to a key=value configuration file, applied before flags")
	metaheuristicName := fs.String("m", "", "metaheuristic: none|aco|cached_aco|cached_grasp|gaco|grasp|vns|ts")
	constructName := fs.String("c", "", "construction heuristic: solomon|solomon-mr|parallel")
	formatName := fs.String("format", "", "result format: human|csv")
	runtime := fs.Int64("r", -1, "runtime per instance, in seconds (0 disables)")
	iterations := fs.Int64("iterations", -1, "max iterations per instance (0 disables)")
	ants := fs.Int("ants", -1, "number of ants (0 for automatic, based on instance size)")
	alpha := fs.Float64("alpha", -1, "Solomon I1 distance/time weight")
	seed := fs.Int64("seed", -1, "pseudo-random seed (0 derives one from the clock)")
	deterministic := fs.Bool("d", false, "use deterministic construction, disabling any metaheuristic")
	verbose := fs.Int("v", -1, "verbosity level")
	vrptw := fs.Bool("vrptw", false, "solve a plain VRPTW: one worker per vehicle, no service time adaptation")
	parallel := fs.Bool("parallel", false, "suppress per-instance banners and force CSV output, for GNU parallel runs")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.DefaultConfig()
	if *configFile != "" {
		f, err := os.Open(*configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		err = config.LoadFile(f, &cfg)
		f.Close()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if err := applyFlags(&cfg, fs, metaheuristicName, constructName, formatName,
		runtime, iterations, ants, alpha, seed, deterministic, verbose, vrptw, parallel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		return 1
	}

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "no input files given")
		fs.Usage()
		return 1
	}

	rngSeed := cfg.Seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var results []report.Result
	for _, fname := range fs.Args() {
		if cfg.Verbosity >= config.BasicVerbosity && !cfg.Parallel {
			fmt.Println("====================")
			fmt.Printf("processing %q...\n", fname)
		}
		res, err := solveInstance(ctx, fname, &cfg, rng)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", fname, err)
			continue
		}
		results = append(results, res)
	}
	report.PrintResults(results, &cfg)
	return 0
}

func solveInstance(ctx context.Context, fname string, cfg *config.Config, rng *rand.Rand) (report.Result, error) {
	inst, err := parser.Parse(fname)
	if err != nil {
		return report.Result{}, err
	}
	pb, err := geom.BuildMatrices(inst, int(cfg.MaxWorkers), cfg.ServiceRate, cfg.TruckVelocity, cfg.AdaptServiceTimes)
	if err != nil {
		return report.Result{}, err
	}

	tl := tabu.New(pb.NumNodes(), uint64(cfg.Tabutime), cfg.Metaheuristic == config.TS)
	pm := pheromone.New(pb.NumNodes(), cfg.InitialPheromone)
	sol := solution.New(pb)

	var progress metaheuristic.Progress
	if cfg.Verbosity >= config.BasicDebug {
		progress = func(s *solution.Solution) { report.Progress(os.Stdout, s) }
	}

	best, err := metaheuristic.Run(ctx, sol, cfg, tl, pm, int(cfg.MaxWorkers), pb.NumNodes(), rng, progress)
	if err != nil {
		return report.Result{}, err
	}
	if err := best.AssertFeasible(); err != nil {
		return report.Result{}, err
	}

	if cfg.Verbosity >= config.BasicDebug {
		_ = report.FprintSolution(os.Stdout, inst.Name, best, cfg)
	}
	if err := report.SaveDetails(inst.Name, best, cfg); err != nil {
		return report.Result{}, err
	}

	return report.NewResult(inst.Name, best, cfg), nil
}

// applyFlags overrides cfg with every flag the caller actually set, leaving
// the rest (defaults or config-file values) untouched. -d and -m interact the
// way the domain CLI documents: -d always wins, forcing NoMetaheuristic
// regardless of -m's value or position.
func applyFlags(cfg *config.Config, fs *flag.FlagSet,
	metaheuristicName, constructName, formatName *string,
	runtime, iterations *int64, ants *int, alpha *float64, seed *int64,
	deterministic *bool, verbose *int, vrptw, parallel *bool) error {

	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "m":
			err = setMetaheuristic(cfg, *metaheuristicName)
		case "c":
			err = setStartHeuristic(cfg, *constructName)
		case "format":
			err = setFormat(cfg, *formatName)
		case "r":
			cfg.RunTime = time.Duration(*runtime) * time.Second
		case "iterations":
			cfg.MaxIterations = *iterations
		case "ants":
			cfg.Ants = *ants
			cfg.AntsDynamic = *ants == 0
		case "alpha":
			cfg.Alpha = *alpha
		case "seed":
			cfg.Seed = *seed
		case "v":
			cfg.Verbosity = config.Verbosity(*verbose)
		}
	})
	if err != nil {
		return err
	}
	if *deterministic {
		cfg.Deterministic = true
		cfg.Metaheuristic = config.NoMetaheuristic
	}
	if *vrptw {
		cfg.AdaptServiceTimes = false
		cfg.MaxWorkers = 1
	}
	if *parallel {
		cfg.Format = config.CSV
		cfg.Parallel = true
	}
	return nil
}

func setMetaheuristic(cfg *config.Config, name string) error {
	switch strings.ToLower(name) {
	case "none":
		cfg.Metaheuristic = config.NoMetaheuristic
	case "aco":
		cfg.Metaheuristic = config.ACO
	case "cached_aco":
		cfg.Metaheuristic = config.CachedACO
	case "cached_grasp":
		cfg.Metaheuristic = config.CachedGRASP
	case "gaco":
		cfg.Metaheuristic = config.GACO
	case "grasp":
		cfg.Metaheuristic = config.GRASP
	case "vns":
		cfg.Metaheuristic = config.VNS
	case "ts":
		cfg.Metaheuristic = config.TS
	default:
		return fmt.Errorf("-m %q: %w", name, config.ErrUnknownMetaheuristic)
	}
	return nil
}

func setStartHeuristic(cfg *config.Config, name string) error {
	switch strings.ToLower(name) {
	case "solomon":
		cfg.StartHeuristic = config.Solomon
	case "solomon-mr":
		cfg.StartHeuristic = config.SolomonMR
	case "parallel":
		cfg.StartHeuristic = config.Parallel
	default:
		return fmt.Errorf("-c %q: %w", name, config.ErrUnknownStartHeuristic)
	}
	return nil
}

func setFormat(cfg *config.Config, name string) error {
	switch strings.ToLower(name) {
	case "human":
		cfg.Format = config.Human
	case "csv":
		cfg.Format = config.CSV
	default:
		return fmt.Errorf("--format %q: %w", name, config.ErrUnknownOutputFormat)
	}
	return nil
}
