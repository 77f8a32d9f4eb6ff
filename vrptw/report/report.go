// Package report formats solved VRPTWMS instances for human consumption: a
// per-run progress line, an aggregated table or CSV of every instance's
// result, and an append-only solution-details file.
package report

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/vrptwms/solver/vrptw/config"
	"github.com/vrptwms/solver/vrptw/route"
	"github.com/vrptwms/solver/vrptw/solution"
)

// Result is one instance's final, aggregable outcome.
type Result struct {
	Name             string
	Trucks           int
	Workers          int
	Distance         float64
	Cost             float64
	Time             time.Duration
	SaturationTime   time.Duration
	HasMetaheuristic bool // false => Time/SaturationTime are meaningless ("n/a")
}

// NewResult summarizes a solved solution under cfg's cost weights.
func NewResult(name string, sol *solution.Solution, cfg *config.Config) Result {
	var dist float64
	var workers int
	for _, r := range sol.Routes {
		dist += r.CalcLength()
		workers += r.Workers
	}
	return Result{
		Name:             name,
		Trucks:           len(sol.Routes),
		Workers:          workers,
		Distance:         dist,
		Cost:             sol.Cost(cfg.CostTruck, cfg.CostWorker, cfg.CostDistance),
		Time:             sol.Time,
		SaturationTime:   sol.SaturationTime,
		HasMetaheuristic: cfg.Metaheuristic != config.NoMetaheuristic,
	}
}

// Progress prints a one-line summary of a newly found best solution, in the
// shape "<trucks> <workers> <distance> -> <cost> (<seconds> seconds)". Only
// meant to be wired up at BasicDebug verbosity or above; callers filter on
// cfg.Verbosity themselves since Progress has no cfg in scope.
func Progress(w io.Writer, sol *solution.Solution) {
	fmt.Fprintf(w, "%d %d %f -> %f (%d seconds)\n",
		len(sol.Routes), sol.WorkersCache, sol.DistCache, sol.CostCache,
		int64(sol.Time.Seconds()))
}

// PrintResults writes every result in results, in cfg.Format, to stdout.
// Human format is a padded table with a trailing sum/avg row when there is
// more than one result; CSV is one row per result with an optional header.
func PrintResults(results []Result, cfg *config.Config) {
	if len(results) == 0 {
		return
	}
	if cfg.Format == config.CSV {
		printCSV(os.Stdout, results, cfg)
		return
	}
	printTable(os.Stdout, results)
}

func printCSV(w io.Writer, results []Result, cfg *config.Config) {
	if cfg.Verbosity != config.MinVerbosity {
		fmt.Fprintln(w, "name, trucks, workers, distance, cost, time [s]")
	}
	for _, r := range results {
		if r.HasMetaheuristic {
			fmt.Fprintf(w, "%s,%d,%d,%.2f,%.6f,%d", r.Name, r.Trucks, r.Workers, r.Distance, r.Cost, int64(r.Time.Seconds()))
		} else {
			fmt.Fprintf(w, "%s,%d,%d,%.2f,%.6f,n/a", r.Name, r.Trucks, r.Workers, r.Distance, r.Cost)
		}
		if r.SaturationTime != 0 {
			fmt.Fprintf(w, ",%d", int64(r.SaturationTime.Seconds()))
		}
		fmt.Fprintln(w)
	}
}

func printTable(w io.Writer, results []Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.Debug)
	fmt.Fprintln(tw, "name\ttrucks\tworkers\tdistance\tcost\ttime [s]")
	var sumTrucks, sumWorkers int
	var sumDist, sumCost float64
	var sumTime time.Duration
	for _, r := range results {
		if r.HasMetaheuristic {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.6f\t%d\n", r.Name, r.Trucks, r.Workers, r.Distance, r.Cost, int64(r.Time.Seconds()))
		} else {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.6f\tn/a\n", r.Name, r.Trucks, r.Workers, r.Distance, r.Cost)
		}
		sumTrucks += r.Trucks
		sumWorkers += r.Workers
		sumDist += r.Distance
		sumCost += r.Cost
		sumTime += r.Time
	}
	tw.Flush()
	if len(results) > 1 {
		tw2 := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.Debug)
		n := float64(len(results))
		fmt.Fprintf(tw2, "sum\t%d\t%d\t%.2f\t%.6f\t%d\n", sumTrucks, sumWorkers, sumDist, sumCost, int64(sumTime.Seconds()))
		fmt.Fprintf(tw2, "avg\t%.2f\t%.2f\t%.2f\t%.6f\t%.2f\n",
			float64(sumTrucks)/n, float64(sumWorkers)/n, sumDist/n, sumCost/n, sumTime.Seconds()/n)
		tw2.Flush()
	}
}

// SaveDetails appends a human-readable dump of sol (name, each route, and
// the trucks/workers/distance/cost summary line) to cfg.SolDetailsFilename.
func SaveDetails(name string, sol *solution.Solution, cfg *config.Config) error {
	f, err := os.OpenFile(cfg.SolDetailsFilename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := FprintSolution(f, name, sol, cfg); err != nil {
		return err
	}
	_, err = fmt.Fprintln(f)
	return err
}

// FprintSolution writes a full textual dump of sol to w: the instance name,
// every route with its workers/load/length, then the summary line.
func FprintSolution(w io.Writer, name string, sol *solution.Solution, cfg *config.Config) error {
	if _, err := fmt.Fprintf(w, "%s\n", name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "found best solution after %d seconds\n", int64(sol.Time.Seconds())); err != nil {
		return err
	}
	for _, r := range sol.Routes {
		if err := fprintRoute(w, r); err != nil {
			return err
		}
	}
	cost := sol.Cost(cfg.CostTruck, cfg.CostWorker, cfg.CostDistance)
	_, err := fmt.Fprintf(w, "trucks: %d, workers: %d, distance: %.2f, cost: %.6f\n",
		len(sol.Routes), sol.WorkersCache, sol.DistCache, cost)
	return err
}

func fprintRoute(w io.Writer, r *route.Route) error {
	if _, err := fmt.Fprintf(w, "[%d", r.Nodes.ID); err != nil {
		return err
	}
	for n := r.Nodes.Next; n != r.Tail; n = n.Next {
		if _, err := fmt.Fprintf(w, ", %3d", n.ID); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "]: workers=%d, load=%6.2f, length=%.2f\n",
		r.Workers, r.Load, r.CalcLength())
	return err
}
