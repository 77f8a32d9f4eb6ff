package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// LoadFile reads a simple "key = value" configuration file into cfg,
// overriding only the keys present in the file; cfg should already hold
// DefaultConfig() before calling this. Lines starting with '#' and blank
// lines are ignored. Booleans accept true/false/1/0; the original's
// libconfuse-based format otherwise maps key-for-key onto Config's fields
// (see config.h's CFG_SIMPLE_* declarations).
//
// Complexity: O(lines).
func LoadFile(r io.Reader, cfg *Config) error {
	scanner := bufio.NewScanner(r)
	var lineNo int
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := splitKV(line)
		if err != nil {
			return fmt.Errorf("config: line %d: %w", lineNo, err)
		}
		if err := cfg.set(key, value); err != nil {
			return fmt.Errorf("config: line %d (%s): %w", lineNo, key, err)
		}
	}
	return scanner.Err()
}

func splitKV(line string) (key, value string, err error) {
	if idx := strings.Index(line, "="); idx >= 0 {
		return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), nil
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", "", ErrMalformedLine
	}
	return fields[0], fields[1], nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("config: %q is not a boolean", v)
	}
}

// set assigns value (already unquoted/trimmed) to the field named by key.
func (c *Config) set(key, value string) error {
	switch key {
	case "adapt_service_times":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.AdaptServiceTimes = b
	case "alpha":
		return c.setFloat(&c.Alpha, value)
	case "mu":
		return c.setFloat(&c.Mu, value)
	case "lambda":
		return c.setFloat(&c.Lambda, value)
	case "ants":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		c.Ants = n
		c.AntsDynamic = n == 0
	case "best_moves":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.BestMoves = b
	case "cost_truck":
		return c.setFloat(&c.CostTruck, value)
	case "cost_worker":
		return c.setFloat(&c.CostWorker, value)
	case "cost_distance":
		return c.setFloat(&c.CostDistance, value)
	case "deterministic":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.Deterministic = b
	case "do_ls":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.DoLS = b
	case "format":
		switch value {
		case "human":
			c.Format = Human
		case "csv":
			c.Format = CSV
		default:
			return ErrUnknownOutputFormat
		}
	case "initial_pheromone":
		return c.setFloat(&c.InitialPheromone, value)
	case "min_pheromone":
		return c.setFloat(&c.MinPheromone, value)
	case "rho":
		return c.setFloat(&c.Rho, value)
	case "max_failed_attempts":
		return c.setInt64(&c.MaxFailedAttempts, value)
	case "max_iterations":
		return c.setInt64(&c.MaxIterations, value)
	case "max_move":
		return c.setInt64(&c.MaxMove, value)
	case "max_optimize":
		return c.setInt64(&c.MaxOptimize, value)
	case "max_swap":
		return c.setInt64(&c.MaxSwap, value)
	case "max_workers":
		return c.setInt64(&c.MaxWorkers, value)
	case "metaheuristic":
		switch value {
		case "none":
			c.Metaheuristic = NoMetaheuristic
		case "aco":
			c.Metaheuristic = ACO
		case "cached_aco":
			c.Metaheuristic = CachedACO
		case "cached_grasp":
			c.Metaheuristic = CachedGRASP
		case "gaco":
			c.Metaheuristic = GACO
		case "grasp":
			c.Metaheuristic = GRASP
		case "vns":
			c.Metaheuristic = VNS
		case "ts":
			c.Metaheuristic = TS
		default:
			return ErrUnknownMetaheuristic
		}
	case "parallel":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.Parallel = b
	case "rcl_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		c.RCLSize = n
	case "runtime":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		c.RunTime = time.Duration(n) * time.Second
	case "service_rate":
		return c.setFloat(&c.ServiceRate, value)
	case "sol_details_filename":
		c.SolDetailsFilename = value
	case "start_heuristic":
		switch value {
		case "solomon":
			c.StartHeuristic = Solomon
		case "solomon-mr":
			c.StartHeuristic = SolomonMR
		case "parallel":
			c.StartHeuristic = Parallel
		default:
			return ErrUnknownStartHeuristic
		}
	case "stats_filename":
		c.StatsFilename = value
	case "tabutime":
		return c.setInt64(&c.Tabutime, value)
	case "truck_velocity":
		return c.setFloat(&c.TruckVelocity, value)
	case "use_weights":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.UseWeights = b
	case "verbosity":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		c.Verbosity = Verbosity(n)
	default:
		return ErrUnknownKey
	}
	return nil
}

func (c *Config) setFloat(dst *float64, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func (c *Config) setInt64(dst *int64, value string) error {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
