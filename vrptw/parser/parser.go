// Package parser reads Solomon-format VRPTWMS instance files into
// geom.Instance values ready for geom.BuildMatrices.
//
// The format (unchanged from Solomon's original VRPTW benchmark set) is
// whitespace-separated columns with a 9-line header:
//
//	line 1: instance name
//	line 2-4: blank / section headers
//	line 5: vehicle count and capacity ("<num_vehicles> <capacity>")
//	line 6-9: blank / section headers
//	line 10+: one row per node (depot first):
//	  <id> <x> <y> <demand> <est> <lst> <service_time>
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vrptwms/solver/vrptw/geom"
)

// skipRows is the number of header lines preceding the first node row.
const skipRows = 9

// capacityLine is the 1-indexed line holding "<num_vehicles> <capacity>".
const capacityLine = 5

// ErrTruncated indicates the file ended before a declared/implied row.
var ErrTruncated = errors.New("parser: truncated instance file")

// ErrMalformedRow indicates a node row didn't have the expected column count.
var ErrMalformedRow = errors.New("parser: malformed node row")

// Name returns fname's base name with its extension stripped, used as the
// problem's display name.
func Name(fname string) string {
	base := filepath.Base(fname)
	if dot := strings.LastIndex(base, "."); dot >= 0 {
		return base[:dot]
	}
	return base
}

// Parse reads a Solomon-format instance from fname.
func Parse(fname string) (*geom.Instance, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	inst, err := Read(f)
	if err != nil {
		return nil, err
	}
	inst.Name = Name(fname)
	return inst, nil
}

// Read parses a Solomon-format instance from r. The returned Instance's Name
// is left empty; callers reading from a named file should use Parse, or set
// Name themselves.
func Read(r io.Reader) (*geom.Instance, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) <= capacityLine-1 {
		return nil, ErrTruncated
	}

	capFields := strings.Fields(lines[capacityLine-1])
	if len(capFields) < 2 {
		return nil, fmt.Errorf("%w: capacity line", ErrMalformedRow)
	}
	capacity, err := strconv.ParseFloat(capFields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("parser: capacity: %w", err)
	}

	var nodes []geom.Node
	for i := skipRows; i < len(lines); i++ {
		fields := strings.Fields(lines[i])
		if len(fields) == 0 {
			continue // Solomon files sometimes end in a trailing blank line.
		}
		if len(fields) != 7 {
			return nil, fmt.Errorf("%w: line %d has %d fields, want 7", ErrMalformedRow, i+1, len(fields))
		}
		n, perr := parseNode(fields)
		if perr != nil {
			return nil, fmt.Errorf("parser: line %d: %w", i+1, perr)
		}
		nodes = append(nodes, n)
	}
	if len(nodes) == 0 {
		return nil, ErrTruncated
	}

	return &geom.Instance{Capacity: capacity, Nodes: nodes}, nil
}

func parseNode(fields []string) (geom.Node, error) {
	var n geom.Node
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return n, err
	}
	vals := make([]float64, 6)
	for i, f := range fields[1:] {
		v, ferr := strconv.ParseFloat(f, 64)
		if ferr != nil {
			return n, ferr
		}
		vals[i] = v
	}
	n.ID = id
	n.X, n.Y = vals[0], vals[1]
	n.Demand = vals[2]
	n.Est, n.Lst = vals[3], vals[4]
	n.ServiceTime = vals[5]
	return n, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
