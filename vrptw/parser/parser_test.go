package parser_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vrptwms/solver/vrptw/parser"
)

const sampleInstance = `TEST INSTANCE

VEHICLE
NUMBER     CAPACITY
  3         200

CUSTOMER
CUST NO.  XCOORD.  YCOORD.  DEMAND  READY TIME  DUE DATE  SERVICE TIME

    0      40       50        0         0        1000          0
    1      45       68       10       912        967         90
    2      45       70       30        0        1000          90
`

func TestReadParsesCapacityAndNodes(t *testing.T) {
	inst, err := parser.Read(strings.NewReader(sampleInstance))
	require.NoError(t, err)
	require.Equal(t, 200.0, inst.Capacity)
	require.Len(t, inst.Nodes, 3)

	require.Equal(t, 0, inst.Nodes[0].ID)
	require.Equal(t, 40.0, inst.Nodes[0].X)
	require.Equal(t, 50.0, inst.Nodes[0].Y)
	require.Equal(t, 1000.0, inst.Nodes[0].Lst)

	require.Equal(t, 1, inst.Nodes[1].ID)
	require.Equal(t, 10.0, inst.Nodes[1].Demand)
	require.Equal(t, 912.0, inst.Nodes[1].Est)
	require.Equal(t, 967.0, inst.Nodes[1].Lst)
	require.Equal(t, 90.0, inst.Nodes[1].ServiceTime)
}

func TestReadRejectsTruncatedFile(t *testing.T) {
	_, err := parser.Read(strings.NewReader("only\nfour\nlines\nhere\n"))
	require.ErrorIs(t, err, parser.ErrTruncated)
}

func TestReadRejectsMalformedRow(t *testing.T) {
	broken := sampleInstance + "    3      10       10\n"
	_, err := parser.Read(strings.NewReader(broken))
	require.ErrorIs(t, err, parser.ErrMalformedRow)
}

func TestNameStripsExtension(t *testing.T) {
	require.Equal(t, "c101", parser.Name("/data/instances/c101.txt"))
	require.Equal(t, "c101", parser.Name("c101"))
}

func TestParseReadsFileAndSetsName(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/c101.txt"
	require.NoError(t, os.WriteFile(path, []byte(sampleInstance), 0o644))

	inst, err := parser.Parse(path)
	require.NoError(t, err)
	require.Equal(t, "c101", inst.Name)
	require.Len(t, inst.Nodes, 3)
}
