package netlist

import (
	"math"
	"strings"
	"testing"
)

// Four components: U1 joined to R1 by two signal nets, to C1 by one, a
// ground rail shared by U1, C1 and J1, and a test-point self-loop on U1.
const fixtureNodes = `0,U1,4,2,10,10,0,0,0,8,8,0,3
1,R1,2,1,20,10,0,0,0,2,2,0,1
2,C1,1,1,10,20,90,0,0,2,2,0,0
3,J1,3,3,0,0,0,0,0,2,0,2,5`

const fixtureEdges = `0,0,1,0.5,0.5,-1,0,0,1,0,1,0.5,0.5,-1,0,0,1,SIG_A,0
0,1,2,0.5,0.5,1,0.4,0,1,1,2,0.5,0.5,1,0.2,0,2,SIG_B,0
0,2,3,0.5,0.5,0,1,0,2,0,1,0.5,0.5,0.5,0,0,3,SIG_C,0
0,3,4,0.5,0.5,0,-1,0,3,0,1,0.5,0.5,0,0,0,4,GND,1
2,1,2,0.5,0.5,-0.5,0,0,3,1,2,0.5,0.5,1,0,0,4,GND,1
0,4,5,0.5,0.5,1,1,0,0,5,6,0.5,0.5,1,-1,0,5,TP,0`

func fixture(t *testing.T) *Graph {
	t.Helper()
	g := New("fixture")
	for _, line := range strings.Split(fixtureNodes, "\n") {
		if err := g.AddNodeFromLine(line, Long); err != nil {
			t.Fatalf("AddNodeFromLine(%q) error = %v", line, err)
		}
	}
	for _, line := range strings.Split(fixtureEdges, "\n") {
		if err := g.AddEdgeFromLine(line, Long); err != nil {
			t.Fatalf("AddEdgeFromLine(%q) error = %v", line, err)
		}
	}
	return g
}

func placeAll(t *testing.T, g *Graph) {
	t.Helper()
	for _, n := range g.Nodes() {
		if err := g.Update(n.ID, n.Pos); err != nil {
			t.Fatalf("Update(%d) error = %v", n.ID, err)
		}
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
