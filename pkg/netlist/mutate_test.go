package netlist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/geom"
)

func TestAddNodeDuplicate(t *testing.T) {
	g := fixture(t)
	err := g.AddNodeFromLine("1,R9,1,1,0,0,0,0,0,2,2,0,1", Long)
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("AddNodeFromLine(duplicate) error = %v, want INVALID_INPUT", err)
	}
	if g.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", g.NodeCount())
	}
}

func TestRemoveAndReorder(t *testing.T) {
	g := fixture(t)
	g.EmbedNeighbors()

	if !g.RemoveNode(2) {
		t.Fatal("RemoveNode(2) = false")
	}
	if g.RemoveNode(2) {
		t.Error("RemoveNode(2) twice = true")
	}
	if err := g.Validate(); !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Errorf("Validate() with dangling edges = %v, want NODE_NOT_FOUND", err)
	}
	if removed := g.RemoveEdgesOf(2); removed != 2 {
		t.Errorf("RemoveEdgesOf(2) = %d, want 2", removed)
	}

	g.Reorder()

	var ids []int
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
		if n.Optimal.ID != n.ID {
			t.Errorf("node %d optimal id = %d", n.ID, n.Optimal.ID)
		}
		if n.Neighbors != nil {
			t.Errorf("node %d neighbors survived Reorder: %v", n.ID, n.Neighbors)
		}
	}
	if want := []int{0, 1, 2}; !equalInts(ids, want) {
		t.Errorf("ids after Reorder = %v, want %v", ids, want)
	}
	if name := g.NodeName(2); name != "J1" {
		t.Errorf("NodeName(2) = %q, want J1", name)
	}
	for _, e := range g.Edges() {
		a, b := e.IDs()
		if a > 2 || b > 2 {
			t.Errorf("edge %v references id beyond the node count", e)
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() after Reorder = %v", err)
	}
	if got := len(g.PristineNodes()); got != 3 {
		t.Errorf("len(PristineNodes()) = %d, want 3", got)
	}
}

func TestReorderDropsDanglingEdges(t *testing.T) {
	g := fixture(t)
	g.RemoveNode(1)
	g.Reorder()

	if got := g.EdgeCount(); got != 4 {
		t.Errorf("EdgeCount() = %d, want 4", got)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestRemoveUnplaced(t *testing.T) {
	g := fixture(t)
	_ = g.Confirm(0)
	_ = g.Confirm(1)

	nodes, edges := g.RemoveUnplaced()
	if nodes != 2 || edges != 3 {
		t.Errorf("RemoveUnplaced() = %d, %d, want 2, 3", nodes, edges)
	}
	if !g.IsDone() {
		t.Error("placed subgraph should be done")
	}
	if got := g.EdgeCount(); got != 3 {
		t.Errorf("EdgeCount() = %d, want 3", got)
	}
}

func TestEdgeNetRemoval(t *testing.T) {
	g := fixture(t)

	net, ok := g.EdgeNetOf(3)
	if !ok || net != 4 {
		t.Errorf("EdgeNetOf(3) = %d, %v, want 4, true", net, ok)
	}
	if !g.RemoveEdgeOfNet(4) {
		t.Fatal("RemoveEdgeOfNet(4) = false")
	}
	if got := g.ComponentsInNet("GND"); got != 2 {
		t.Errorf("ComponentsInNet(GND) after removal = %d, want 2", got)
	}
	if g.RemoveEdgeOfNet(99) {
		t.Error("RemoveEdgeOfNet(99) = true")
	}
	if _, ok := g.EdgeNetOf(99); ok {
		t.Error("EdgeNetOf(99) should miss")
	}
}

func TestUpdateNodeOptimal(t *testing.T) {
	var buf bytes.Buffer
	g := fixture(t)
	g.SetLogger(log.New(&buf))

	if err := g.UpdateNodeOptimal("1,R1,12.5,30"); err != nil {
		t.Fatalf("UpdateNodeOptimal() error = %v", err)
	}
	_ = g.Confirm(1)
	g.Reset()

	n, _ := g.Node(1)
	if n.Optimal.Euclidean != 12.5 || n.Optimal.HPWL != 30 {
		t.Errorf("optimal after Reset = %+v, want 12.5/30", n.Optimal)
	}
	if buf.Len() != 0 {
		t.Errorf("matching name logged %q", buf.String())
	}

	if err := g.UpdateNodeOptimal("1,R7,1,2"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "does not match") {
		t.Errorf("log = %q, want a name mismatch warning", buf.String())
	}

	if err := g.UpdateNodeOptimal("9,X,1,2"); !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Errorf("UpdateNodeOptimal(missing) error = %v, want NODE_NOT_FOUND", err)
	}
	if err := g.UpdateNodeOptimal("1,R1"); !errs.Is(err, errs.ErrCodeMalformedRecord) {
		t.Errorf("UpdateNodeOptimal(short) error = %v, want MALFORMED_RECORD", err)
	}
}

func TestSyncPristineOptimals(t *testing.T) {
	g := fixture(t)
	ref, err := g.NodeRef(2)
	if err != nil {
		t.Fatal(err)
	}
	ref.Optimal.Euclidean = 4
	ref.Optimal.HPWL = 6
	g.SyncPristineOptimals()
	g.Reset()

	if n, _ := g.Node(2); n.Optimal.Euclidean != 4 || n.Optimal.HPWL != 6 {
		t.Errorf("optimal after sync and Reset = %+v", n.Optimal)
	}
	if _, err := g.NodeRef(9); !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Errorf("NodeRef(9) error = %v, want NODE_NOT_FOUND", err)
	}
}

func TestNormalize(t *testing.T) {
	g := fixture(t)
	g.Normalize()

	e := g.Edges()[0]
	p := e.Ends[0]
	if p.PadSize != (geom.Point{X: 0.125, Y: 0.25}) {
		t.Errorf("PadSize = %v, want {0.125 0.25}", p.PadSize)
	}
	if p.PadPos != (geom.Point{X: -0.5, Y: 0}) {
		t.Errorf("PadPos = %v, want {-0.5 0}", p.PadPos)
	}
}

func TestLargest(t *testing.T) {
	g := fixture(t)
	if g.LargestX() != 4 || g.LargestY() != 3 {
		t.Errorf("LargestX/Y = %v/%v, want 4/3", g.LargestX(), g.LargestY())
	}
	if got := g.LargestAreaSize(); got != (geom.Point{X: 3, Y: 3}) {
		t.Errorf("LargestAreaSize() = %v, want {3 3}", got)
	}
	if g.MaxPins() != 8 {
		t.Errorf("MaxPins() = %d, want 8", g.MaxPins())
	}
}

func TestFormatLines(t *testing.T) {
	g := fixture(t)
	if line, ok := g.FormatNodeLine(0); !ok || line != "0,U1,4,2,10,10,0,0,0,8,8,0,3" {
		t.Errorf("FormatNodeLine(0) = %q, %v", line, ok)
	}
	if line, ok := g.FormatEdgeLine(3); !ok || line != "0,3,4,0.5,0.5,0,-1,0,3,0,1,0.5,0.5,0,0,0,4,GND,1" {
		t.Errorf("FormatEdgeLine(3) = %q, %v", line, ok)
	}
	if line, ok := g.FormatOptimalLine(0); !ok || line != "-1,NULL,1000000,1000000" {
		t.Errorf("FormatOptimalLine(0) = %q, %v", line, ok)
	}
	if _, ok := g.FormatEdgeLine(6); ok {
		t.Error("FormatEdgeLine(6) should miss")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
