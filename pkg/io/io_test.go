package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pcbgraph/pkg/board"
	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

const (
	nodesText = `0,U1,4,2,10,10,0,0,0,8,8,0,3

1,R1,2,1,20,10,90,0,1,2,2,0,1
`
	edgesText = `0,0,1,0.5,0.5,-1,0,0,1,0,1,0.5,0.5,-1,0,1,1,SIG_A,0
0,1,2,0.5,0.5,1,0.4,0,1,1,2,0.5,0.5,1,0.2,1,2,GND,1
`
	optimalsText = "1,R1,3.5,12\n"
	boardText    = "bb_min_x,0.00000000\nbb_min_y,0.00000000\nbb_max_x,50.00000000\nbb_max_y,40.00000000\n"
)

func writeDesign(t *testing.T, files map[string]string) Paths {
	t.Helper()
	dir := t.TempDir()
	p := PathsFor(dir, "amp")
	for ext, body := range files {
		if err := os.WriteFile(filepath.Join(dir, "amp"+ext), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return p
}

func TestReadNodes(t *testing.T) {
	nodes, err := ReadNodes(strings.NewReader(nodesText), netlist.Long)
	if err != nil {
		t.Fatalf("ReadNodes() error = %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("len(nodes) = %d, want 2", len(nodes))
	}
	if nodes[1].Name != "R1" || !nodes[1].Placed || nodes[1].Orientation != 90 {
		t.Errorf("nodes[1] = %+v", nodes[1])
	}
}

func TestReadNodesMalformedLine(t *testing.T) {
	_, err := ReadNodes(strings.NewReader("0,U1,4,2,10,10,0,0,0,8,8,0,3\n\n0,U2,4\n"), netlist.Long)
	if !errs.Is(err, errs.ErrCodeMalformedRecord) {
		t.Fatalf("error = %v, want MALFORMED_RECORD", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error = %q, want it to name line 3", err)
	}
}

func TestReadBoard(t *testing.T) {
	b, err := ReadBoard(strings.NewReader(boardText))
	if err != nil {
		t.Fatal(err)
	}
	if b.MaxX != 50 || b.MaxY != 40 {
		t.Errorf("board = %+v, want max 50x40", b)
	}
	if _, err := ReadBoard(strings.NewReader("bb_depth,1\n")); err == nil {
		t.Error("ReadBoard(unknown key) should fail")
	}
}

func TestWriteRecordsPrecision(t *testing.T) {
	var buf bytes.Buffer
	o := netlist.NewOptimal()
	n := netlist.Node{ID: 3, Name: "Q1", Layer: 1, Type: 2, Optimal: o}
	if err := WriteOptimals(&buf, []netlist.Node{n}); err != nil {
		t.Fatal(err)
	}
	want := "3,Q1,1000000.00000000,1000000.00000000\n"
	if buf.String() != want {
		t.Errorf("WriteOptimals() = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := WriteNodes(&buf, []netlist.Node{n}); err != nil {
		t.Fatal(err)
	}
	want = "3,Q1,0.00000000,0.00000000,0.00000000,0.00000000,0.00000000,1,0,0,0,0,2\n"
	if buf.String() != want {
		t.Errorf("WriteNodes() = %q, want %q", buf.String(), want)
	}
}

func TestLoadGraph(t *testing.T) {
	p := writeDesign(t, map[string]string{
		ExtNodes: nodesText, ExtEdges: edgesText, ExtOptimals: optimalsText, ExtBoard: boardText,
	})

	g, b, err := LoadGraph(p, netlist.Long)
	if err != nil {
		t.Fatalf("LoadGraph() error = %v", err)
	}
	if g.Name != "amp" || g.NodeCount() != 2 || g.EdgeCount() != 2 {
		t.Errorf("graph = %s with %d nodes, %d edges", g.Name, g.NodeCount(), g.EdgeCount())
	}
	if n, _ := g.Node(1); n.Optimal.Euclidean != 3.5 || n.Optimal.HPWL != 12 {
		t.Errorf("optimal = %+v, want 3.5/12", n.Optimal)
	}
	if b.Name != "amp" || b.Width() != 50 {
		t.Errorf("board = %+v", b)
	}
}

func TestLoadGraphOptionalFiles(t *testing.T) {
	p := writeDesign(t, map[string]string{ExtNodes: nodesText, ExtEdges: edgesText})
	g, b, err := LoadGraph(p, netlist.Long)
	if err != nil {
		t.Fatalf("LoadGraph() error = %v", err)
	}
	if g.NodeCount() != 2 || b != (board.Board{}) {
		t.Errorf("nodes = %d, board = %+v", g.NodeCount(), b)
	}
}

func TestLoadGraphErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		code  errs.Code
	}{
		{"MissingEdges", map[string]string{ExtNodes: nodesText}, errs.ErrCodeFileNotFound},
		{"DanglingEdge", map[string]string{ExtNodes: "0,U1,4,2,10,10,0,0,0,8,8,0,3\n", ExtEdges: edgesText}, errs.ErrCodeNodeNotFound},
		{"UnknownOptimal", map[string]string{ExtNodes: nodesText, ExtEdges: edgesText, ExtOptimals: "7,X,1,1\n"}, errs.ErrCodeNodeNotFound},
		{"MalformedEdge", map[string]string{ExtNodes: nodesText, ExtEdges: "0,1\n"}, errs.ErrCodeMalformedRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadGraph(writeDesign(t, tt.files), netlist.Long)
			if !errs.Is(err, tt.code) {
				t.Errorf("LoadGraph() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSaveGraphRoundTrip(t *testing.T) {
	p := writeDesign(t, map[string]string{
		ExtNodes: nodesText, ExtEdges: edgesText, ExtOptimals: optimalsText, ExtBoard: boardText,
	})
	g, b, err := LoadGraph(p, netlist.Long)
	if err != nil {
		t.Fatal(err)
	}

	out := PathsFor(t.TempDir(), "amp")
	if err := SaveGraph(out, g, b); err != nil {
		t.Fatalf("SaveGraph() error = %v", err)
	}
	g2, b2, err := LoadGraph(out, netlist.Long)
	if err != nil {
		t.Fatalf("LoadGraph(saved) error = %v", err)
	}
	for i, n := range g.Nodes() {
		m := g2.Nodes()[i]
		if n.ID != m.ID || n.Name != m.Name || n.Pos != m.Pos || n.Placed != m.Placed || n.Optimal.HPWL != m.Optimal.HPWL {
			t.Errorf("node %d = %+v, want %+v", i, m, n)
		}
	}
	if b2 != b {
		t.Errorf("board = %+v, want %+v", b2, b)
	}
}

func TestDiscover(t *testing.T) {
	p := writeDesign(t, map[string]string{ExtNodes: nodesText, ExtEdges: edgesText})
	dir := filepath.Dir(p.Nodes)

	for _, arg := range []string{dir, p.Nodes, strings.TrimSuffix(p.Nodes, ExtNodes)} {
		got, err := Discover(arg)
		if err != nil {
			t.Fatalf("Discover(%q) error = %v", arg, err)
		}
		if got != p {
			t.Errorf("Discover(%q) = %+v, want %+v", arg, got, p)
		}
	}

	if _, err := Discover(t.TempDir()); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("Discover(empty dir) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	p := writeDesign(t, map[string]string{ExtNodes: nodesText, ExtEdges: edgesText, ExtOptimals: optimalsText})
	g, _, err := LoadGraph(p, netlist.Long)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	g2, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	for i, n := range g.Nodes() {
		m := g2.Nodes()[i]
		if n.Record(netlist.Long, -1) != m.Record(netlist.Long, -1) {
			t.Errorf("node %d = %s, want %s", i, m, n)
		}
	}
	for i, e := range g.Edges() {
		if got := g2.Edges()[i]; got != e {
			t.Errorf("edge %d = %s, want %s", i, got, e)
		}
	}
	if n, _ := g2.Node(1); n.Optimal.HPWL != 12 {
		t.Errorf("optimal HPWL = %v, want 12", n.Optimal.HPWL)
	}
	if n, _ := g2.Node(0); !n.Optimal.HPWLUnset() {
		t.Errorf("node 0 optimal = %+v, want unset", n.Optimal)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errs.Code
	}{
		{"Syntax", `{"nodes": [`, errs.ErrCodeInvalidFormat},
		{"Version", `{"name": "x", "version": "0.0.1", "nodes": [], "edges": []}`, errs.ErrCodeUnsupported},
		{"Duplicate", `{"nodes": [{"id": 1}, {"id": 1}], "edges": []}`, errs.ErrCodeInvalidInput},
		{"Dangling", `{"nodes": [{"id": 0}], "edges": [{"a": {"id": 0}, "b": {"id": 4}}]}`, errs.ErrCodeNodeNotFound},
		{"NodeNameComma", `{"nodes": [{"id": 0, "name": "R,1"}], "edges": []}`, errs.ErrCodeInvalidInput},
		{"NodeNamePadded", `{"nodes": [{"id": 0, "name": " R1 "}], "edges": []}`, errs.ErrCodeInvalidInput},
		{"NetNameComma", `{"nodes": [{"id": 0}, {"id": 1}], "edges": [{"a": {"id": 0}, "b": {"id": 1}, "net_name": "a,b"}]}`, errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errs.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want %s", err, tt.code)
			}
		})
	}
}
