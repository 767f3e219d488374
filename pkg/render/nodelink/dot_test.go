package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

func testGraph(t *testing.T) *netlist.Graph {
	t.Helper()
	g := netlist.New("dot")
	for _, l := range []string{
		"0,U1,4,2,10,10,0,0,1,8,8,0,3",
		"1,R1,2,1,20,10,0,0,0,2,2,0,1",
		"2,,1,1,10,20,90,0,0,2,2,0,0",
	} {
		if err := g.AddNodeFromLine(l, netlist.Long); err != nil {
			t.Fatal(err)
		}
	}
	for _, l := range []string{
		"0,0,1,0.5,0.5,-1,0,1,1,0,1,0.5,0.5,-1,0,0,1,SIG_A,0",
		"0,1,2,0.5,0.5,1,0.4,1,1,1,2,0.5,0.5,1,0.2,0,2,SIG_B,0",
		"0,2,3,0.5,0.5,0,1,1,2,0,1,0.5,0.5,0.5,0,0,3,\"GND\",1",
	} {
		if err := g.AddEdgeFromLine(l, netlist.Long); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestPowerRailDOT(t *testing.T) {
	dot := PowerRailDOT(testGraph(t), 0, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("PowerRailDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `label="power_rail: 0"`) {
		t.Error("PowerRailDOT() output missing title")
	}
	if n := strings.Count(dot, `"U1" -> "R1" [dir=none]`); n != 1 {
		t.Errorf("U1-R1 edge count = %d, want 1", n)
	}
	if strings.Contains(dot, "GND") {
		t.Error("PowerRailDOT(0) should not include rail 1 edges")
	}
}

func TestPowerRailDOT_Detailed(t *testing.T) {
	dot := PowerRailDOT(testGraph(t), 0, Options{Detailed: true})
	if !strings.Contains(dot, `U1\nid: 0\nsize: 4x2`) {
		t.Errorf("detailed output missing U1 label:\n%s", dot)
	}
	if !strings.Contains(dot, "fillcolor=lightgrey") {
		t.Error("detailed output should fill the placed component")
	}
}

func TestNetDOT(t *testing.T) {
	dot := NetDOT(testGraph(t), 3, Options{})
	if !strings.Contains(dot, `label="net_id: 3,GND"`) {
		t.Errorf("NetDOT() title missing or quotes not stripped:\n%s", dot)
	}
	// C1 has no name and falls back to its id.
	if !strings.Contains(dot, `"U1" -> "2"`) {
		t.Errorf("NetDOT() missing edge to unnamed component:\n%s", dot)
	}
}

func TestInstanceDOT(t *testing.T) {
	dot := InstanceDOT(testGraph(t), 1, 0, Options{})
	if !strings.Contains(dot, `label="inst_id: 1,R1"`) {
		t.Error("InstanceDOT() missing title")
	}
	if !strings.Contains(dot, `"U1" -> "R1"`) {
		t.Error("InstanceDOT() missing edge")
	}
}

func TestInstancePadsDOT(t *testing.T) {
	dot := InstancePadsDOT(testGraph(t), 1, 0)
	for _, want := range []string{
		`"R1_1" [color=chocolate`,
		`"R1_2" [color=chocolate`,
		`"U1_1" -> "R1_1" [dir=none]`,
		`"U1_2" -> "R1_2" [dir=none]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("InstancePadsDOT() missing %s", want)
		}
	}
	if strings.Contains(dot, `"U1_1" [color`) {
		t.Error("InstancePadsDOT() should only highlight pads of the instance")
	}
}

func TestGML(t *testing.T) {
	gml := GML(testGraph(t), 0)
	if !strings.HasPrefix(gml, "graph\n[\n") || !strings.HasSuffix(gml, "]\n") {
		t.Errorf("GML() framing wrong:\n%s", gml)
	}
	if n := strings.Count(gml, "\tnode\n"); n != 2 {
		t.Errorf("node count = %d, want 2", n)
	}
	if n := strings.Count(gml, "\tedge\n"); n != 1 {
		t.Errorf("edge count = %d, want 1", n)
	}
	if !strings.Contains(gml, "\t\tlabel\t\"R1\"") {
		t.Error("GML() missing R1 label")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	svg := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00"><g/></svg>`)
	got := string(normalizeViewBox(svg))
	if !strings.Contains(got, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}
	if plain := []byte("<svg><g/></svg>"); string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() changed an svg without viewBox")
	}
}
