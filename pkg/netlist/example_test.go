package netlist_test

import (
	"fmt"

	"github.com/matzehuels/pcbgraph/pkg/geom"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

func ExampleGraph_NeighborTally() {
	// A is joined to B by two pads and to C by one.
	g := netlist.New("demo")
	_ = g.AddNodeFromLine("0,A,2,2,0,0,0,0,0,3,3,0,0", netlist.Long)
	_ = g.AddNodeFromLine("1,B,1,1,5,0,0,0,0,2,2,0,0", netlist.Long)
	_ = g.AddNodeFromLine("2,C,1,1,0,5,0,0,0,1,1,0,0", netlist.Long)
	_ = g.AddEdgeFromLine("0,0,1,0.2,0.2,0,0,0,1,0,1,0.2,0.2,0,0,0,1,N1,0", netlist.Long)
	_ = g.AddEdgeFromLine("0,1,2,0.2,0.2,0,0,0,1,1,2,0.2,0.2,0,0,0,2,N2,0", netlist.Long)
	_ = g.AddEdgeFromLine("0,2,3,0.2,0.2,0,0,0,2,0,1,0.2,0.2,0,0,0,3,N3,0", netlist.Long)

	for _, t := range g.NeighborTally(0, 0) {
		fmt.Printf("%s shares %d edges\n", g.NodeName(t.ID), t.Count)
	}
	// Output:
	// B shares 2 edges
	// C shares 1 edges
}

func ExampleGraph_HPWLOfNet() {
	g := netlist.New("demo")
	_ = g.AddNodeFromLine("0,A,1,1,0,0,0,0,1,1,1,0,0", netlist.Long)
	_ = g.AddNodeFromLine("1,B,1,1,3,4,0,0,1,1,1,0,0", netlist.Long)
	_ = g.AddEdgeFromLine("0,0,1,0.2,0.2,0,0,1,1,0,1,0.2,0.2,0,0,1,7,CLK,0", netlist.Long)

	hpwl, ok := g.HPWLOfNet(7, false)
	fmt.Println(hpwl, ok)
	// Output:
	// 7 true
}

func ExampleGraph_Update() {
	g := netlist.New("demo")
	_ = g.AddNodeFromLine("0,U1,4,2,0,0,0,0,0,8,8,0,3", netlist.Long)
	_ = g.AddNodeFromLine("1,U2,4,2,0,0,0,0,0,8,8,0,3", netlist.Long)

	_ = g.Update(0, geom.Point{X: 12, Y: 8})
	fmt.Printf("%.0f%% placed\n", 100*g.CompletionRatio())

	g.Reset()
	fmt.Printf("%.0f%% placed after reset\n", 100*g.CompletionRatio())
	// Output:
	// 50% placed
	// 0% placed after reset
}
