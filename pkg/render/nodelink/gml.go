package nodelink

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

// GML writes the component pairs joined on rail as a GML graph. Nodes are
// the components that appear in at least one pair, in ascending id order.
func GML(g *netlist.Graph, rail int) string {
	links := g.EdgesByPowerRail(rail)

	var ids []int
	for _, l := range links {
		ids = append(ids, l.A, l.B)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	var buf bytes.Buffer
	buf.WriteString("graph\n[\n")
	for _, id := range ids {
		fmt.Fprintf(&buf, "\tnode\n\t[\n\t\tid\t%d\n\t\tlabel\t%q\n\t]\n", id, g.NodeName(id))
	}
	for _, l := range links {
		fmt.Fprintf(&buf, "\tedge\n\t[\n\t\tsource\t%d\n\t\ttarget\t%d\n\t]\n", l.A, l.B)
	}
	buf.WriteString("]\n")
	return buf.String()
}
