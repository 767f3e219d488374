package netlist

import (
	"slices"
)

// FirstUnplaced returns the id of the first unplaced working node.
func (g *Graph) FirstUnplaced() (int, bool) {
	for _, n := range g.nodes {
		if !n.Placed {
			return n.ID, true
		}
	}
	return -1, false
}

// RemoveNode deletes working node id. Edges are left in place, so the
// graph may reference a missing node until the edges are removed or
// [Graph.Reorder] is called.
func (g *Graph) RemoveNode(id int) bool {
	i := g.index(id)
	if i < 0 {
		return false
	}
	g.nodes = slices.Delete(g.nodes, i, i+1)
	return true
}

// EdgeNetOf returns the net id of the first edge touching instance id.
func (g *Graph) EdgeNetOf(id int) (int, bool) {
	for _, e := range g.edges {
		if e.Touches(id) {
			return e.NetID, true
		}
	}
	return -1, false
}

// RemoveEdgeOfNet deletes the first edge on net.
func (g *Graph) RemoveEdgeOfNet(net int) bool {
	i := slices.IndexFunc(g.edges, func(e Edge) bool { return e.NetID == net })
	if i < 0 {
		return false
	}
	g.edges = slices.Delete(g.edges, i, i+1)
	return true
}

// RemoveEdgesOf deletes every edge touching instance id and returns how
// many were removed.
func (g *Graph) RemoveEdgesOf(id int) int {
	before := len(g.edges)
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.Touches(id) })
	return before - len(g.edges)
}

// RemoveUnplaced shrinks the graph to its placed subgraph by deleting
// every unplaced node and the edges touching it. It returns the number of
// nodes and edges removed. Node ids keep their gaps until [Graph.Reorder].
func (g *Graph) RemoveUnplaced() (nodes, edges int) {
	for {
		id, ok := g.FirstUnplaced()
		if !ok {
			return nodes, edges
		}
		g.RemoveNode(id)
		nodes++
		edges += g.RemoveEdgesOf(id)
	}
}

// Reorder renumbers working nodes densely from 0 in ascending id order and
// rewrites edge endpoints and optimal ids to match. Edges with an endpoint
// that is no longer a working node are dropped. The pristine set is
// replaced by the renumbered working set, since the old ids no longer
// match the edges, and cached neighbors are cleared.
func (g *Graph) Reorder() {
	ids := make([]int, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	slices.Sort(ids)
	remap := make(map[int]int, len(ids))
	for j, id := range ids {
		remap[id] = j
	}

	for i := range g.nodes {
		n := &g.nodes[i]
		n.ID = remap[n.ID]
		n.Optimal.ID = n.ID
		n.Neighbors = nil
	}

	kept := g.edges[:0]
	for _, e := range g.edges {
		a, okA := remap[e.Ends[0].ID]
		b, okB := remap[e.Ends[1].ID]
		if !okA || !okB {
			continue
		}
		e.Ends[0].ID, e.Ends[1].ID = a, b
		kept = append(kept, e)
	}
	g.edges = kept
	g.pristine = g.Nodes()
}
