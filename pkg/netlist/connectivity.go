package netlist

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/pcbgraph/pkg/geom"
)

// AllRails selects edges of every power rail in [Graph.Nets].
const AllRails = -1

// Tally is a neighbor id and the number of edges shared with it.
type Tally struct {
	ID    int
	Count int
}

// Link is the pair of instance ids of an edge, in record order.
type Link struct {
	A, B int
}

// AreaRank is an instance id and its footprint area.
type AreaRank struct {
	ID   int
	Area float64
}

// PadAverage is the mean pad-local offset on both sides of the edges that
// join instance ID to NeighborID.
type PadAverage struct {
	ID         int
	Parent     geom.Point
	NeighborID int
	Neighbor   geom.Point
}

// tally counts ids in first-encountered order and sorts by descending
// count. Ties keep their first-encountered order.
func tally(ids []int) []Tally {
	var out []Tally
	pos := make(map[int]int)
	for _, id := range ids {
		if i, ok := pos[id]; ok {
			out[i].Count++
			continue
		}
		pos[id] = len(out)
		out = append(out, Tally{ID: id, Count: 1})
	}
	slices.SortStableFunc(out, func(a, b Tally) int { return cmp.Compare(b.Count, a.Count) })
	return out
}

// NeighborTally returns the neighbors of instance id over edges on the
// given power rail, ranked by the number of shared edges. Self-loops are
// ignored. The result is empty if id does not exist.
func (g *Graph) NeighborTally(id, rail int) []Tally {
	if g.index(id) < 0 {
		return nil
	}
	var ids []int
	for _, e := range g.edges {
		if e.SelfLoop() || e.PowerRail != rail {
			continue
		}
		if e.Ends[0].ID == id {
			ids = append(ids, e.Ends[1].ID)
		}
		if e.Ends[1].ID == id {
			ids = append(ids, e.Ends[0].ID)
		}
	}
	return tally(ids)
}

// EmbedNeighbors caches the signal-net neighbor tally on every working
// node. The cache is derived from the edge list; call it again after
// editing edges or renumbering nodes.
func (g *Graph) EmbedNeighbors() {
	for i := range g.nodes {
		g.nodes[i].Neighbors = g.NeighborTally(g.nodes[i].ID, 0)
	}
}

// ConnectivityList counts, for every working node, the edge endpoints on
// the given rail that belong to it. Self-loops count twice. The result is
// sorted by descending count, ties in node order.
func (g *Graph) ConnectivityList(rail int) []Tally {
	out := make([]Tally, 0, len(g.nodes))
	for _, n := range g.nodes {
		c := 0
		for _, e := range g.edges {
			if e.PowerRail != rail {
				continue
			}
			for _, p := range e.Ends {
				if p.ID == n.ID {
					c++
				}
			}
		}
		out = append(out, Tally{ID: n.ID, Count: c})
	}
	slices.SortStableFunc(out, func(a, b Tally) int { return cmp.Compare(b.Count, a.Count) })
	return out
}

// AreaList ranks working nodes by descending area, ties in node order.
// Nodes with a non-positive dimension are logged.
func (g *Graph) AreaList() []AreaRank {
	out := make([]AreaRank, 0, len(g.nodes))
	for _, n := range g.nodes {
		if n.Degenerate() {
			g.logger.Warn("component has a non-positive dimension", "id", n.ID, "name", n.Name, "size", n.Size)
		}
		out = append(out, AreaRank{ID: n.ID, Area: n.Area()})
	}
	slices.SortStableFunc(out, func(a, b AreaRank) int { return cmp.Compare(b.Area, a.Area) })
	return out
}

// NeighborIDs returns the sorted, distinct ids of instances sharing an
// edge on the given rail with id. With ignoreSelfLoops false, id is its
// own neighbor when it has a self-loop.
func (g *Graph) NeighborIDs(id, rail int, ignoreSelfLoops bool) []int {
	if g.index(id) < 0 {
		return nil
	}
	seen := make(map[int]bool)
	for _, e := range g.edges {
		if e.PowerRail != rail || (ignoreSelfLoops && e.SelfLoop()) {
			continue
		}
		for i, p := range e.Ends {
			if p.ID == id {
				seen[e.Ends[1-i].ID] = true
			}
		}
	}
	return sortedKeys(seen)
}

// NetsOfInstance returns the sorted ids of nets on the given rail that
// have a pad on instance id.
func (g *Graph) NetsOfInstance(id, rail int) []int {
	seen := make(map[int]bool)
	for _, e := range g.edges {
		if e.PowerRail == rail && e.Touches(id) {
			seen[e.NetID] = true
		}
	}
	return sortedKeys(seen)
}

// AveragePadPositions returns, for every cached neighbor of id (see
// [Graph.EmbedNeighbors]), the mean pad-local offsets of the signal edges
// joining the two instances. The result is empty for a node without
// cached neighbors and nil if id does not exist.
func (g *Graph) AveragePadPositions(id int) []PadAverage {
	i := g.index(id)
	if i < 0 {
		return nil
	}
	neighbors := g.nodes[i].Neighbors
	out := make([]PadAverage, 0, len(neighbors))
	for _, nb := range neighbors {
		avg := PadAverage{ID: id, NeighborID: nb.ID}
		for _, e := range g.edges {
			if !e.Signal() {
				continue
			}
			for k := range 2 {
				if e.Ends[k].ID == id && e.Ends[1-k].ID == nb.ID {
					avg.Parent = avg.Parent.Add(e.Ends[k].PadPos)
					avg.Neighbor = avg.Neighbor.Add(e.Ends[1-k].PadPos)
				}
			}
		}
		if nb.Count > 0 {
			c := float64(nb.Count)
			avg.Parent = geom.Point{X: avg.Parent.X / c, Y: avg.Parent.Y / c}
			avg.Neighbor = geom.Point{X: avg.Neighbor.X / c, Y: avg.Neighbor.Y / c}
		}
		out = append(out, avg)
	}
	return out
}

// EdgesByPowerRail returns the distinct instance pairs of edges on rail.
func (g *Graph) EdgesByPowerRail(rail int) []Link {
	return g.links(func(e Edge) bool { return e.PowerRail == rail })
}

// EdgesByNet returns the distinct instance pairs of edges on net.
func (g *Graph) EdgesByNet(net int) []Link {
	return g.links(func(e Edge) bool { return e.NetID == net })
}

// EdgesByInstance returns the distinct instance pairs of edges on rail that
// touch instance id.
func (g *Graph) EdgesByInstance(id, rail int) []Link {
	return g.links(func(e Edge) bool { return e.PowerRail == rail && e.Touches(id) })
}

// AllEdgesOfInstance returns every edge on rail that touches instance id,
// parallel edges included.
func (g *Graph) AllEdgesOfInstance(id, rail int) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.PowerRail == rail && e.Touches(id) {
			out = append(out, e)
		}
	}
	return out
}

func (g *Graph) links(keep func(Edge) bool) []Link {
	seen := make(map[Link]bool)
	var out []Link
	for _, e := range g.edges {
		if !keep(e) {
			continue
		}
		l := Link{A: e.Ends[0].ID, B: e.Ends[1].ID}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b Link) int {
		if c := cmp.Compare(a.A, b.A); c != 0 {
			return c
		}
		return cmp.Compare(a.B, b.B)
	})
	return out
}

// NetIDs returns the sorted ids of every net.
func (g *Graph) NetIDs() []int { return g.Nets(AllRails) }

// Nets returns the sorted ids of nets on rail, or of all nets for
// [AllRails].
func (g *Graph) Nets(rail int) []int {
	seen := make(map[int]bool)
	for _, e := range g.edges {
		if rail == AllRails || e.PowerRail == rail {
			seen[e.NetID] = true
		}
	}
	return sortedKeys(seen)
}

// NetName returns the name of net id as stored on its first edge.
func (g *Graph) NetName(id int) (string, bool) {
	for _, e := range g.edges {
		if e.NetID == id {
			return e.NetName, true
		}
	}
	return "", false
}

// NetIDByName returns the id of the first edge whose net is named name.
func (g *Graph) NetIDByName(name string) (int, bool) {
	for _, e := range g.edges {
		if e.NetName == name {
			return e.NetID, true
		}
	}
	return -1, false
}

// ComponentsInNet returns the number of distinct instances with a pad on
// the net named name.
func (g *Graph) ComponentsInNet(name string) int {
	seen := make(map[int]bool)
	for _, e := range g.edges {
		if e.NetName == name {
			seen[e.Ends[0].ID] = true
			seen[e.Ends[1].ID] = true
		}
	}
	return len(seen)
}

func sortedKeys(m map[int]bool) []int {
	return slices.Sorted(maps.Keys(m))
}
