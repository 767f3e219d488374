package netlist

import (
	"slices"

	"github.com/matzehuels/pcbgraph/pkg/geom"
)

// InsufficientPoints is the value [Graph.HPWLOfNetValue] reports for a net
// with fewer than two distinct pad positions. It is negative so that it
// can never be mistaken for a real wirelength.
const InsufficientPoints = -1.0

// PadPosition returns the absolute board position of a pad: its local
// offset rotated by the component orientation, plus the component centre.
func PadPosition(n Node, local geom.Point) geom.Point {
	return n.Pos.Add(local.KicadRotate(n.Orientation))
}

// HPWLOfNet returns the half-perimeter wirelength of net. Only pads of
// placed instances count unless includeUnplaced is set; coincident pads
// count once. ok is false when fewer than two distinct positions remain,
// including for a net that does not exist.
func (g *Graph) HPWLOfNet(net int, includeUnplaced bool) (hpwl float64, ok bool) {
	pts := geom.PointSet{}
	for _, e := range g.edges {
		if e.NetID != net {
			continue
		}
		for _, p := range e.Ends {
			i := g.index(p.ID)
			if i < 0 {
				continue
			}
			n := g.nodes[i]
			if n.Placed || includeUnplaced {
				pts.Add(PadPosition(n, p.PadPos))
			}
		}
	}
	if pts.Len() < 2 {
		return 0, false
	}
	return pts.HalfPerimeter(), true
}

// HPWLOfNetValue is [Graph.HPWLOfNet] with [InsufficientPoints] in place of
// the ok flag, for callers that store the result in a record.
func (g *Graph) HPWLOfNetValue(net int, includeUnplaced bool) float64 {
	if v, ok := g.HPWLOfNet(net, includeUnplaced); ok {
		return v
	}
	return InsufficientPoints
}

// HPWLOfInstance returns the wirelength contribution of instance id
// against its cached neighbors (see [Graph.EmbedNeighbors]).
//
// For every signal net of id, the pads of each edge joining id to a placed
// neighbor on that net are collected into one point set per net; the
// result is the sum of their half perimeters. ok is false if id does not
// exist, so a missing instance is distinguishable from a zero contribution.
func (g *Graph) HPWLOfInstance(id int) (float64, bool) {
	i := g.index(id)
	if i < 0 {
		return InsufficientPoints, false
	}
	n := g.nodes[i]

	var total float64
	for _, net := range g.NetsOfInstance(id, 0) {
		pts := geom.PointSet{}
		for _, nb := range n.Neighbors {
			j := g.index(nb.ID)
			if j < 0 || !g.nodes[j].Placed {
				continue
			}
			m := g.nodes[j]
			for _, e := range g.edges {
				if e.NetID != net || !e.Connects(id, m.ID) {
					continue
				}
				self, other := 0, 1
				if e.Ends[0].ID != id {
					self, other = 1, 0
				}
				pts.Add(PadPosition(n, e.Ends[self].PadPos))
				pts.Add(PadPosition(m, e.Ends[other].PadPos))
			}
		}
		total += pts.HalfPerimeter()
	}
	return total, true
}

func (g *Graph) sumHPWL(nets []int, includeUnplaced bool) float64 {
	var total float64
	for _, net := range nets {
		if v, ok := g.HPWLOfNet(net, includeUnplaced); ok && v > 0 {
			total += v
		}
	}
	g.hpwl = total
	return total
}

// HPWLFull returns the wirelength of every net, power rails included,
// counting unplaced instances at their current positions.
func (g *Graph) HPWLFull() float64 {
	return g.sumHPWL(g.NetIDs(), true)
}

// HPWL returns the wirelength of the signal nets.
func (g *Graph) HPWL(includeUnplaced bool) float64 {
	return g.sumHPWL(g.Nets(0), includeUnplaced)
}

// HPWLIgnoring returns the wirelength of every net except those named in
// ignore, counting placed instances only. Unknown names are skipped.
func (g *Graph) HPWLIgnoring(ignore []string) float64 {
	nets := g.NetIDs()
	for _, name := range ignore {
		if id, ok := g.NetIDByName(name); ok {
			nets = slices.DeleteFunc(nets, func(n int) bool { return n == id })
		}
	}
	return g.sumHPWL(nets, false)
}
