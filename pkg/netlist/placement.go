package netlist

import (
	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/geom"
)

// Orderings accepted by [Graph.NextToPlace].
const (
	OrderConnectionDensity = "connection_density"
	OrderArea              = "area"
	OrderFirst             = "first"
)

// Orderings lists the placement orderings in documentation order.
var Orderings = []string{OrderConnectionDensity, OrderArea, OrderFirst}

// unplaced returns a live handle to working node id if it exists and is
// not placed yet.
func (g *Graph) unplaced(id int) (*Node, error) {
	n, err := g.NodeRef(id)
	if err != nil {
		return nil, err
	}
	if n.Placed {
		return nil, errs.New(errs.ErrCodeAlreadyPlaced, "node %d (%s) is already placed", id, n.Name)
	}
	return n, nil
}

// SetCentroid moves unplaced node id to (x, y). The node stays unplaced.
func (g *Graph) SetCentroid(id int, x, y float64) error {
	n, err := g.unplaced(id)
	if err != nil {
		return err
	}
	n.Pos = geom.Point{X: x, Y: y}
	return nil
}

// SetOrientation turns unplaced node id to deg, folded into [0, 360).
func (g *Graph) SetOrientation(id int, deg float64) error {
	n, err := g.unplaced(id)
	if err != nil {
		return err
	}
	n.SetOrientation(deg)
	return nil
}

// SwapSize exchanges the width and height of unplaced node id.
func (g *Graph) SwapSize(id int) error {
	n, err := g.unplaced(id)
	if err != nil {
		return err
	}
	n.Size.X, n.Size.Y = n.Size.Y, n.Size.X
	return nil
}

// Confirm marks unplaced node id as placed. It is the only per-node
// transition out of the unplaced state.
func (g *Graph) Confirm(id int) error {
	n, err := g.unplaced(id)
	if err != nil {
		return err
	}
	n.Placed = true
	return nil
}

// Update moves node id to pos and marks it placed in one step.
//
// Unlike [Graph.SetCentroid] it does not refuse a placed node: the
// position is overwritten and a warning is logged. Bulk loaders rely on
// this to replay stored placements.
func (g *Graph) Update(id int, pos geom.Point) error {
	n, err := g.NodeRef(id)
	if err != nil {
		return err
	}
	if n.Placed {
		g.logger.Warn("node is already placed, updating regardless", "id", id, "name", n.Name)
	}
	n.Pos = pos
	n.Placed = true
	return nil
}

// IsDone reports whether every working node is placed.
func (g *Graph) IsDone() bool {
	for _, n := range g.nodes {
		if !n.Placed {
			return false
		}
	}
	return true
}

// PlacedCount returns the number of placed working nodes.
func (g *Graph) PlacedCount() int {
	c := 0
	for _, n := range g.nodes {
		if n.Placed {
			c++
		}
	}
	return c
}

// UnplacedCount returns the number of working nodes still to place.
func (g *Graph) UnplacedCount() int { return len(g.nodes) - g.PlacedCount() }

// CompletionRatio returns the placed fraction of working nodes. An empty
// graph is complete.
func (g *Graph) CompletionRatio() float64 {
	if len(g.nodes) == 0 {
		return 1
	}
	return float64(g.PlacedCount()) / float64(len(g.nodes))
}

// NextToPlace returns the id of the next unplaced node under ordering:
// most signal connections first for [OrderConnectionDensity], largest
// footprint first for [OrderArea], and node order otherwise. ok is false
// when every node is placed.
func (g *Graph) NextToPlace(ordering string) (id int, ok bool) {
	switch ordering {
	case OrderConnectionDensity:
		for _, t := range g.ConnectivityList(0) {
			if n, found := g.Node(t.ID); found && !n.Placed {
				return t.ID, true
			}
		}
		return -1, false
	case OrderArea:
		for _, a := range g.AreaList() {
			if n, found := g.Node(a.ID); found && !n.Placed {
				return a.ID, true
			}
		}
		return -1, false
	default:
		return g.FirstUnplaced()
	}
}
