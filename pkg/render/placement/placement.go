package placement

import (
	"math"

	"github.com/matzehuels/pcbgraph/pkg/board"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

// Options controls how footprints are computed.
type Options struct {
	// GridResolution snaps footprints to grid cells, in micrometres.
	// Zero draws exact footprints.
	GridResolution float64
}

// Rect is the drawn footprint of one component.
type Rect struct {
	ID     int
	Name   string
	X, Y   float64 // lower corner
	W, H   float64
	Placed bool
}

// Footprints returns the rectangles of every working component in node
// order.
func Footprints(g *netlist.Graph, opts Options) []Rect {
	nodes := g.Nodes()
	out := make([]Rect, 0, len(nodes))
	for _, n := range nodes {
		r := Rect{ID: n.ID, Name: n.Name, Placed: n.Placed}
		if opts.GridResolution > 0 {
			xmin, xmax, ymin, ymax := n.BBox(opts.GridResolution)
			r.X, r.Y = float64(xmin), float64(ymin)
			r.W, r.H = float64(xmax-xmin), float64(ymax-ymin)
		} else {
			w, h := n.Size.X, n.Size.Y
			if n.Rotated() {
				w, h = h, w
			}
			r.X, r.Y = n.Pos.X-w/2, n.Pos.Y-h/2
			r.W, r.H = w, h
		}
		out = append(out, r)
	}
	return out
}

// bounds is the drawing extent.
type bounds struct {
	minX, minY, maxX, maxY float64
}

func (b bounds) width() float64  { return b.maxX - b.minX }
func (b bounds) height() float64 { return b.maxY - b.minY }

// extent returns the board outline, or the union of rects when the board
// is degenerate.
func extent(b board.Board, rects []Rect) bounds {
	if b.Width() > 0 && b.Height() > 0 {
		return bounds{
			minX: math.Min(b.MinX, b.MaxX), minY: math.Min(b.MinY, b.MaxY),
			maxX: math.Max(b.MinX, b.MaxX), maxY: math.Max(b.MinY, b.MaxY),
		}
	}
	if len(rects) == 0 {
		return bounds{maxX: 1, maxY: 1}
	}
	e := bounds{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	for _, r := range rects {
		e.minX = math.Min(e.minX, r.X)
		e.minY = math.Min(e.minY, r.Y)
		e.maxX = math.Max(e.maxX, r.X+r.W)
		e.maxY = math.Max(e.maxY, r.Y+r.H)
	}
	if e.width() == 0 {
		e.maxX++
	}
	if e.height() == 0 {
		e.maxY++
	}
	return e
}
