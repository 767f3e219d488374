package netlist

import (
	"math"
	"slices"
	"strconv"

	"github.com/matzehuels/pcbgraph/pkg/geom"
)

// Node is one component instance on the board.
//
// Positions are the component centre in board units. Orientation is kept
// in [0, 360) degrees. Neighbors is a cache filled by [Graph.EmbedNeighbors]
// and is not part of the record formats.
type Node struct {
	ID          int
	Name        string
	Size        geom.Point
	Pos         geom.Point
	Orientation float64
	Layer       int
	Placed      bool
	Pins        int
	PinsSMD     int
	PinsTH      int
	Type        int

	Neighbors []Tally
	Optimal   Optimal
}

// NewNode returns a node with the record defaults: id, layer and type of
// -1, zero geometry and unplaced.
func NewNode() Node {
	return Node{ID: -1, Layer: -1, Type: -1, Optimal: NewOptimal()}
}

// ParseNode parses a node record in the given format. Fields absent from a
// short record keep their defaults. The orientation is folded into
// [0, 360).
func ParseNode(line string, format Format) (Node, error) {
	n := NewNode()
	if format == Long {
		s := newScanner("node", line, nodeFieldsLong)
		n.ID = s.atoi()
		n.Name = s.str()
		n.Size = geom.Point{X: s.atof(), Y: s.atof()}
		n.Pos = geom.Point{X: s.atof(), Y: s.atof()}
		n.Orientation = s.atof()
		n.Layer = s.atoi()
		n.Placed = s.flag()
		n.Pins = s.atoi()
		n.PinsSMD = s.atoi()
		n.PinsTH = s.atoi()
		n.Type = s.atoi()
		n.SetOrientation(n.Orientation)
		return n, s.err
	}

	s := newScanner("node", line, nodeFieldsShort)
	n.ID = s.atoi()
	n.Size = geom.Point{X: s.atof(), Y: s.atof()}
	n.Pos = geom.Point{X: s.atof(), Y: s.atof()}
	n.Orientation = s.atof()
	n.Layer = s.atoi()
	n.Placed = s.flag()
	n.Pins = s.atoi()
	n.PinsSMD = s.atoi()
	n.PinsTH = s.atoi()
	n.SetOrientation(n.Orientation)
	return n, s.err
}

// Record formats n. Reals use prec decimals, or the shortest exact form
// when prec is negative.
func (n Node) Record(format Format, prec int) string {
	f := []string{strconv.Itoa(n.ID)}
	if format == Long {
		f = append(f, n.Name)
	}
	f = append(f,
		ftoa(n.Size.X, prec), ftoa(n.Size.Y, prec),
		ftoa(n.Pos.X, prec), ftoa(n.Pos.Y, prec),
		ftoa(n.Orientation, prec),
		strconv.Itoa(n.Layer),
		btoa(n.Placed),
		strconv.Itoa(n.Pins), strconv.Itoa(n.PinsSMD), strconv.Itoa(n.PinsTH),
	)
	if format == Long {
		f = append(f, strconv.Itoa(n.Type))
	}
	return join(f...)
}

// String returns the long record with exact reals.
func (n Node) String() string { return n.Record(Long, -1) }

// Area returns Size.X * Size.Y.
func (n Node) Area() float64 { return n.Size.X * n.Size.Y }

// Degenerate reports whether either dimension is zero or negative.
func (n Node) Degenerate() bool { return n.Size.X <= 0 || n.Size.Y <= 0 }

// SetOrientation stores deg folded into [0, 360).
func (n *Node) SetOrientation(deg float64) { n.Orientation = geom.NormalizeAngle(deg) }

// Rotated reports whether the footprint is turned a quarter, so that its
// extent on the board is Size with X and Y exchanged.
func (n Node) Rotated() bool { return n.Orientation == 90 || n.Orientation == 270 }

// BBox returns the integer grid cell bounds of the component footprint.
// gridResolution is in micrometres: positions and sizes are first rounded
// up to multiples of gridResolution/1000, then half the size is snapped to
// half-cells around the centre.
func (n Node) BBox(gridResolution float64) (xmin, xmax, ymin, ymax int) {
	size := n.Size
	if n.Rotated() {
		size.X, size.Y = size.Y, size.X
	}
	m := gridResolution / 1000
	pos := geom.Point{X: geom.RoundUp(n.Pos.X, m), Y: geom.RoundUp(n.Pos.Y, m)}
	size = geom.Point{X: geom.RoundUp(size.X, m), Y: geom.RoundUp(size.Y, m)}

	xmin = int(pos.X - math.Trunc(geom.RoundNearest(size.X/2, 0.5)))
	xmax = int(geom.RoundNearest(size.X+float64(xmin), 0.5))
	ymin = int(pos.Y - math.Trunc(geom.RoundNearest(size.Y/2, 0.5)))
	ymax = int(geom.RoundNearest(size.Y+float64(ymin), 0.5))
	return xmin, xmax, ymin, ymax
}

// BBoxCentreSize returns the extent of [Node.BBox] and its half.
func (n Node) BBoxCentreSize(gridResolution float64) (xc, yc, x, y int) {
	xmin, xmax, ymin, ymax := n.BBox(gridResolution)
	x = xmax - xmin
	y = ymax - ymin
	return x / 2, y / 2, x, y
}

// clone returns a copy of n that shares no slices with it.
func (n Node) clone() Node {
	n.Neighbors = slices.Clone(n.Neighbors)
	return n
}
