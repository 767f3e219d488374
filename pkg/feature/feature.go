package feature

import (
	"context"
	"strconv"
	"strings"

	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

// Field counts of the two layouts.
const (
	NodeFields     = 4
	NeighborFields = 10

	SimplifiedNodeFields     = 2
	SimplifiedNeighborFields = 4
)

// DefaultMaxNeighbors is the neighbor count used when Options leaves it
// unset.
const DefaultMaxNeighbors = 3

// NoNeighborType is the type written into padding blocks.
const NoNeighborType = -1

var (
	padding           = [NeighborFields]float64{0, 0, 0, 0, NoNeighborType, 0, 0, 0, 0, 0}
	simplifiedPadding = [SimplifiedNeighborFields]float64{0, 0, 0, 0}
)

// Options controls the encoder.
type Options struct {
	// MaxNeighbors is the number of neighbor blocks K. Values below 1 use
	// DefaultMaxNeighbors.
	MaxNeighbors int
	// Simplified selects the area-based layout.
	Simplified bool
	// Normalize scales every encoded vector, see the package docs.
	Normalize bool
	// GridX and GridY are the position pitches used by normalization.
	GridX, GridY float64
}

func (o Options) k() int {
	if o.MaxNeighbors < 1 {
		return DefaultMaxNeighbors
	}
	return o.MaxNeighbors
}

// Vector is one encoded component.
type Vector []float64

// Record formats v as comma separated reals with prec decimals, or in the
// shortest exact form when prec is negative.
func (v Vector) Record(prec int) string {
	f := make([]string, len(v))
	for i, x := range v {
		f[i] = strconv.FormatFloat(x, 'f', prec, 64)
	}
	return strings.Join(f, ",")
}

// Row is an encoded component together with its identity.
type Row struct {
	ID     int
	Name   string
	Vector Vector
}

// Width returns the length of a vector with k neighbor blocks.
func Width(k int, simplified bool) int {
	if simplified {
		return SimplifiedNodeFields + k*SimplifiedNeighborFields
	}
	return NodeFields + k*NeighborFields
}

// Header returns column names for a vector with k neighbor blocks.
func Header(k int, simplified bool) []string {
	node := []string{"size_x", "size_y", "type", "pins"}
	nb := []string{"size_x", "size_y", "pos_x", "pos_y", "type", "pins", "parent_pad_x", "parent_pad_y", "pad_x", "pad_y"}
	if simplified {
		node = []string{"area", "pins"}
		nb = []string{"area", "pos_x", "pos_y", "pins"}
	}
	out := append([]string(nil), node...)
	for i := range k {
		for _, f := range nb {
			out = append(out, "n"+strconv.Itoa(i)+"_"+f)
		}
	}
	return out
}

// Encoder builds feature vectors from a graph.
//
// The encoder reads the graph's cached signal neighbors. NewEncoder fills
// that cache; call [netlist.Graph.EmbedNeighbors] again after editing
// edges.
type Encoder struct {
	g    *netlist.Graph
	opts Options
}

// NewEncoder returns an encoder over g.
func NewEncoder(g *netlist.Graph, opts Options) *Encoder {
	g.EmbedNeighbors()
	return &Encoder{g: g, opts: opts}
}

// Options returns the encoder settings with defaults applied.
func (e *Encoder) Options() Options {
	o := e.opts
	o.MaxNeighbors = o.k()
	return o
}

// Encode returns the vector of component id in the configured layout,
// normalized if requested.
func (e *Encoder) Encode(id int) (Vector, error) {
	var v Vector
	var err error
	if e.opts.Simplified {
		v, err = e.Simplified(id, e.opts.k())
	} else {
		v, err = e.Full(id, e.opts.k())
	}
	if err != nil {
		return nil, err
	}
	if e.opts.Normalize {
		e.Normalize(v, e.opts.Simplified)
	}
	return v, nil
}

// Full returns the unnormalized full vector of component id with k
// neighbor blocks.
func (e *Encoder) Full(id, k int) (Vector, error) {
	n, err := e.g.NodeRef(id)
	if err != nil {
		return nil, err
	}
	v := make(Vector, 0, Width(k, false))
	v = append(v, n.Size.X, n.Size.Y, float64(n.Type), float64(n.Pins))

	used := 0
	for _, avg := range e.g.AveragePadPositions(id) {
		if used == k {
			break
		}
		nb, ok := e.g.Node(avg.NeighborID)
		if !ok {
			continue
		}
		px, py := placedPos(nb)
		v = append(v,
			nb.Size.X, nb.Size.Y, px, py, float64(nb.Type), float64(nb.Pins),
			avg.Parent.X, avg.Parent.Y, avg.Neighbor.X, avg.Neighbor.Y,
		)
		used++
	}
	for ; used < k; used++ {
		v = append(v, padding[:]...)
	}
	return v, nil
}

// Simplified returns the unnormalized area-based vector of component id
// with k neighbor blocks.
func (e *Encoder) Simplified(id, k int) (Vector, error) {
	n, err := e.g.NodeRef(id)
	if err != nil {
		return nil, err
	}
	v := make(Vector, 0, Width(k, true))
	v = append(v, n.Area(), float64(n.Pins))

	used := 0
	for _, t := range n.Neighbors {
		if used == k {
			break
		}
		nb, ok := e.g.Node(t.ID)
		if !ok {
			continue
		}
		px, py := placedPos(nb)
		v = append(v, nb.Area(), px, py, float64(nb.Pins))
		used++
	}
	for ; used < k; used++ {
		v = append(v, simplifiedPadding[:]...)
	}
	return v, nil
}

func placedPos(n netlist.Node) (float64, float64) {
	if !n.Placed {
		return 0, 0
	}
	return n.Pos.X, n.Pos.Y
}

// Normalize scales v in place. simplified must match the layout v was
// encoded with. Padding blocks stay distinguishable: their zeros remain
// zero and the sentinel type is not scaled.
//
// In the full layout only the target's pin count is scaled; neighbor pin
// counts stay raw.
func (e *Encoder) Normalize(v Vector, simplified bool) {
	sx, sy := e.g.LargestX(), e.g.LargestY()
	pins := float64(e.g.MaxPins())
	gx, gy := e.opts.GridX, e.opts.GridY

	if simplified {
		if len(v) < SimplifiedNodeFields {
			return
		}
		div(v, 0, sx*sy)
		div(v, 1, pins)
		for i := SimplifiedNodeFields; i+SimplifiedNeighborFields <= len(v); i += SimplifiedNeighborFields {
			div(v, i, sx*sy)
			div(v, i+1, gx)
			div(v, i+2, gy)
			div(v, i+3, pins)
		}
		return
	}

	if len(v) < NodeFields {
		return
	}
	div(v, 0, sx)
	div(v, 1, sy)
	div(v, 3, pins)
	for i := NodeFields; i+NeighborFields <= len(v); i += NeighborFields {
		div(v, i, sx)
		div(v, i+1, sy)
		div(v, i+2, gx)
		div(v, i+3, gy)
		div(v, i+6, gx)
		div(v, i+7, gy)
		div(v, i+8, gx)
		div(v, i+9, gy)
	}
}

func div(v Vector, i int, d float64) {
	if d != 0 {
		v[i] /= d
	}
}

// Rows encodes every working component in node order. It stops early
// with ctx.Err() when ctx is cancelled.
func (e *Encoder) Rows(ctx context.Context) ([]Row, error) {
	nodes := e.g.Nodes()
	rows := make([]Row, 0, len(nodes))
	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := e.Encode(n.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{ID: n.ID, Name: n.Name, Vector: v})
	}
	return rows, nil
}
