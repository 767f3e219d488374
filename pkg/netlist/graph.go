package netlist

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pcbgraph/pkg/board"
	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/geom"
)

// RecordVersion is the version of the node, edge and optimal record layout
// this package reads and writes.
const RecordVersion = "0.1.16"

// Graph owns the component instances and pad connections of one design.
//
// It keeps two node sets. The pristine set holds nodes as they were first
// added and only changes through [Graph.UpdateNodeOptimal],
// [Graph.SyncPristineOptimals] and [Graph.Reorder]. The working set is what
// placement mutates; [Graph.Reset] copies the pristine set back over it.
// Edges refer to nodes by id only, so they stay valid across a reset.
//
// The zero value is not usable - use New.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	// Name is the design name, typically the stem of the record files.
	Name string
	// Source is the CAD file the records were exported from, if known.
	Source string

	pristine []Node
	nodes    []Node
	edges    []Edge
	hpwl     float64
	logger   *log.Logger
}

// New creates an empty graph.
func New(name string) *Graph {
	return &Graph{
		Name:   name,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// SetLogger sets the logger used for warnings. A nil logger discards them.
func (g *Graph) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.NewWithOptions(io.Discard, log.Options{})
	}
	g.logger = l
}

// AddNode appends n to both node sets with its orientation folded into
// [0, 360). It returns ErrCodeInvalidInput if a node with the same id
// already exists or the name fails [CheckName].
func (g *Graph) AddNode(n Node) error {
	if g.index(n.ID) >= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "duplicate node id %d", n.ID)
	}
	if err := CheckName("node name", n.Name); err != nil {
		return err
	}
	n.SetOrientation(n.Orientation)
	g.pristine = append(g.pristine, n.clone())
	g.nodes = append(g.nodes, n.clone())
	return nil
}

// AddEdge appends e. It returns ErrCodeInvalidInput if the net or a pad
// name fails [CheckName]. Endpoints are not checked; see [Graph.Validate].
func (g *Graph) AddEdge(e Edge) error {
	if err := CheckName("net name", e.NetName); err != nil {
		return err
	}
	for _, p := range e.Ends {
		if err := CheckName("pad name", p.PadName); err != nil {
			return err
		}
	}
	g.edges = append(g.edges, e)
	return nil
}

// AddNodeFromLine parses a node record and adds it.
func (g *Graph) AddNodeFromLine(line string, format Format) error {
	n, err := ParseNode(line, format)
	if err != nil {
		return err
	}
	return g.AddNode(n)
}

// AddEdgeFromLine parses an edge record and adds it.
func (g *Graph) AddEdgeFromLine(line string, format Format) error {
	e, err := ParseEdge(line, format)
	if err != nil {
		return err
	}
	return g.AddEdge(e)
}

// UpdateNodeOptimal parses an optimal record and stores it on the node with
// the same id in both node sets. A name mismatch is logged, not rejected.
func (g *Graph) UpdateNodeOptimal(line string) error {
	o, err := ParseOptimal(line)
	if err != nil {
		return err
	}
	return g.SetOptimal(o)
}

// SetOptimal stores o on the node with id o.ID in both node sets.
func (g *Graph) SetOptimal(o Optimal) error {
	if err := CheckName("optimal name", o.Name); err != nil {
		return err
	}
	found := false
	for _, set := range [][]Node{g.pristine, g.nodes} {
		for i := range set {
			if set[i].ID != o.ID {
				continue
			}
			if set[i].Name != o.Name {
				g.logger.Warn("optimal name does not match node", "id", o.ID, "node", set[i].Name, "optimal", o.Name)
			}
			set[i].Optimal = o
			found = true
			break
		}
	}
	if !found {
		return errs.New(errs.ErrCodeNodeNotFound, "no node with id %d for optimal %q", o.ID, o.Name)
	}
	return nil
}

// FormatNodeLine returns the long record of working node id.
func (g *Graph) FormatNodeLine(id int) (string, bool) {
	n, ok := g.Node(id)
	if !ok {
		return "", false
	}
	return n.Record(Long, -1), true
}

// FormatEdgeLine returns the long record of the i-th edge.
func (g *Graph) FormatEdgeLine(i int) (string, bool) {
	if i < 0 || i >= len(g.edges) {
		return "", false
	}
	return g.edges[i].Record(Long, -1), true
}

// FormatOptimalLine returns the optimal record of working node id.
func (g *Graph) FormatOptimalLine(id int) (string, bool) {
	n, ok := g.Node(id)
	if !ok {
		return "", false
	}
	return n.Optimal.Record(-1), true
}

// Nodes returns a copy of the working node set in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.clone()
	}
	return out
}

// PristineNodes returns a copy of the pristine node set.
func (g *Graph) PristineNodes() []Node {
	out := make([]Node, len(g.pristine))
	for i, n := range g.pristine {
		out[i] = n.clone()
	}
	return out
}

// Edges returns a copy of the edge list.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of working nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

func (g *Graph) index(id int) int {
	return slices.IndexFunc(g.nodes, func(n Node) bool { return n.ID == id })
}

// Node returns a copy of working node id and whether it exists.
func (g *Graph) Node(id int) (Node, bool) {
	i := g.index(id)
	if i < 0 {
		return Node{}, false
	}
	return g.nodes[i].clone(), true
}

// NodeRef returns a live handle to working node id.
//
// Callers are expected to have validated id, for example by iterating
// [Graph.Nodes]. A miss is a contract violation reported as an error with
// ErrCodeNodeNotFound; the returned pointer is never nil when err is nil.
// The handle is invalidated by any call that adds or removes nodes.
func (g *Graph) NodeRef(id int) (*Node, error) {
	i := g.index(id)
	if i < 0 {
		return nil, errs.New(errs.ErrCodeNodeNotFound, "node %d", id)
	}
	return &g.nodes[i], nil
}

// NodeName returns the name of working node id, or "" if it does not exist.
func (g *Graph) NodeName(id int) string {
	if i := g.index(id); i >= 0 {
		return g.nodes[i].Name
	}
	return ""
}

// Validate checks that every edge endpoint refers to an existing working
// node.
func (g *Graph) Validate() error {
	for i, e := range g.edges {
		for _, p := range e.Ends {
			if g.index(p.ID) < 0 {
				return errs.New(errs.ErrCodeNodeNotFound, "edge %d (net %d) references missing node %d", i, e.NetID, p.ID)
			}
		}
	}
	return nil
}

// Reset discards all placement progress by copying the pristine node set
// over the working set. Edges are left untouched.
func (g *Graph) Reset() {
	g.nodes = g.PristineNodes()
}

// ShiftOrigin moves every working node into the frame whose origin is the
// board's lower-left corner.
func (g *Graph) ShiftOrigin(b board.Board) {
	o := b.Origin()
	for i := range g.nodes {
		g.nodes[i].Pos = g.nodes[i].Pos.Sub(o)
	}
}

// UnshiftOrigin undoes [Graph.ShiftOrigin].
func (g *Graph) UnshiftOrigin(b board.Board) {
	o := b.Origin()
	for i := range g.nodes {
		g.nodes[i].Pos = g.nodes[i].Pos.Add(o)
	}
}

// ZeroUnplacedPositions moves every unplaced working node to (0, 0).
func (g *Graph) ZeroUnplacedPositions() {
	for i := range g.nodes {
		if !g.nodes[i].Placed {
			g.nodes[i].Pos = geom.Point{}
		}
	}
}

// Normalize rescales pad geometry on every edge: pad sizes become fractions
// of the owning component's size and pad offsets fractions of half that
// size. Endpoints whose component is missing are left as they are.
func (g *Graph) Normalize() {
	for ei := range g.edges {
		for pi := range g.edges[ei].Ends {
			p := &g.edges[ei].Ends[pi]
			i := g.index(p.ID)
			if i < 0 {
				continue
			}
			size := g.nodes[i].Size
			p.PadSize = geom.Point{X: p.PadSize.X / size.X, Y: p.PadSize.Y / size.Y}
			p.PadPos = geom.Point{X: p.PadPos.X / (size.X / 2), Y: p.PadPos.Y / (size.Y / 2)}
		}
	}
}

// SyncPristineOptimals copies the optimal metrics of the working nodes onto
// the pristine nodes with the same id.
func (g *Graph) SyncPristineOptimals() {
	for _, n := range g.nodes {
		for i := range g.pristine {
			if g.pristine[i].ID == n.ID {
				g.pristine[i].Optimal.Euclidean = n.Optimal.Euclidean
				g.pristine[i].Optimal.HPWL = n.Optimal.HPWL
				break
			}
		}
	}
}

// CachedHPWL returns the whole-graph wirelength stored by the last call to
// [Graph.HPWLFull], [Graph.HPWL], [Graph.HPWLIgnoring] or [Graph.SetHPWL].
func (g *Graph) CachedHPWL() float64 { return g.hpwl }

// SetHPWL overrides the cached whole-graph wirelength.
func (g *Graph) SetHPWL(v float64) { g.hpwl = v }

// LargestX returns the largest width among working nodes.
func (g *Graph) LargestX() float64 {
	var x float64
	for _, n := range g.nodes {
		x = max(x, n.Size.X)
	}
	return x
}

// LargestY returns the largest height among working nodes.
func (g *Graph) LargestY() float64 {
	var y float64
	for _, n := range g.nodes {
		y = max(y, n.Size.Y)
	}
	return y
}

// LargestAreaSize returns the size of the working node with the largest
// area, or the zero point for a graph without positive areas.
func (g *Graph) LargestAreaSize() geom.Point {
	var area float64
	var size geom.Point
	for _, n := range g.nodes {
		if a := n.Area(); a > area {
			area = a
			size = n.Size
		}
	}
	return size
}

// MaxPins returns the largest pin count among working nodes.
func (g *Graph) MaxPins() int {
	pins := 0
	for _, n := range g.nodes {
		pins = max(pins, n.Pins)
	}
	return pins
}
