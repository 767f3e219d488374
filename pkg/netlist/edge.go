package netlist

import (
	"strconv"

	"github.com/matzehuels/pcbgraph/pkg/geom"
)

// Endpoint is one pad of an edge. PadPos is relative to the owning
// component's origin, before rotation.
type Endpoint struct {
	ID      int
	PadID   int
	PadName string
	PadSize geom.Point
	PadPos  geom.Point
	Placed  bool
}

// Edge is a pad to pad link that belongs to a net. Ends[0] is endpoint "a"
// and Ends[1] endpoint "b".
//
// A net with more than two pads is represented by several edges sharing a
// NetID, and two components joined by several pads by several edges
// sharing the same instance pair.
type Edge struct {
	Ends      [2]Endpoint
	NetID     int
	NetName   string
	PowerRail int
}

// NewEdge returns an edge with the record defaults: all ids -1, power rail 0.
func NewEdge() Edge {
	return Edge{
		Ends: [2]Endpoint{
			{ID: -1, PadID: -1},
			{ID: -1, PadID: -1},
		},
		NetID: -1,
	}
}

// ParseEdge parses an edge record in the given format.
func ParseEdge(line string, format Format) (Edge, error) {
	e := NewEdge()
	if format == Long {
		s := newScanner("edge", line, edgeFieldsLong)
		for i := range e.Ends {
			p := &e.Ends[i]
			p.ID = s.atoi()
			p.PadID = s.atoi()
			p.PadName = s.str()
			p.PadSize = geom.Point{X: s.atof(), Y: s.atof()}
			p.PadPos = geom.Point{X: s.atof(), Y: s.atof()}
			p.Placed = s.flag()
		}
		e.NetID = s.atoi()
		e.NetName = s.str()
		e.PowerRail = s.atoi()
		return e, s.err
	}

	s := newScanner("edge", line, edgeFieldsShort)
	for i := range e.Ends {
		p := &e.Ends[i]
		p.ID = s.atoi()
		p.PadSize = geom.Point{X: s.atof(), Y: s.atof()}
		p.PadPos = geom.Point{X: s.atof(), Y: s.atof()}
		p.Placed = s.flag()
	}
	e.NetID = s.atoi()
	e.PowerRail = s.atoi()
	return e, s.err
}

// Record formats e. Reals use prec decimals, or the shortest exact form
// when prec is negative.
func (e Edge) Record(format Format, prec int) string {
	var f []string
	for _, p := range e.Ends {
		f = append(f, strconv.Itoa(p.ID))
		if format == Long {
			f = append(f, strconv.Itoa(p.PadID), p.PadName)
		}
		f = append(f,
			ftoa(p.PadSize.X, prec), ftoa(p.PadSize.Y, prec),
			ftoa(p.PadPos.X, prec), ftoa(p.PadPos.Y, prec),
			btoa(p.Placed),
		)
	}
	f = append(f, strconv.Itoa(e.NetID))
	if format == Long {
		f = append(f, e.NetName)
	}
	f = append(f, strconv.Itoa(e.PowerRail))
	return join(f...)
}

// String returns the long record with exact reals.
func (e Edge) String() string { return e.Record(Long, -1) }

// IDs returns the instance ids of both endpoints in record order.
func (e Edge) IDs() (int, int) { return e.Ends[0].ID, e.Ends[1].ID }

// SelfLoop reports whether both pads belong to the same instance.
func (e Edge) SelfLoop() bool { return e.Ends[0].ID == e.Ends[1].ID }

// Touches reports whether either endpoint belongs to instance id.
func (e Edge) Touches(id int) bool { return e.Ends[0].ID == id || e.Ends[1].ID == id }

// Connects reports whether the edge joins instances a and b in either order.
func (e Edge) Connects(a, b int) bool {
	return (e.Ends[0].ID == a && e.Ends[1].ID == b) || (e.Ends[0].ID == b && e.Ends[1].ID == a)
}

// Signal reports whether the edge belongs to a signal net (power rail 0).
func (e Edge) Signal() bool { return e.PowerRail == 0 }
