package io

import (
	"encoding/json"
	"fmt"
	"io"

	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/geom"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

type snapshot struct {
	Name    string     `json:"name"`
	Version string     `json:"version,omitempty"`
	Source  string     `json:"source,omitempty"`
	Nodes   []jsonNode `json:"nodes"`
	Edges   []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Size        [2]float64 `json:"size"`
	Pos         [2]float64 `json:"pos"`
	Orientation float64    `json:"orientation"`
	Layer       int        `json:"layer"`
	Placed      bool       `json:"placed"`
	Pins        int        `json:"pins"`
	PinsSMD     int        `json:"pins_smd"`
	PinsTH      int        `json:"pins_th"`
	Type        int        `json:"type"`
	Optimal     *jsonOpt   `json:"optimal,omitempty"`
}

type jsonOpt struct {
	Euclidean float64 `json:"euclidean_distance"`
	HPWL      float64 `json:"hpwl"`
}

type jsonPad struct {
	ID      int        `json:"id"`
	PadID   int        `json:"pad_id"`
	PadName string     `json:"pad_name,omitempty"`
	Size    [2]float64 `json:"size"`
	Pos     [2]float64 `json:"pos"`
	Placed  bool       `json:"placed,omitempty"`
}

type jsonEdge struct {
	A         jsonPad `json:"a"`
	B         jsonPad `json:"b"`
	NetID     int     `json:"net_id"`
	NetName   string  `json:"net_name,omitempty"`
	PowerRail int     `json:"power_rail"`
}

func pair(p geom.Point) [2]float64  { return [2]float64{p.X, p.Y} }
func point(a [2]float64) geom.Point { return geom.Point{X: a[0], Y: a[1]} }

func padToJSON(p netlist.Endpoint) jsonPad {
	return jsonPad{ID: p.ID, PadID: p.PadID, PadName: p.PadName, Size: pair(p.PadSize), Pos: pair(p.PadPos), Placed: p.Placed}
}

func padFromJSON(p jsonPad) netlist.Endpoint {
	return netlist.Endpoint{ID: p.ID, PadID: p.PadID, PadName: p.PadName, PadSize: point(p.Size), PadPos: point(p.Pos), Placed: p.Placed}
}

// WriteJSON encodes the working state of g as JSON and writes it to w.
// Optimals are included only for nodes that have one.
func WriteJSON(g *netlist.Graph, w io.Writer) error {
	nodes := g.Nodes()
	edges := g.Edges()
	out := snapshot{
		Name:    g.Name,
		Version: netlist.RecordVersion,
		Source:  g.Source,
		Nodes:   make([]jsonNode, len(nodes)),
		Edges:   make([]jsonEdge, len(edges)),
	}

	for i, n := range nodes {
		jn := jsonNode{
			ID: n.ID, Name: n.Name,
			Size: pair(n.Size), Pos: pair(n.Pos),
			Orientation: n.Orientation, Layer: n.Layer, Placed: n.Placed,
			Pins: n.Pins, PinsSMD: n.PinsSMD, PinsTH: n.PinsTH, Type: n.Type,
		}
		if !n.Optimal.EuclideanUnset() || !n.Optimal.HPWLUnset() {
			jn.Optimal = &jsonOpt{Euclidean: n.Optimal.Euclidean, HPWL: n.Optimal.HPWL}
		}
		out.Nodes[i] = jn
	}
	for i, e := range edges {
		out.Edges[i] = jsonEdge{
			A: padToJSON(e.Ends[0]), B: padToJSON(e.Ends[1]),
			NetID: e.NetID, NetName: e.NetName, PowerRail: e.PowerRail,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a snapshot of g to a JSON file at path.
func ExportJSON(g *netlist.Graph, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(g, w) })
}

// ReadJSON decodes a snapshot from r into a new graph.
//
// The snapshot becomes both the pristine and the working state, so a
// later Reset returns to exactly what was read. ReadJSON returns an
// error for duplicate node ids and for edges that reference unknown
// nodes. It does not close r.
func ReadJSON(r io.Reader) (*netlist.Graph, error) {
	var data snapshot
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	if data.Version != "" && data.Version != netlist.RecordVersion {
		return nil, errs.New(errs.ErrCodeUnsupported, "snapshot version %s, want %s", data.Version, netlist.RecordVersion)
	}

	g := netlist.New(data.Name)
	g.Source = data.Source
	for _, jn := range data.Nodes {
		n := netlist.NewNode()
		n.ID, n.Name = jn.ID, jn.Name
		n.Size, n.Pos = point(jn.Size), point(jn.Pos)
		n.Orientation, n.Layer, n.Placed = jn.Orientation, jn.Layer, jn.Placed
		n.Pins, n.PinsSMD, n.PinsTH, n.Type = jn.Pins, jn.PinsSMD, jn.PinsTH, jn.Type
		if jn.Optimal != nil {
			n.Optimal = netlist.Optimal{ID: jn.ID, Name: jn.Name, Euclidean: jn.Optimal.Euclidean, HPWL: jn.Optimal.HPWL}
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("node %d: %w", jn.ID, err)
		}
	}
	for i, je := range data.Edges {
		err := g.AddEdge(netlist.Edge{
			Ends:      [2]netlist.Endpoint{padFromJSON(je.A), padFromJSON(je.B)},
			NetID:     je.NetID,
			NetName:   je.NetName,
			PowerRail: je.PowerRail,
		})
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// ImportJSON reads a JSON snapshot file at path.
func ImportJSON(path string) (*netlist.Graph, error) {
	return readFile(path, ReadJSON)
}
