package optimals

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

// Metrics is one measurement of a component.
type Metrics struct {
	Euclidean float64
	HPWL      float64
}

// Change records a component whose stored optimal improved.
type Change struct {
	ID     int
	Name   string
	Before netlist.Optimal
	After  netlist.Optimal
}

// Summary describes the result of an Update.
type Summary struct {
	Total   int
	Updated int
	// HPWL is the sum of the stored HPWL optimals after the update. It is
	// also written to the graph with SetHPWL.
	HPWL    float64
	Changes []Change
}

// Rate returns the fraction of components that improved.
func (s Summary) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Updated) / float64(s.Total)
}

// Compute measures component id in its current position.
func Compute(g *netlist.Graph, id int) (Metrics, error) {
	n, err := g.NodeRef(id)
	if err != nil {
		return Metrics{}, err
	}
	var edges []netlist.Edge
	for _, e := range g.Edges() {
		if e.Touches(id) {
			edges = append(edges, e)
		}
	}
	return Metrics{
		Euclidean: euclidean(g, *n, edges),
		HPWL:      hpwl(g, edges),
	}, nil
}

// euclidean sums, over the pins of n, the shortest distance from the pin
// to the pad at the other end of any signal edge. Pins without such an
// edge contribute nothing.
func euclidean(g *netlist.Graph, n netlist.Node, edges []netlist.Edge) float64 {
	var total float64
	for pin := range n.Pins {
		shortest := math.Inf(1)
		for _, e := range edges {
			if !e.Signal() {
				continue
			}
			for k, p := range e.Ends {
				if p.ID != n.ID || p.PadID != pin {
					continue
				}
				other := e.Ends[1-k]
				if other.ID == n.ID {
					continue
				}
				v, ok := g.Node(other.ID)
				if !ok {
					continue
				}
				d := netlist.PadPosition(n, p.PadPos).Dist(netlist.PadPosition(v, other.PadPos))
				shortest = min(shortest, d)
			}
		}
		if !math.IsInf(shortest, 1) {
			total += shortest
		}
	}
	return total
}

// hpwl sums the wirelength of every net in edges once.
func hpwl(g *netlist.Graph, edges []netlist.Edge) float64 {
	seen := map[int]bool{}
	var total float64
	for _, e := range edges {
		if seen[e.NetID] {
			continue
		}
		seen[e.NetID] = true
		if v, ok := g.HPWLOfNet(e.NetID, true); ok {
			total += v
		}
	}
	return total
}

// Update measures every working component and replaces each stored metric
// that is unset or worse. The graph's cached HPWL becomes the sum of the
// stored HPWL optimals and the pristine set receives the new values.
func Update(g *netlist.Graph, logger *log.Logger) (Summary, error) {
	if logger == nil {
		logger = log.Default()
	}
	nodes := g.Nodes()
	s := Summary{Total: len(nodes)}

	for _, node := range nodes {
		m, err := Compute(g, node.ID)
		if err != nil {
			return s, err
		}
		n, err := g.NodeRef(node.ID)
		if err != nil {
			return s, err
		}

		before := n.Optimal
		changed := false
		if n.Optimal.EuclideanUnset() || m.Euclidean < n.Optimal.Euclidean {
			n.Optimal.Euclidean = m.Euclidean
			changed = true
		}
		if n.Optimal.HPWLUnset() || m.HPWL < n.Optimal.HPWL {
			n.Optimal.HPWL = m.HPWL
			changed = true
		}
		n.Optimal.ID, n.Optimal.Name = n.ID, n.Name
		s.HPWL += n.Optimal.HPWL

		if changed {
			s.Updated++
			s.Changes = append(s.Changes, Change{ID: n.ID, Name: n.Name, Before: before, After: n.Optimal})
			logger.Debug("optimal improved", "id", n.ID, "name", n.Name,
				"euclidean", n.Optimal.Euclidean, "hpwl", n.Optimal.HPWL)
		}
	}

	g.SetHPWL(s.HPWL)
	g.SyncPristineOptimals()
	return s, nil
}

// Apply stores opts on the graph, skipping records whose component no
// longer exists. It returns the number applied.
func Apply(g *netlist.Graph, opts []netlist.Optimal, logger *log.Logger) int {
	if logger == nil {
		logger = log.Default()
	}
	applied := 0
	for _, o := range opts {
		if err := g.SetOptimal(o); err != nil {
			logger.Warn("skipping optimal", "id", o.ID, "name", o.Name, "err", err)
			continue
		}
		applied++
	}
	return applied
}

// Collect returns the optimal of every working component keyed by the
// component's id and name.
func Collect(g *netlist.Graph) []netlist.Optimal {
	nodes := g.Nodes()
	out := make([]netlist.Optimal, len(nodes))
	for i, n := range nodes {
		out[i] = n.Optimal
		out[i].ID, out[i].Name = n.ID, n.Name
	}
	return out
}
