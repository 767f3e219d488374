package io

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/pcbgraph/pkg/board"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

// Precision is the number of decimals written for every real.
const Precision = 8

// eachLine calls fn with every non-blank line of r and its 1-based number.
func eachLine(r io.Reader, fn func(n int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := fn(n, line); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

// ReadNodes parses node records from r.
func ReadNodes(r io.Reader, format netlist.Format) ([]netlist.Node, error) {
	var out []netlist.Node
	err := eachLine(r, func(_ int, line string) error {
		n, err := netlist.ParseNode(line, format)
		if err != nil {
			return err
		}
		out = append(out, n)
		return nil
	})
	return out, err
}

// ReadEdges parses edge records from r.
func ReadEdges(r io.Reader, format netlist.Format) ([]netlist.Edge, error) {
	var out []netlist.Edge
	err := eachLine(r, func(_ int, line string) error {
		e, err := netlist.ParseEdge(line, format)
		if err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}

// ReadOptimals parses optimal records from r.
func ReadOptimals(r io.Reader) ([]netlist.Optimal, error) {
	var out []netlist.Optimal
	err := eachLine(r, func(_ int, line string) error {
		o, err := netlist.ParseOptimal(line)
		if err != nil {
			return err
		}
		out = append(out, o)
		return nil
	})
	return out, err
}

// ReadBoard parses board bound lines from r. Bounds missing from r stay
// zero.
func ReadBoard(r io.Reader) (board.Board, error) {
	var b board.Board
	err := eachLine(r, func(_ int, line string) error {
		return b.ParseLine(line)
	})
	return b, err
}

func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteNodes writes the long records of nodes to w.
func WriteNodes(w io.Writer, nodes []netlist.Node) error {
	lines := make([]string, len(nodes))
	for i, n := range nodes {
		lines[i] = n.Record(netlist.Long, Precision)
	}
	return writeLines(w, lines)
}

// WriteEdges writes the long records of edges to w.
func WriteEdges(w io.Writer, edges []netlist.Edge) error {
	lines := make([]string, len(edges))
	for i, e := range edges {
		lines[i] = e.Record(netlist.Long, Precision)
	}
	return writeLines(w, lines)
}

// WriteOptimals writes the optimal record of every node to w, keyed by
// the node's id and name.
func WriteOptimals(w io.Writer, nodes []netlist.Node) error {
	opts := make([]netlist.Optimal, len(nodes))
	for i, n := range nodes {
		opts[i] = n.Optimal
		opts[i].ID, opts[i].Name = n.ID, n.Name
	}
	return WriteOptimalRecords(w, opts)
}

// WriteOptimalRecords writes opts to w as they are.
func WriteOptimalRecords(w io.Writer, opts []netlist.Optimal) error {
	lines := make([]string, len(opts))
	for i, o := range opts {
		lines[i] = o.Record(Precision)
	}
	return writeLines(w, lines)
}

// WriteBoard writes the four bound lines of b to w.
func WriteBoard(w io.Writer, b board.Board) error {
	return writeLines(w, b.Lines())
}
