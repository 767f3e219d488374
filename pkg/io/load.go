package io

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/pcbgraph/pkg/board"
	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

// File extensions of the record files.
const (
	ExtNodes    = ".nodes"
	ExtEdges    = ".edges"
	ExtOptimals = ".optimals"
	ExtBoard    = ".board"
)

// Paths locates the record files of one design. Optimals and Board may be
// empty.
type Paths struct {
	Name     string
	Nodes    string
	Edges    string
	Optimals string
	Board    string
}

// PathsFor returns the conventional paths of design name inside dir.
func PathsFor(dir, name string) Paths {
	base := filepath.Join(dir, name)
	return Paths{
		Name:     name,
		Nodes:    base + ExtNodes,
		Edges:    base + ExtEdges,
		Optimals: base + ExtOptimals,
		Board:    base + ExtBoard,
	}
}

// Discover resolves arg to a design. arg may be a ".nodes" file, a path
// without extension, or a directory holding exactly one ".nodes" file.
func Discover(arg string) (Paths, error) {
	info, err := os.Stat(arg)
	if err == nil && info.IsDir() {
		matches, err := filepath.Glob(filepath.Join(arg, "*"+ExtNodes))
		if err != nil {
			return Paths{}, errs.Wrap(errs.ErrCodeInvalidPath, err, "scan %s", arg)
		}
		switch len(matches) {
		case 0:
			return Paths{}, errs.New(errs.ErrCodeFileNotFound, "no %s file in %s", ExtNodes, arg)
		case 1:
			arg = matches[0]
		default:
			return Paths{}, errs.New(errs.ErrCodeInvalidPath, "%s holds %d designs, name one", arg, len(matches))
		}
	}
	dir, file := filepath.Split(arg)
	return PathsFor(dir, strings.TrimSuffix(file, ExtNodes)), nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	f, err := open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	v, err := read(f)
	if err != nil {
		return v, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// LoadGraph builds a graph from the record files in p. Missing optimals or
// board files are not an error; the returned board is then the zero board.
// Every edge must reference a loaded node.
func LoadGraph(p Paths, format netlist.Format) (*netlist.Graph, board.Board, error) {
	var b board.Board

	nodes, err := readFile(p.Nodes, func(r io.Reader) ([]netlist.Node, error) { return ReadNodes(r, format) })
	if err != nil {
		return nil, b, err
	}
	edges, err := readFile(p.Edges, func(r io.Reader) ([]netlist.Edge, error) { return ReadEdges(r, format) })
	if err != nil {
		return nil, b, err
	}

	var opts []netlist.Optimal
	if exists(p.Optimals) {
		if opts, err = readFile(p.Optimals, ReadOptimals); err != nil {
			return nil, b, err
		}
	}

	g, err := Build(p.Name, nodes, edges, opts)
	if err != nil {
		return nil, b, fmt.Errorf("%s: %w", p.Nodes, err)
	}
	g.Source = p.Nodes

	if exists(p.Board) {
		b, err = readFile(p.Board, ReadBoard)
		if err != nil {
			return nil, b, err
		}
		b.Name = p.Name
	}
	return g, b, nil
}

// Build assembles a graph from parsed records. Every edge must reference
// one of nodes and every optimal must name one of them.
func Build(name string, nodes []netlist.Node, edges []netlist.Edge, opts []netlist.Optimal) (*netlist.Graph, error) {
	g := netlist.New(name)
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for i, e := range edges {
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	for _, o := range opts {
		if err := g.SetOptimal(o); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// SaveGraph writes the working state of g to the files in p. Empty paths
// are skipped.
func SaveGraph(p Paths, g *netlist.Graph, b board.Board) error {
	nodes := g.Nodes()
	writes := []struct {
		path  string
		write func(io.Writer) error
	}{
		{p.Nodes, func(w io.Writer) error { return WriteNodes(w, nodes) }},
		{p.Edges, func(w io.Writer) error { return WriteEdges(w, g.Edges()) }},
		{p.Optimals, func(w io.Writer) error { return WriteOptimals(w, nodes) }},
		{p.Board, func(w io.Writer) error { return WriteBoard(w, b) }},
	}
	for _, wr := range writes {
		if wr.path == "" {
			continue
		}
		if err := writeFile(wr.path, wr.write); err != nil {
			return err
		}
	}
	return nil
}
