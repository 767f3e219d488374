package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pcbgraph/pkg/netlist"
	"github.com/matzehuels/pcbgraph/pkg/render"
)

// Options configures diagram generation.
type Options struct {
	// Detailed labels components with their id, size and placement state
	// and fills placed components. When false, only the name is shown.
	Detailed bool
}

// header writes the opening of a digraph with a top title.
func header(buf *bytes.Buffer, title string) {
	buf.WriteString("digraph G {\n")
	buf.WriteString("  labelloc=\"t\";\n")
	fmt.Fprintf(buf, "  label=%q;\n", title)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")
}

// nodeKey returns the DOT identifier of component id: its name, or the id
// when the component has no name.
func nodeKey(g *netlist.Graph, id int) string {
	if name := g.NodeName(id); name != "" {
		return name
	}
	return strconv.Itoa(id)
}

func writeNodes(buf *bytes.Buffer, g *netlist.Graph, links []netlist.Link, opts Options) {
	if !opts.Detailed {
		return
	}
	seen := make(map[int]bool)
	for _, l := range links {
		for _, id := range []int{l.A, l.B} {
			if seen[id] {
				continue
			}
			seen[id] = true
			n, ok := g.Node(id)
			if !ok {
				continue
			}
			label := fmt.Sprintf("%s\nid: %d\nsize: %gx%g", nodeKey(g, id), n.ID, n.Size.X, n.Size.Y)
			attrs := []string{fmt.Sprintf("label=%q", label)}
			if n.Placed {
				attrs = append(attrs, "fillcolor=lightgrey")
			}
			fmt.Fprintf(buf, "  %q [%s];\n", nodeKey(g, id), strings.Join(attrs, ", "))
		}
	}
	buf.WriteString("\n")
}

func linksDOT(g *netlist.Graph, title string, links []netlist.Link, opts Options) string {
	var buf bytes.Buffer
	header(&buf, title)
	writeNodes(&buf, g, links, opts)
	for _, l := range links {
		fmt.Fprintf(&buf, "  %q -> %q [dir=none];\n", nodeKey(g, l.A), nodeKey(g, l.B))
	}
	buf.WriteString("}\n")
	return buf.String()
}

// PowerRailDOT draws every component pair joined on the given rail, one
// edge per pair.
func PowerRailDOT(g *netlist.Graph, rail int, opts Options) string {
	return linksDOT(g, fmt.Sprintf("power_rail: %d", rail), g.EdgesByPowerRail(rail), opts)
}

// NetDOT draws the components of one net, one edge per pair.
func NetDOT(g *netlist.Graph, net int, opts Options) string {
	name, _ := g.NetName(net)
	name = strings.ReplaceAll(name, `"`, "")
	return linksDOT(g, fmt.Sprintf("net_id: %d,%s", net, name), g.EdgesByNet(net), opts)
}

// InstanceDOT draws the components joined to instance id on the given
// rail, one edge per pair.
func InstanceDOT(g *netlist.Graph, id, rail int, opts Options) string {
	title := fmt.Sprintf("inst_id: %d,%s", id, strings.ReplaceAll(g.NodeName(id), `"`, ""))
	return linksDOT(g, title, g.EdgesByInstance(id, rail), opts)
}

// InstancePadsDOT draws every pad-level edge of instance id on the given
// rail. Vertices are "<component>_<pad>"; the pads of id are highlighted.
func InstancePadsDOT(g *netlist.Graph, id, rail int) string {
	var buf bytes.Buffer
	header(&buf, fmt.Sprintf("pads_inst_id: %d,%s", id, strings.ReplaceAll(g.NodeName(id), `"`, "")))

	edges := g.AllEdgesOfInstance(id, rail)
	own := make(map[string]bool)
	for _, e := range edges {
		for _, p := range e.Ends {
			key := padKey(g, p)
			if p.ID == id && !own[key] {
				own[key] = true
				fmt.Fprintf(&buf, "  %q [color=chocolate, fillcolor=burlywood1];\n", key)
			}
		}
	}
	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [dir=none];\n", padKey(g, e.Ends[0]), padKey(g, e.Ends[1]))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func padKey(g *netlist.Graph, p netlist.Endpoint) string {
	pad := p.PadName
	if pad == "" {
		pad = strconv.Itoa(p.PadID)
	}
	return nodeKey(g, p.ID) + "_" + pad
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// The SVG can be converted further with [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
