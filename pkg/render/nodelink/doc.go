// Package nodelink renders netlist connectivity as node-link diagrams.
//
// # Overview
//
// Components appear as boxes and the pad connections between them as
// undirected edges. Parallel connections between the same two components
// collapse into one edge, except in [InstancePadsDOT], which draws one
// vertex per pad.
//
// # Usage
//
// Select a slice of the netlist, then render it with Graphviz:
//
//	dot := nodelink.PowerRailDOT(g, 0, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The available selections are:
//
//   - [PowerRailDOT]: every component pair on one rail (0 for signals)
//   - [NetDOT]: the components of one net
//   - [InstanceDOT]: the components joined to one instance
//   - [InstancePadsDOT]: the pad-level edges of one instance
//
// [GML] writes the same rail selection as a GML document for tools that
// do not read DOT.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PNG conversion requires librsvg (rsvg-convert).
package nodelink
