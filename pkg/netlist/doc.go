// Package netlist models a printed circuit board design as a graph of
// component instances (nodes) joined by pad to pad links (edges), and
// derives placement metrics from it.
//
// # Overview
//
// A [Graph] is built from two flat record streams, one line per node and
// one per edge. Edges are denormalized: each carries the instance id, pad
// id, pad size and pad-local offset of both of its pads, plus the net it
// belongs to and a power rail classifier (0 for signal nets, 1 and above
// for specific power or ground rails). Connectivity is re-derived from the
// edge list on demand rather than stored as adjacency.
//
// # Records
//
// Nodes, edges and optimals have a "short" and a "long" comma separated
// layout; see [ParseNode], [ParseEdge] and [ParseOptimal]. Parsing is
// strict: a record with the wrong number of fields, or a field that does
// not parse, yields an error with code MALFORMED_RECORD whose cause is an
// [errors.RecordError] naming the first failing field.
//
// # Connectivity
//
// [Graph.NeighborTally] ranks the neighbors of an instance by the number
// of edges they share, ignoring self-loops. Ties keep the order in which
// neighbors first appear in the edge list; feature vectors depend on this
// order. [Graph.EmbedNeighbors] caches the signal-net tally on every node.
//
// # Wirelength
//
// Absolute pad positions rotate the pad-local offset with
// [geom.KicadRotate] and add the component centre. [Graph.HPWLOfNet]
// measures one net, [Graph.HPWLOfInstance] the contribution of one
// instance against its placed neighbors, and [Graph.HPWL],
// [Graph.HPWLFull] and [Graph.HPWLIgnoring] the whole design.
//
// # Placement
//
// Every node is either unplaced or placed. [Graph.SetCentroid],
// [Graph.SetOrientation] and [Graph.SwapSize] edit an unplaced node;
// [Graph.Confirm] places it. All four refuse a placed node with code
// ALREADY_PLACED. Only [Graph.Reset] returns nodes to the unplaced state,
// and it does so for the whole graph.
//
// [errors.RecordError]: github.com/matzehuels/pcbgraph/pkg/errors.RecordError
package netlist
