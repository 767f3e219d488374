// Package pkg provides the libraries behind pcbgraph.
//
// # Overview
//
// pcbgraph treats a printed circuit board design as a netlist graph:
// components are nodes, and every pad-to-pad connection on a net is an
// edge. On top of that graph it measures wirelength, drives component
// placement one step at a time, and encodes components as fixed-width
// feature vectors for learning placement policies.
//
// # Architecture
//
// The typical data flow:
//
//	.nodes / .edges / .optimals / .board records
//	         ↓
//	    [io] package (parse records, discover designs, snapshots)
//	         ↓
//	    [netlist] package (graph, connectivity, HPWL, placement state)
//	         ↓
//	    [feature], [optimals], [render]
//	         ↓
//	    CSV/XLSX vectors, optimal records, DOT/SVG/PDF/DXF drawings
//
// # Main Packages
//
// ## Domain
//
// [geom] - Points, rotation about the origin, and point sets with bounding
// boxes and half-perimeters.
//
// [board] - The board outline read from key/value records.
//
// [netlist] - The graph itself: node, edge and optimal records, the
// connectivity index, HPWL, the placement state machine, and mutation.
//
// [feature] - The full and simplified feature vector layouts and their
// normalization.
//
// [optimals] - Measurement of reference optimals and their stores
// (record files or MongoDB).
//
// ## Output
//
// [io] - Record readers and writers, design discovery, and JSON snapshots.
//
// [render] - Graphviz diagrams ([render/nodelink]) and board drawings
// ([render/placement]).
//
// [dataset] - Feature vectors as XLSX workbooks.
//
// ## Infrastructure
//
// [cache] - Feature vector cache with file, Redis and null backends.
//
// [server] - HTTP API over in-memory placement sessions.
//
// [observability] - Hooks for load, HPWL, placement, cache and HTTP events.
//
// [errors] - Structured error codes shared by the CLI and the API.
//
// [buildinfo] - Version information injected at build time.
//
// # Common Workflows
//
// Load a design and measure it:
//
//	paths, _ := io.Discover("designs/amp.nodes")
//	g, b, _ := io.LoadGraph(paths, netlist.Long)
//	fmt.Println(g.HPWL(false), b.Width())
//
// Place the next component:
//
//	id, ok := g.NextToPlace(netlist.OrderConnectionDensity)
//	if ok {
//	    _ = g.SetCentroid(id, 12.5, 8)
//	    _ = g.Confirm(id)
//	}
//
// Encode features:
//
//	enc := feature.NewEncoder(g, feature.Options{MaxNeighbors: 3, Normalize: true, GridX: 1, GridY: 1})
//	rows, _ := enc.Rows(ctx)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/netlist/...      # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/geom
// [board]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/board
// [netlist]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/netlist
// [feature]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/feature
// [optimals]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/optimals
// [io]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/render/nodelink
// [render/placement]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/render/placement
// [dataset]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/dataset
// [cache]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pcbgraph/pkg/buildinfo
package pkg
