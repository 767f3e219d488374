// Package render turns netlist graphs into pictures.
//
// # Subpackages
//
//   - [nodelink]: Graphviz diagrams of nets, rails and instances
//   - [placement]: board drawings of component footprints as PDF or DXF
//
// # Format Conversion
//
// [ToPNG] rasterizes any SVG with the external rsvg-convert tool (from
// librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/pcbgraph/pkg/render/nodelink
// [placement]: github.com/matzehuels/pcbgraph/pkg/render/placement
package render
