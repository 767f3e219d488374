package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pcbgraph/pkg/cache"
	"github.com/matzehuels/pcbgraph/pkg/dataset"
	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/feature"
	pcbio "github.com/matzehuels/pcbgraph/pkg/io"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
	"github.com/matzehuels/pcbgraph/pkg/render/nodelink"
	"github.com/matzehuels/pcbgraph/pkg/render/placement"
)

// Export formats.
const (
	formatDOT     = "dot"
	formatGML     = "gml"
	formatSVG     = "svg"
	formatPNG     = "png"
	formatPDF     = "pdf"
	formatDXF     = "dxf"
	formatJSON    = "json"
	formatXLSX    = "xlsx"
	formatRecords = "records"
)

var exportFormats = []string{
	formatDOT, formatGML, formatSVG, formatPNG, formatPDF,
	formatDXF, formatJSON, formatXLSX, formatRecords,
}

// exportOpts holds the flags of the export command.
type exportOpts struct {
	format   string
	output   string
	rail     int
	net      string
	instance string
	pads     bool
	detailed bool
	grid     float64
	scale    float64
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [design]",
		Short: "Export a design to graph, drawing or data formats",
		Long: `Export a design.

Connectivity diagrams (dot, gml, svg, png) show the component pairs joined
on one power rail (--rail, 0 for signal nets), on one net (--net), or
around one component (--instance, with --pads for pad-level edges).

Placement drawings (pdf, dxf) show every footprint on the board outline,
optionally snapped to a grid with --grid.

Data formats: json writes a snapshot that can be loaded back, xlsx writes
the feature vectors of every component, and records writes node, edge,
optimal and board files into the -o directory.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.format = strings.ToLower(opts.format)
			if err := errs.ValidateFormat(opts.format, exportFormats); err != nil {
				return err
			}
			if opts.format == formatRecords && opts.output == "" {
				return errs.New(errs.ErrCodeInvalidInput, "records export needs an output directory (-o)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatDOT, "dot, gml, svg, png, pdf, dxf, json, xlsx or records")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <design>.<format>)")
	cmd.Flags().IntVar(&opts.rail, "rail", 0, "power rail of connectivity diagrams (0 for signal nets)")
	cmd.Flags().StringVar(&opts.net, "net", "", "draw one net by name")
	cmd.Flags().StringVar(&opts.instance, "instance", "", "draw the neighborhood of one component")
	cmd.Flags().BoolVar(&opts.pads, "pads", false, "draw pad-level edges with --instance")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label components with id, size and placement state")
	cmd.Flags().Float64Var(&opts.grid, "grid", 0, "snap drawn footprints to this grid resolution")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG scale factor")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, arg string, opts exportOpts) error {
	prog := newProgress(loggerFromContext(ctx))

	d, err := c.loadDesign(ctx, arg)
	if err != nil {
		return err
	}
	g := d.graph

	out := opts.output
	if out == "" {
		out = d.paths.Name + "." + opts.format
	}

	switch opts.format {
	case formatDOT, formatSVG, formatPNG:
		dot, err := diagram(g, opts)
		if err != nil {
			return err
		}
		if err := writeDiagram(ctx, out, dot, opts); err != nil {
			return err
		}
	case formatGML:
		err = writeText(out, nodelink.GML(g, opts.rail))
	case formatPDF:
		err = placement.WritePDF(out, g, d.board, placement.Options{GridResolution: opts.grid})
	case formatDXF:
		err = placement.WriteDXF(out, g, d.board, placement.Options{GridResolution: opts.grid})
	case formatJSON:
		err = pcbio.ExportJSON(g, out)
	case formatXLSX:
		err = c.exportFeatures(ctx, g, out)
	case formatRecords:
		if err := os.MkdirAll(out, 0o755); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", out)
		}
		err = pcbio.SaveGraph(pcbio.PathsFor(out, d.paths.Name), g, d.board)
	}
	if err != nil {
		return err
	}

	prog.done("Exported " + opts.format)
	printSuccess("Exported %s", d.paths.Name)
	printFile(out)
	return nil
}

// diagram builds the DOT source selected by opts.
func diagram(g *netlist.Graph, opts exportOpts) (string, error) {
	dopts := nodelink.Options{Detailed: opts.detailed}
	switch {
	case opts.net != "":
		id, ok := g.NetIDByName(opts.net)
		if !ok {
			return "", errs.New(errs.ErrCodeNetNotFound, "net %q", opts.net)
		}
		return nodelink.NetDOT(g, id, dopts), nil
	case opts.instance != "":
		id, err := resolveNode(g, opts.instance)
		if err != nil {
			return "", err
		}
		if opts.pads {
			return nodelink.InstancePadsDOT(g, id, opts.rail), nil
		}
		return nodelink.InstanceDOT(g, id, opts.rail, dopts), nil
	default:
		return nodelink.PowerRailDOT(g, opts.rail, dopts), nil
	}
}

func writeDiagram(ctx context.Context, path, dot string, opts exportOpts) error {
	var (
		data []byte
		err  error
	)
	switch opts.format {
	case formatSVG:
		spinner := newSpinnerWithContext(ctx, "Rendering SVG...")
		spinner.Start()
		data, err = nodelink.RenderSVG(ctx, dot)
		spinner.Stop()
	case formatPNG:
		spinner := newSpinnerWithContext(ctx, "Rendering PNG...")
		spinner.Start()
		data, err = nodelink.RenderPNG(ctx, dot, opts.scale)
		spinner.Stop()
	default:
		data = []byte(dot)
	}
	if err != nil {
		return err
	}
	return writeBytes(path, data)
}

// exportFeatures writes the configured feature vectors of every component
// to a workbook.
func (c *CLI) exportFeatures(ctx context.Context, g *netlist.Graph, path string) error {
	fo := c.config.featureOptions()
	enc := feature.NewEncoder(g, fo)
	ids := make([]int, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	rows, _, err := c.encodeRows(ctx, cache.NewNullCache(), enc, g, ids, nil)
	if err != nil {
		return err
	}
	k := enc.Options().MaxNeighbors
	return dataset.WriteXLSX(path, rows, dataset.Options{MaxNeighbors: k, Simplified: fo.Simplified})
}

func writeText(path, s string) error {
	return writeBytes(path, []byte(s))
}

func writeBytes(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
