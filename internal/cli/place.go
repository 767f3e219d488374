package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	pcbio "github.com/matzehuels/pcbgraph/pkg/io"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
	"github.com/matzehuels/pcbgraph/pkg/observability"
)

// nextCommand creates the next command.
func (c *CLI) nextCommand() *cobra.Command {
	var ordering string

	cmd := &cobra.Command{
		Use:   "next [design]",
		Short: "Show the next component to place",
		Long: `Show the next unplaced component under an ordering:

  connection_density  most signal connections first (default)
  area                largest footprint first
  first               file order`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("ordering") {
				ordering = c.config.Placement.Ordering
			}
			if err := errs.ValidateOrdering(ordering, netlist.Orderings); err != nil {
				return err
			}
			d, err := c.loadDesign(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			g := d.graph
			id, ok := g.NextToPlace(ordering)
			if !ok {
				printSuccess("All %d components placed", g.NodeCount())
				return nil
			}
			n, _ := g.Node(id)
			printKeyValue("Next", n.Name)
			printKeyValue("ID", strconv.Itoa(id))
			printKeyValue("Ordering", ordering)
			printKeyValue("Remaining", strconv.Itoa(g.UnplacedCount()))
			printNextStep("Place it", appName+" place "+args[0]+" "+n.Name+" --x X --y Y --confirm")
			return nil
		},
	}

	cmd.Flags().StringVar(&ordering, "ordering", netlist.OrderConnectionDensity, "connection_density, area or first")

	return cmd
}

// placeOpts holds the flags of the place command.
type placeOpts struct {
	x, y    float64
	rotate  float64
	confirm bool
	output  string
}

// placeCommand creates the place command.
func (c *CLI) placeCommand() *cobra.Command {
	var opts placeOpts

	cmd := &cobra.Command{
		Use:   "place [design] [component]",
		Short: "Move, rotate and confirm a component",
		Long: `Move a component to a centroid, set its orientation, and optionally
confirm it as placed. The component is named by id or reference
designator. Placed components can no longer be moved.

The design is rewritten in place unless -o names another directory.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("x") != flags.Changed("y") {
				return errs.New(errs.ErrCodeInvalidInput, "--x and --y must be given together")
			}
			return c.runPlace(cmd.Context(), args, opts, flags.Changed("x"), flags.Changed("rotate"))
		},
	}

	cmd.Flags().Float64Var(&opts.x, "x", 0, "centroid x")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "centroid y")
	cmd.Flags().Float64Var(&opts.rotate, "rotate", 0, "orientation in degrees")
	cmd.Flags().BoolVar(&opts.confirm, "confirm", false, "mark the component as placed")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default: rewrite the design)")

	return cmd
}

func (c *CLI) runPlace(ctx context.Context, args []string, opts placeOpts, move, rotate bool) error {
	d, err := c.loadDesign(ctx, args[0])
	if err != nil {
		return err
	}
	g := d.graph
	id, err := resolveNode(g, args[1])
	if err != nil {
		return err
	}

	if move {
		if err := g.SetCentroid(id, opts.x, opts.y); err != nil {
			return err
		}
	}
	if rotate {
		if err := g.SetOrientation(id, opts.rotate); err != nil {
			return err
		}
	}
	if opts.confirm {
		if err := g.Confirm(id); err != nil {
			return err
		}
		observability.Graph().OnPlace(ctx, id, g.PlacedCount(), g.NodeCount())
	}

	paths, err := c.save(d, opts.output)
	if err != nil {
		return err
	}

	n, _ := g.Node(id)
	printSuccess("%s at (%s, %s), %s°", n.Name, formatFloat(n.Pos.X), formatFloat(n.Pos.Y), strconv.FormatFloat(n.Orientation, 'f', -1, 64))
	printKeyValue("Placed", strconv.Itoa(g.PlacedCount())+"/"+strconv.Itoa(g.NodeCount()))
	printKeyValue("HPWL", formatFloat(g.HPWL(false)))
	printFile(paths.Nodes)
	if g.IsDone() {
		printInfo("Every component is placed")
	}
	return nil
}

// pruneCommand creates the prune command.
func (c *CLI) pruneCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "prune [design]",
		Short: "Drop unplaced components",
		Long: `Remove every unplaced component and its edges, then renumber the
remaining components densely from zero. The design is rewritten in place
unless -o names another directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.loadDesign(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			g := d.graph
			nodes, edges := g.RemoveUnplaced()
			g.Reorder()

			paths, err := c.save(d, output)
			if err != nil {
				return err
			}
			printSuccess("Removed %d components and %d edges", nodes, edges)
			printStats(g.NodeCount(), g.EdgeCount(), false)
			printFile(paths.Nodes)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: rewrite the design)")

	return cmd
}

// save writes d back to its own files, or under dir when dir is set.
// Records are always written in the long format.
func (c *CLI) save(d *design, dir string) (pcbio.Paths, error) {
	paths := d.paths
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return paths, errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", dir)
		}
		paths = pcbio.PathsFor(dir, d.paths.Name)
	}
	if err := pcbio.SaveGraph(paths, d.graph, d.board); err != nil {
		return paths, err
	}
	return paths, nil
}

// resolveNode accepts a node id or a component name.
func resolveNode(g *netlist.Graph, ref string) (int, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		if _, ok := g.Node(id); ok {
			return id, nil
		}
		return 0, errs.New(errs.ErrCodeNodeNotFound, "node %d", id)
	}
	for _, n := range g.Nodes() {
		if n.Name == ref {
			return n.ID, nil
		}
	}
	return 0, errs.New(errs.ErrCodeNodeNotFound, "node %q", ref)
}
