package cli

import (
	"time"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/observability"
)

// hpwlCommand creates the hpwl command.
func (c *CLI) hpwlCommand() *cobra.Command {
	var (
		net      string
		instance string
		unplaced bool
		full     bool
		ignore   []string
	)

	cmd := &cobra.Command{
		Use:   "hpwl [design]",
		Short: "Compute half-perimeter wirelength",
		Long: `Compute half-perimeter wirelength (HPWL).

Without flags the signal nets of placed components are summed. --net
reports one net, --instance the contribution of one component against its
neighbors, and --full every net with unplaced components at their current
positions. --ignore (or [hpwl] ignore_nets in the config) leaves named
nets out of the sum.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := c.loadDesign(ctx, args[0])
			if err != nil {
				return err
			}
			g := d.graph
			start := time.Now()

			switch {
			case net != "":
				id, ok := g.NetIDByName(net)
				if !ok {
					return errs.New(errs.ErrCodeNetNotFound, "net %q", net)
				}
				v, ok := g.HPWLOfNet(id, unplaced)
				observability.Graph().OnHPWL(ctx, "net", v, time.Since(start))
				if !ok {
					printWarning("net %s has fewer than two distinct pad positions", net)
					return nil
				}
				printKeyValue(net, formatFloat(v))

			case instance != "":
				id, err := resolveNode(g, instance)
				if err != nil {
					return err
				}
				g.EmbedNeighbors()
				v, _ := g.HPWLOfInstance(id)
				observability.Graph().OnHPWL(ctx, "instance", v, time.Since(start))
				printKeyValue(g.NodeName(id), formatFloat(v))

			default:
				if !cmd.Flags().Changed("ignore") {
					ignore = c.config.HPWL.IgnoreNets
				}
				useIgnore := len(ignore) > 0
				var v float64
				switch {
				case full:
					v = g.HPWLFull()
				case useIgnore:
					v = g.HPWLIgnoring(ignore)
				default:
					v = g.HPWL(unplaced)
				}
				observability.Graph().OnHPWL(ctx, "graph", v, time.Since(start))
				printKeyValue("HPWL", formatFloat(v))
				if useIgnore && !full {
					printDetail("ignoring %d nets", len(ignore))
				}
				printDetail("%d/%d components placed", g.PlacedCount(), g.NodeCount())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&net, "net", "", "report one net by name")
	cmd.Flags().StringVar(&instance, "instance", "", "report one component by id or name")
	cmd.Flags().BoolVar(&unplaced, "unplaced", false, "count unplaced components at their current positions")
	cmd.Flags().BoolVar(&full, "full", false, "sum every net, power rails included, counting all components")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "net names to leave out of the sum")

	return cmd
}
