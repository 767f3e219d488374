package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	pcbio "github.com/matzehuels/pcbgraph/pkg/io"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
	"github.com/matzehuels/pcbgraph/pkg/optimals"
)

// optimalsCommand creates the optimals command.
func (c *CLI) optimalsCommand() *cobra.Command {
	var (
		write   bool
		noStore bool
		changes bool
	)

	cmd := &cobra.Command{
		Use:   "optimals [design]",
		Short: "Measure and record reference optimals",
		Long: `Measure every component in its current position and keep the best
Euclidean and HPWL values seen so far as its reference optimal.

Optimals from the configured store ([store] in the config: a directory of
record files, or MongoDB) replace those of the .optimals file before
measuring, and the improved set is saved back. --write also rewrites the
design's .optimals file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			d, err := c.loadDesign(ctx, args[0])
			if err != nil {
				return err
			}
			g, name := d.graph, d.paths.Name

			var store optimals.Store
			if !noStore {
				store, err = c.newStore(ctx)
				if err != nil {
					return err
				}
				defer store.Close(ctx)

				stored, err := store.Load(ctx, name)
				if err != nil {
					return err
				}
				if n := optimals.Apply(g, stored, logger); n > 0 {
					logger.Debug("applied stored optimals", "design", name, "count", n)
				}
			}

			summary, err := optimals.Update(g, logger)
			if err != nil {
				return err
			}

			if store != nil {
				if err := store.Save(ctx, name, optimals.Collect(g)); err != nil {
					return err
				}
			}
			if write {
				if err := pcbio.SaveGraph(pcbio.Paths{Optimals: d.paths.Optimals}, g, d.board); err != nil {
					return err
				}
			}

			printSuccess("Improved %d of %d components (%.0f%%)", summary.Updated, summary.Total, 100*summary.Rate())
			printKeyValue("HPWL (sum)", formatFloat(summary.HPWL))
			if changes && len(summary.Changes) > 0 {
				fmt.Println(changesTable(summary.Changes))
			}
			if write {
				printFile(d.paths.Optimals)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "rewrite the design's .optimals file")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "skip the optimals store")
	cmd.Flags().BoolVar(&changes, "changes", false, "list improved components")

	return cmd
}

func changesTable(changes []optimals.Change) string {
	rows := make([][]string, len(changes))
	for i, ch := range changes {
		rows[i] = []string{
			strconv.Itoa(ch.ID),
			ch.Name,
			metric(ch.Before.Euclidean) + " " + iconArrow + " " + metric(ch.After.Euclidean),
			metric(ch.Before.HPWL) + " " + iconArrow + " " + metric(ch.After.HPWL),
		}
	}
	return renderTable([]string{"ID", "Name", "Euclidean", "HPWL"}, rows, -1)
}

// metric formats an optimal value, showing unset values as "-".
func metric(v float64) string {
	if v >= netlist.Unset {
		return "-"
	}
	return formatFloat(v)
}
