package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var ordering string

	cmd := &cobra.Command{
		Use:   "browse [design]",
		Short: "Browse components interactively",
		Long: `Browse the components of a design in the terminal. The list shows
placement state and marks the next component to place; enter shows the
neighbors, nets and wirelength of the selected component.`,
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
			if d.graph.NodeCount() == 0 {
				printWarning("%s has no components", d.paths.Name)
				return nil
			}

			p := tea.NewProgram(NewNodeListModel(d.graph, ordering), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&ordering, "ordering", netlist.OrderConnectionDensity, "ordering used to mark the next component")

	return cmd
}
