package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var showNodes, showNets bool

	cmd := &cobra.Command{
		Use:   "stats [design]",
		Short: "Summarize a design",
		Long: `Summarize a design: component and connection counts, placement progress,
board size, reference dimensions used by feature normalization, and the
wirelength of placed components.

The design argument is a .nodes file, the path of a design without
extension, or a directory holding exactly one design.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.loadDesign(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printDesignStats(d)
			if showNodes {
				fmt.Println(nodesTable(d.graph))
			}
			if showNets {
				fmt.Println(netsTable(d.graph))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showNodes, "nodes", false, "list components")
	cmd.Flags().BoolVar(&showNets, "nets", false, "list nets with their wirelength")

	return cmd
}

func printDesignStats(d *design) {
	g := d.graph
	fmt.Println(StyleTitle.Render(d.paths.Name))
	printKeyValue("Components", strconv.Itoa(g.NodeCount()))
	printKeyValue("Edges", strconv.Itoa(g.EdgeCount()))
	printKeyValue("Nets", fmt.Sprintf("%d (%d signal)", len(g.NetIDs()), len(g.Nets(0))))
	printKeyValue("Placed", fmt.Sprintf("%d/%d (%.0f%%)", g.PlacedCount(), g.NodeCount(), 100*g.CompletionRatio()))
	if d.board.Width() > 0 && d.board.Height() > 0 {
		printKeyValue("Board", fmt.Sprintf("%s x %s", formatFloat(d.board.Width()), formatFloat(d.board.Height())))
	}
	largest := g.LargestAreaSize()
	printKeyValue("Largest", fmt.Sprintf("x %s, y %s, area %s x %s",
		formatFloat(g.LargestX()), formatFloat(g.LargestY()), formatFloat(largest.X), formatFloat(largest.Y)))
	printKeyValue("Max pins", strconv.Itoa(g.MaxPins()))
	printKeyValue("HPWL", formatFloat(g.HPWL(false)))
}

func nodesTable(g *netlist.Graph) string {
	var rows [][]string
	for _, n := range g.Nodes() {
		rows = append(rows, []string{
			strconv.Itoa(n.ID),
			n.Name,
			fmt.Sprintf("%s x %s", formatFloat(n.Size.X), formatFloat(n.Size.Y)),
			fmt.Sprintf("(%s, %s)", formatFloat(n.Pos.X), formatFloat(n.Pos.Y)),
			strconv.FormatFloat(n.Orientation, 'f', -1, 64),
			strconv.Itoa(n.Pins),
			yesNo(n.Placed),
		})
	}
	return renderTable([]string{"ID", "Name", "Size", "Position", "Rot", "Pins", "Placed"}, rows, 6)
}

func netsTable(g *netlist.Graph) string {
	var rows [][]string
	for _, id := range g.NetIDs() {
		name, _ := g.NetName(id)
		hpwl := "-"
		if v, ok := g.HPWLOfNet(id, true); ok {
			hpwl = formatFloat(v)
		}
		rows = append(rows, []string{strconv.Itoa(id), name, strconv.Itoa(g.ComponentsInNet(name)), hpwl})
	}
	return renderTable([]string{"ID", "Net", "Components", "HPWL (all)"}, rows, -1)
}
