package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// NodeListModel - Interactive component browser
// =============================================================================

// NodeListModel is the bubbletea model of the browse command. It lists the
// working components with their placement state and shows the neighbors,
// nets and wirelength of the component under the cursor.
type NodeListModel struct {
	Graph    *netlist.Graph
	Nodes    []netlist.Node
	Next     int // next component to place, -1 when done
	Ordering string
	Cursor   int
	Height   int
	Offset   int
	Detail   bool
}

// NewNodeListModel creates a browser over g. The component that ordering
// would place next is marked.
func NewNodeListModel(g *netlist.Graph, ordering string) NodeListModel {
	g.EmbedNeighbors()
	next, ok := g.NextToPlace(ordering)
	if !ok {
		next = -1
	}
	return NodeListModel{
		Graph:    g,
		Nodes:    g.Nodes(),
		Next:     next,
		Ordering: ordering,
		Height:   15,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "n":
			if i := m.indexOf(m.Next); i >= 0 {
				m.Cursor = i
				if m.Cursor < m.Offset || m.Cursor >= m.Offset+m.Height {
					m.Offset = max(0, m.Cursor-m.Height/2)
				}
			}
		case "enter", " ":
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Detail {
			m.Height -= 8
		}
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeListModel) indexOf(id int) int {
	for i, n := range m.Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Graph.Name))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d/%d placed", m.Graph.PlacedCount(), m.Graph.NodeCount())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  n next (" + m.Ordering + ")  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Nodes))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := ""
		if n.ID == m.Next {
			mark = "next"
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(n.ID),
			n.Name,
			fmt.Sprintf("%gx%g", n.Size.X, n.Size.Y),
			fmt.Sprintf("(%g, %g)", n.Pos.X, n.Pos.Y),
			strconv.Itoa(n.Pins),
			yesNo(n.Placed),
			mark,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Size", "Position", "Pins", "Placed", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			switch {
			case col == 6 && m.Nodes[idx].Placed:
				base = base.Inherit(stylePlaced)
			case col == 6:
				base = base.Inherit(styleUnplaced)
			case col == 7:
				base = base.Foreground(colorYellow)
			}
			if idx == m.Cursor {
				return base.Inherit(listSelectedStyle)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))
	b.WriteString("\n")

	if m.Detail && m.Cursor < len(m.Nodes) {
		b.WriteString("\n")
		b.WriteString(m.detailView(m.Nodes[m.Cursor]))
	}
	return b.String()
}

// detailView describes one component: its signal neighbors, nets and
// wirelength against placed neighbors.
func (m NodeListModel) detailView(n netlist.Node) string {
	g := m.Graph
	var b strings.Builder

	b.WriteString(listSelectedStyle.Render(n.Name))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  id %d, %g°, %d SMD / %d TH pins", n.ID, n.Orientation, n.PinsSMD, n.PinsTH)))
	b.WriteString("\n")

	nbs := make([]string, 0, len(n.Neighbors))
	for _, t := range n.Neighbors {
		nbs = append(nbs, fmt.Sprintf("%s×%d", g.NodeName(t.ID), t.Count))
	}
	b.WriteString(detailLine("Neighbors", strings.Join(nbs, ", ")))

	nets := g.NetsOfInstance(n.ID, 0)
	names := make([]string, 0, len(nets))
	for _, id := range nets {
		name, _ := g.NetName(id)
		names = append(names, name)
	}
	b.WriteString(detailLine("Nets", strings.Join(names, ", ")))
	hpwl := "-"
	if v, ok := g.HPWLOfInstance(n.ID); ok {
		hpwl = formatFloat(v)
	}
	b.WriteString(detailLine("HPWL", hpwl))

	opt := "-"
	if !n.Optimal.HPWLUnset() {
		opt = formatFloat(n.Optimal.HPWL)
	}
	b.WriteString(detailLine("Optimal HPWL", opt))
	return b.String()
}

func detailLine(key, value string) string {
	if value == "" {
		value = "-"
	}
	return "  " + lipgloss.NewStyle().Foreground(colorGray).Width(14).Render(key) + " " + StyleValue.Render(value) + "\n"
}
