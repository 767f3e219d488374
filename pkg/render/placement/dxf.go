package placement

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/matzehuels/pcbgraph/pkg/board"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

// DXF layer names.
const (
	LayerBoard    = "BOARD"
	LayerPlaced   = "PLACED"
	LayerUnplaced = "UNPLACED"
)

// textHeight is the height of component labels in drawing units.
const textHeight = 0.5

// WriteDXF writes the board outline and the footprints of g to a DXF file
// at path. Rectangles are written as four LINE entities each.
func WriteDXF(path string, g *netlist.Graph, b board.Board, opts Options) error {
	rects := Footprints(g, opts)
	e := extent(b, rects)

	d := dxf.NewDrawing()
	layers := []struct {
		name string
		col  color.ColorNumber
	}{
		{LayerBoard, color.White},
		{LayerPlaced, color.Green},
		{LayerUnplaced, color.Red},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.col, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("add layer %s: %w", l.name, err)
		}
	}

	if err := d.ChangeLayer(LayerBoard); err != nil {
		return err
	}
	if err := rectangle(d, e.minX, e.minY, e.width(), e.height()); err != nil {
		return err
	}

	for _, r := range rects {
		layer := LayerUnplaced
		if r.Placed {
			layer = LayerPlaced
		}
		if err := d.ChangeLayer(layer); err != nil {
			return err
		}
		if err := rectangle(d, r.X, r.Y, r.W, r.H); err != nil {
			return fmt.Errorf("component %d: %w", r.ID, err)
		}
		if r.Name != "" {
			if _, err := d.Text(r.Name, r.X, r.Y+r.H/2, 0, textHeight); err != nil {
				return fmt.Errorf("component %d label: %w", r.ID, err)
			}
		}
	}

	return d.SaveAs(path)
}

func rectangle(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [5][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}, {x, y}}
	for i := range 4 {
		a, b := corners[i], corners[i+1]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
