package placement

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/pcbgraph/pkg/board"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	margin       = 15.0
	headerHeight = 12.0
	drawAreaTop  = margin + headerHeight + 5.0
)

// WritePDF draws the footprints of g on board b into a PDF file at path.
func WritePDF(path string, g *netlist.Graph, b board.Board, opts Options) error {
	rects := Footprints(g, opts)
	e := extent(b, rects)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, margin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(margin, margin)
	title := fmt.Sprintf("%s (%.2f x %.2f mm)", g.Name, e.width(), e.height())
	pdf.CellFormat(pageWidth-2*margin, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(margin, margin+headerHeight)
	stats := fmt.Sprintf("Placed: %d/%d | HPWL: %.4f", g.PlacedCount(), g.NodeCount(), g.HPWL(false))
	pdf.CellFormat(pageWidth-2*margin, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - 2*margin
	drawHeight := pageHeight - drawAreaTop - margin
	scale := math.Min(drawWidth/e.width(), drawHeight/e.height())
	offsetX := margin + (drawWidth-e.width()*scale)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(34, 85, 51)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, e.width()*scale, e.height()*scale, "FD")

	for _, r := range rects {
		if r.Placed {
			pdf.SetFillColor(76, 175, 80)
		} else {
			pdf.SetFillColor(244, 67, 54)
		}
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		x := offsetX + (r.X-e.minX)*scale
		y := offsetY + (r.Y-e.minY)*scale
		w, h := r.W*scale, r.H*scale
		pdf.Rect(x, y, w, h, "FD")

		if r.Name != "" && w > 6 && h > 3 {
			pdf.SetFont("Helvetica", "", math.Min(8, h*2))
			pdf.SetTextColor(0, 0, 0)
			if lw := pdf.GetStringWidth(r.Name); lw < w-1 {
				pdf.SetXY(x+(w-lw)/2, y+h/2-1.5)
				pdf.CellFormat(lw, 3, r.Name, "", 0, "C", false, 0, "")
			}
		}
	}

	return pdf.OutputFileAndClose(path)
}
