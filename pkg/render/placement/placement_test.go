package placement

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/matzehuels/pcbgraph/pkg/board"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

func testGraph(t *testing.T) *netlist.Graph {
	t.Helper()
	g := netlist.New("amp")
	for _, l := range []string{
		"0,U1,4,2,10,10,0,0,1,8,8,0,3",
		"1,R1,2,1,20,10,90,0,0,2,2,0,1",
	} {
		if err := g.AddNodeFromLine(l, netlist.Long); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdgeFromLine("0,0,1,0.5,0.5,-1,0,1,1,0,1,0.5,0.5,-1,0,0,1,SIG_A,0", netlist.Long); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestFootprints(t *testing.T) {
	rects := Footprints(testGraph(t), Options{})
	if len(rects) != 2 {
		t.Fatalf("len(rects) = %d, want 2", len(rects))
	}

	tests := []struct {
		name       string
		got        Rect
		x, y, w, h float64
		placed     bool
	}{
		{"Upright", rects[0], 8, 9, 4, 2, true},
		{"QuarterTurn", rects[1], 19.5, 9, 1, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.got
			if r.X != tt.x || r.Y != tt.y || r.W != tt.w || r.H != tt.h || r.Placed != tt.placed {
				t.Errorf("rect = %+v, want x=%v y=%v w=%v h=%v placed=%v", r, tt.x, tt.y, tt.w, tt.h, tt.placed)
			}
		})
	}
}

func TestFootprintsGrid(t *testing.T) {
	r := Footprints(testGraph(t), Options{GridResolution: 1000})[0]
	if r.X != 8 || r.Y != 9 || r.W != 4 || r.H != 2 {
		t.Errorf("grid rect = %+v, want 8,9 4x2", r)
	}
}

func TestExtent(t *testing.T) {
	rects := []Rect{{X: 1, Y: 2, W: 3, H: 4}, {X: -1, Y: 0, W: 1, H: 1}}
	e := extent(board.Board{}, rects)
	if e != (bounds{minX: -1, minY: 0, maxX: 4, maxY: 6}) {
		t.Errorf("extent(no board) = %+v", e)
	}

	b := board.New(0, 0, 50, 40)
	if e := extent(b, rects); e.width() != 50 || e.height() != 40 {
		t.Errorf("extent(board) = %+v, want 50x40", e)
	}

	if e := extent(board.Board{}, nil); e.width() <= 0 || e.height() <= 0 {
		t.Errorf("extent(empty) = %+v, want a positive extent", e)
	}
}

func TestWritePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amp.pdf")
	if err := WritePDF(path, testGraph(t), board.New(0, 0, 30, 20), Options{}); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header: %q", data[:min(len(data), 8)])
	}
}

func TestWriteDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amp.dxf")
	if err := WriteDXF(path, testGraph(t), board.New(0, 0, 30, 20), Options{}); err != nil {
		t.Fatalf("WriteDXF() error = %v", err)
	}

	d, err := dxf.Open(path)
	if err != nil {
		t.Fatalf("dxf.Open() error = %v", err)
	}
	lines := 0
	for _, ent := range d.Entities() {
		if _, ok := ent.(*entity.Line); ok {
			lines++
		}
	}
	// Board outline plus two footprints.
	if lines != 12 {
		t.Errorf("LINE entities = %d, want 12", lines)
	}
}
