package dataset

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/pcbgraph/pkg/feature"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amp.xlsx")
	rows := []feature.Row{
		{ID: 0, Name: "U1", Vector: feature.Vector{8, 8, 0, 0, 0, 0}},
		{ID: 1, Name: "R1", Vector: feature.Vector{2, 2, 0.5, 10, 20, 8}},
	}
	if err := WriteXLSX(path, rows, Options{Sheet: "amp", MaxNeighbors: 1, Simplified: true}); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != "amp" {
		t.Errorf("sheets = %v, want [amp]", sheets)
	}
	got, err := f.GetRows("amp")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3", len(got))
	}
	header := []string{"id", "name", "area", "pins", "n0_area", "n0_pos_x", "n0_pos_y", "n0_pins"}
	for i, h := range header {
		if got[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, got[0][i], h)
		}
	}
	if got[2][1] != "R1" || got[2][4] != "0.5" || got[2][6] != "20" {
		t.Errorf("row 2 = %v", got[2])
	}
}

func TestWriteXLSXWidthMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	rows := []feature.Row{{ID: 0, Name: "U1", Vector: feature.Vector{1, 2, 3}}}
	if err := WriteXLSX(path, rows, Options{MaxNeighbors: 1}); err == nil {
		t.Error("WriteXLSX() with a short vector should fail")
	}
}
