// Package dataset writes encoded feature vectors as spreadsheet workbooks
// for offline training.
//
// A workbook has one sheet named after the design. The first row holds
// the column names: "id", "name", then the names from [feature.Header].
// Every following row is one component.
package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/pcbgraph/pkg/feature"
)

// DefaultSheet is used when no sheet name is given.
const DefaultSheet = "features"

// Options describes the rows being written.
type Options struct {
	// Sheet names the worksheet. Empty uses DefaultSheet.
	Sheet string
	// MaxNeighbors and Simplified must match the encoder that produced the
	// rows; they select the header.
	MaxNeighbors int
	Simplified   bool
}

// WriteXLSX writes rows to a new workbook at path.
func WriteXLSX(path string, rows []feature.Row, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := append([]string{"id", "name"}, feature.Header(opts.MaxNeighbors, opts.Simplified)...)
	for j, h := range header {
		if err := setCell(f, sheet, j, 0, h); err != nil {
			return err
		}
	}

	for i, r := range rows {
		if len(r.Vector) != len(header)-2 {
			return fmt.Errorf("row %d (component %d): %d fields, want %d", i, r.ID, len(r.Vector), len(header)-2)
		}
		if err := setCell(f, sheet, 0, i+1, r.ID); err != nil {
			return err
		}
		if err := setCell(f, sheet, 1, i+1, r.Name); err != nil {
			return err
		}
		for j, v := range r.Vector {
			if err := setCell(f, sheet, j+2, i+1, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// setCell writes value at zero-based column col and row row.
func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, ref, value)
}
