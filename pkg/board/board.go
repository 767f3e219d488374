// Package board models the outline of a printed circuit board as an
// axis-aligned bounding box.
//
// A board is only used to move component positions between the absolute
// frame of the CAD file and a frame whose origin is the board's lower-left
// corner. It is serialized as one "key,value" line per bound:
//
//	bb_min_x,10.00000000
//	bb_min_y,20.00000000
//	bb_max_x,110.00000000
//	bb_max_y,80.00000000
package board

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/pcbgraph/pkg/geom"
)

// Record keys, in the order [Board.Lines] writes them.
const (
	KeyMinX = "bb_min_x"
	KeyMinY = "bb_min_y"
	KeyMaxX = "bb_max_x"
	KeyMaxY = "bb_max_y"
)

var (
	// ErrUnknownKey is returned by [Board.ParseLine] for a key that is not
	// one of the four bounds.
	ErrUnknownKey = errors.New("unknown board key")

	// ErrMalformedLine is returned by [Board.ParseLine] when the line is not
	// a "key,value" pair or the value is not a number.
	ErrMalformedLine = errors.New("malformed board line")
)

// Board is the bounding box of a board outline. The zero value is a
// degenerate board at the origin.
type Board struct {
	Name string
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// New returns a board with the given bounds.
func New(minX, minY, maxX, maxY float64) Board {
	return Board{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Width returns the absolute horizontal extent.
func (b Board) Width() float64 { return math.Abs(b.MaxX - b.MinX) }

// Height returns the absolute vertical extent.
func (b Board) Height() float64 { return math.Abs(b.MaxY - b.MinY) }

// Size returns the signed extent (max - min) on both axes.
func (b Board) Size() geom.Point { return geom.Point{X: b.MaxX - b.MinX, Y: b.MaxY - b.MinY} }

// Origin returns the lower-left corner used as the board-relative origin.
func (b Board) Origin() geom.Point { return geom.Point{X: b.MinX, Y: b.MinY} }

// Contains reports whether p lies inside the board outline, edges included.
func (b Board) Contains(p geom.Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// ParseLine applies one "key,value" line to b.
func (b *Board) ParseLine(line string) error {
	key, val, ok := strings.Cut(strings.TrimSpace(line), ",")
	if !ok {
		return fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrMalformedLine, line, err)
	}
	switch strings.TrimSpace(key) {
	case KeyMinX:
		b.MinX = v
	case KeyMinY:
		b.MinY = v
	case KeyMaxX:
		b.MaxX = v
	case KeyMaxY:
		b.MaxY = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// Lines returns the four bound records with eight decimal places.
func (b Board) Lines() []string {
	return []string{
		fmt.Sprintf("%s,%.8f", KeyMinX, b.MinX),
		fmt.Sprintf("%s,%.8f", KeyMinY, b.MinY),
		fmt.Sprintf("%s,%.8f", KeyMaxX, b.MaxX),
		fmt.Sprintf("%s,%.8f", KeyMaxY, b.MaxY),
	}
}
