// Package placement draws component footprints on the board outline.
//
// Every component becomes an axis-aligned rectangle centred on its
// position, with width and height exchanged for quarter-turn
// orientations. With a positive grid resolution the rectangles are
// snapped the same way [netlist.Node.BBox] snaps them for grid-based
// placers.
//
// [WritePDF] produces one A4 landscape page scaled to fit, placed
// components filled green and unplaced ones red, with a summary line of
// placement progress and wirelength. [WriteDXF] writes the same geometry
// on three layers (BOARD, PLACED, UNPLACED) for CAD tools.
//
// When the board has no extent, the drawing bounds are taken from the
// components themselves.
package placement
