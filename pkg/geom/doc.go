// Package geom provides the small amount of planar geometry the netlist
// engine needs: snapping values to grid multiples, the three rotation
// conventions found in PCB tooling, and point sets with bounding boxes.
//
// # Rounding
//
// [RoundUp] and [RoundDown] round towards positive and negative infinity,
// [RoundNearest] rounds by magnitude so that it is symmetric about zero.
// All three work on the remainder of |x| by the multiple, and a zero
// multiple leaves the value unchanged.
//
// # Rotation conventions
//
// Angles are in degrees. [Rotate] is the standard counter-clockwise
// rotation. [KicadRotate] is the convention used for pad offsets exported
// by KiCad, where the Y axis points down:
//
//	x' =  x·cosθ + y·sinθ
//	y' = -x·sinθ + y·cosθ
//
// [MirrorYThenRotate] mirrors about the X axis after a counter-clockwise
// rotation, which is how bottom-layer footprints are flipped.
package geom
