// Package feature encodes a component and its best-connected neighbors as
// a fixed-width numeric vector.
//
// # Layout
//
// The full vector starts with a 4-field header for the target component
// followed by one 10-field block per neighbor:
//
//	[size_x, size_y, type, pins]
//	[size_x, size_y, pos_x, pos_y, type, pins, parent_pad_x, parent_pad_y, neighbor_pad_x, neighbor_pad_y] * K
//
// Neighbor positions are zero until the neighbor is placed. Neighbors come
// in the order of the graph's signal tally: most shared pads first, ties
// in edge order. When a component has fewer than K neighbors the missing
// blocks are filled with [0, 0, 0, 0, -1, 0, 0, 0, 0, 0]; the -1 type
// marks an absent neighbor.
//
// The simplified vector replaces width and height by area and drops types
// and pad averages:
//
//	[area, pins]
//	[area, pos_x, pos_y, pins] * K
//
// with [0, 0, 0, 0] as the missing-neighbor block.
//
// # Normalization
//
// [Encoder.Normalize] scales a vector in place. Sizes are divided by the
// largest width and height in the graph, areas by their product,
// and positions and pad offsets by the grid pitches given in [Options].
// The target's pin count is divided by the largest pin count; in the full
// layout neighbor pin counts are left as they are, while the simplified
// layout scales them too. A zero divisor leaves its fields untouched.
package feature
