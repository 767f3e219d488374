// Package optimals measures and keeps the best known reference metrics of
// every component in a design.
//
// An optimal is benchmark data: the shortest wiring a component has been
// seen with. [Compute] measures a component in its current position,
// [Update] folds those measurements into the graph keeping the better of
// old and new, and a [Store] persists the results between runs so that
// repeated placements of the same design keep improving the benchmark.
//
// Two metrics are kept per component:
//
//   - Euclidean: for every pin, the shortest straight pad-to-pad distance
//     to a connected neighbor over signal edges, summed over pins.
//   - HPWL: the sum of the half-perimeter wirelength of every net the
//     component touches, counting all pads whether placed or not.
package optimals
