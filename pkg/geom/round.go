package geom

import "math"

// RoundUp rounds x towards positive infinity to a multiple of m.
// A zero multiple returns x.
func RoundUp(x, m float64) float64 {
	if m == 0 {
		return x
	}
	r := math.Mod(math.Abs(x), m)
	if r == 0 {
		return x
	}
	if x < 0 {
		return -(math.Abs(x) - r)
	}
	return x + m - r
}

// RoundDown rounds x towards negative infinity to a multiple of m.
// A zero multiple returns x.
func RoundDown(x, m float64) float64 {
	if m == 0 {
		return x
	}
	r := math.Mod(math.Abs(x), m)
	if r == 0 {
		return x
	}
	if x < 0 {
		return -(math.Abs(x) + m - r)
	}
	return x - r
}

// RoundNearest rounds x to the nearest multiple of m. Values exactly half
// way between two multiples round towards zero.
func RoundNearest(x, m float64) float64 {
	if m == 0 {
		return x
	}
	a := math.Abs(x)
	r := math.Mod(a, m)
	if r == 0 {
		return x
	}
	if r > m/2 {
		a += m - r
	} else {
		a -= r
	}
	return math.Copysign(a, x)
}
