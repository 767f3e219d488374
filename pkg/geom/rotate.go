package geom

import "math"

func radians(deg float64) float64 { return math.Pi * (deg / 180.0) }

// Rotate rotates (x, y) counter-clockwise by deg degrees.
func Rotate(x, y, deg float64) (float64, float64) {
	t := radians(deg)
	return x*math.Cos(t) - y*math.Sin(t), x*math.Sin(t) + y*math.Cos(t)
}

// KicadRotate rotates (x, y) by deg degrees in the Y-down frame used by
// KiCad pad offsets.
func KicadRotate(x, y, deg float64) (float64, float64) {
	t := radians(deg)
	return x*math.Cos(t) + y*math.Sin(t), -x*math.Sin(t) + y*math.Cos(t)
}

// MirrorYThenRotate applies a counter-clockwise rotation by deg degrees
// followed by a mirror about the X axis.
func MirrorYThenRotate(x, y, deg float64) (float64, float64) {
	t := radians(deg)
	return x*math.Cos(t) - y*math.Sin(t), -(x*math.Sin(t) + y*math.Cos(t))
}

// NormalizeAngle folds deg into [0, 360). NaN and infinite angles have no
// direction and map to 0.
func NormalizeAngle(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// A tiny negative remainder rounds up to 360 when shifted.
	if deg >= 360 {
		deg -= 360
	}
	return deg
}
