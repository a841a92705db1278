package pose

import "math"

// Angle reports the angle at vertex b in degrees, in [0,180]. It is the
// absolute atan2 difference of the two rays, reflected at 180; this is the
// convention the thresholds were tuned against and is not always the interior
// angle, so keep the formula as is.
func Angle(a, b, c Point) float64 {
	rad := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	deg := math.Abs(rad * 180 / math.Pi)
	if deg > 180 {
		deg = 360 - deg
	}
	return deg
}

// Distance is the Euclidean distance in normalized coordinate space.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
