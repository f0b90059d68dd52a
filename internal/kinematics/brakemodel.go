// Package kinematics defines the BrakeModel interface used by the speed planner,
// along with the built-in braking tables, the one-shot friction estimator and
// the curve and stability speed limits derived from friction.
//
// Adding a new braking model only requires implementing BrakeModel; the
// planner never needs to change.
package kinematics

import "math"

// BrakeModel is the braking contract every table implementation must satisfy.
// Brake values are throttle fractions (0..1) to shed ahead of a curve.
type BrakeModel interface {
	// Brake returns the throttle reduction for an upcoming curve with the given
	// radius and absolute angle. Shapes outside the table use the nearest bucket.
	Brake(radius, absAngle float64) float64

	// AngleClass returns the table angle bucket a curve of absAngle falls into.
	// Repeated curves of the same class within a lookahead window brake less.
	AngleClass(absAngle float64) float64
}

// Radius and angle buckets shared by every braking table.
var (
	radiusBuckets = []float64{50, 100, 200}
	angleBuckets  = []float64{22.5, 45}
)

// table maps radius bucket → angle bucket → value.
type table map[float64]map[float64]float64

func (t table) lookup(radius, absAngle float64) float64 {
	return t[nearestRadius(radius)][nearestAngle(absAngle)]
}

// nearestRadius picks the closest radius bucket, preferring the tighter one on ties.
func nearestRadius(r float64) float64 {
	best := radiusBuckets[0]
	for _, b := range radiusBuckets[1:] {
		if math.Abs(r-b) < math.Abs(r-best) {
			best = b
		}
	}
	return best
}

// nearestAngle picks the closest angle bucket, preferring the sharper one on ties.
func nearestAngle(a float64) float64 {
	best := angleBuckets[0]
	for _, b := range angleBuckets[1:] {
		if math.Abs(a-b) <= math.Abs(a-best) {
			best = b
		}
	}
	return best
}

// roundTo rounds v half away from zero to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 { return roundTo(v, 1) }

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 { return roundTo(v, 2) }
