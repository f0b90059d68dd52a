package kinematics

import "math"

// curveSpeedScale converts the friction-limited cornering speed into a throttle fraction.
const curveSpeedScale = 0.04

// CurveSpeedCap returns the highest throttle that holds a curve of the given
// radius at the given friction.
func CurveSpeedCap(radius, friction float64) float64 {
	return math.Sqrt(gravity*radius*friction) * curveSpeedScale
}

// stabilityFactors maps rounded friction to the slip-angle divisor used when
// the car is sliding.
var stabilityFactors = []struct {
	friction float64
	factor   float64
}{
	{0.1, 65},
	{0.2, 75},
	{0.3, 85},
}

// StabilityFactor returns the divisor for the given friction. Frictions that
// round outside the table use the nearest entry.
func StabilityFactor(friction float64) float64 {
	r := Round1(friction)
	best := stabilityFactors[0]
	for _, s := range stabilityFactors[1:] {
		if math.Abs(r-s.friction) < math.Abs(r-best.friction) {
			best = s
		}
	}
	return best.factor
}

// StabilityThreshold is the absolute slip angle (degrees) at which throttle is cut.
const StabilityThreshold = 25.0

// Stabilize cuts throttle in proportion to the slip angle once it reaches
// StabilityThreshold.
func Stabilize(speed, slipAngle, friction float64) float64 {
	a := math.Abs(slipAngle)
	if a < StabilityThreshold {
		return speed
	}
	return speed - speed*a/StabilityFactor(friction)
}
