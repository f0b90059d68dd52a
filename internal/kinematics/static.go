package kinematics

// StaticBrakes implements BrakeModel with fixed, hand-tuned values. It is used
// until the friction estimate is available.
type StaticBrakes struct{}

var staticTable = table{
	50:  {22.5: 0.15, 45: 0.20},
	100: {22.5: 0.125, 45: 0.20},
	200: {22.5: 0.05, 45: 0.15},
}

func (StaticBrakes) Brake(radius, absAngle float64) float64 {
	return staticTable.lookup(radius, absAngle)
}

func (StaticBrakes) AngleClass(absAngle float64) float64 { return nearestAngle(absAngle) }
