package kinematics

import "math"

const (
	// TickDuration is the length of one game tick in seconds.
	TickDuration = 1.0 / 60.0

	gravity = 9.8

	// calibrationTick is the tick whose in-piece distance closes the
	// calibration window opened by the first sample.
	calibrationTick = 11
	calibrationSpan = 10 // ticks between the two samples
)

// FrictionBrakes implements BrakeModel by scaling per-shape weights with the
// calibrated friction.
type FrictionBrakes struct {
	Friction float64
}

var frictionWeights = table{
	50:  {22.5: 5, 45: 17},
	100: {22.5: 4, 45: 17},
	200: {22.5: 3, 45: 8},
}

func (f FrictionBrakes) Brake(radius, absAngle float64) float64 {
	k := 0.01/f.Friction + 0.01
	return k * f.Friction * frictionWeights.lookup(radius, absAngle)
}

func (FrictionBrakes) AngleClass(absAngle float64) float64 { return nearestAngle(absAngle) }

// FrictionEstimator derives a one-shot friction estimate from how far the car
// travels between its first telemetry sample and tick 11 under full throttle.
// The zero value is ready to use.
type FrictionEstimator struct {
	first    *float64
	last     *float64
	friction *float64
}

// Observe feeds one in-piece distance sample. It returns the estimate and true
// once it exists; the estimate is computed at most once and never changes.
func (e *FrictionEstimator) Observe(tick int, inPieceDistance float64) (float64, bool) {
	if e.friction != nil {
		return *e.friction, true
	}
	if e.first == nil {
		d := inPieceDistance
		e.first = &d
	}
	if tick == calibrationTick && e.last == nil {
		d := inPieceDistance
		e.last = &d
	}
	if e.first == nil || e.last == nil {
		return 0, false
	}
	f := EstimateFriction(*e.first, *e.last)
	e.friction = &f
	return f, true
}

// Friction returns the estimate and whether it has been computed.
func (e *FrictionEstimator) Friction() (float64, bool) {
	if e.friction == nil {
		return 0, false
	}
	return *e.friction, true
}

// EstimateFriction converts two in-piece distances sampled calibrationSpan ticks
// apart into a clamped friction value.
func EstimateFriction(start, stop float64) float64 {
	duration := calibrationSpan * TickDuration
	velocity := (stop - start) / duration
	f := math.Pow(velocity, 2) / (gravity * 50) / 10

	// Keep estimates in the range the braking tables were tuned for.
	if r := Round1(f); r >= 0.4 {
		if r >= 0.7 {
			f -= 0.6
		} else {
			f -= 0.3
		}
	}
	if f < 0.1 {
		f += 0.1
	}
	return f
}
