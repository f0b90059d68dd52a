// Package planner turns the current track position into driving decisions:
// target throttle, lane changes and turbo timing.
package planner

import (
	"math"

	"github.com/cxd309/racebot/internal/kinematics"
	"github.com/cxd309/racebot/internal/track"
)

const (
	// straightLookbehind is how many pieces behind the car are checked for a
	// long straight run.
	straightLookbehind = 4
	// gentleCurve is the largest curve angle still driven like a straight.
	gentleCurve = 22.5
	// longStraight is the straight run length after which the car pre-brakes.
	longStraight = 3

	brakeLookahead    = 3
	preBrakeLookahead = 2
	repeatBrake       = 2.0 / 3.0

	// MinThrottle replaces any non-positive throttle.
	MinThrottle = 0.2
)

// FrictionSource reports the calibrated friction once it exists.
type FrictionSource interface {
	Friction() (float64, bool)
}

// SpeedPlanner computes the target throttle for the controlled car.
type SpeedPlanner struct {
	track    *track.Track
	friction FrictionSource
}

// NewSpeedPlanner returns a planner for t that reads friction from f.
func NewSpeedPlanner(t *track.Track, f FrictionSource) *SpeedPlanner {
	return &SpeedPlanner{track: t, friction: f}
}

// Plan returns the throttle in (0, 1] for a car on the given piece, slip angle and lap.
//
// On the final straight the car always runs flat out. Elsewhere, in order:
//  1. Brake for up to three upcoming curves, less for repeats of the same shape.
//  2. Pre-brake at the end of a long straight.
//  3. Cap at the friction-limited curve speed.
//  4. Cut throttle while sliding.
func (p *SpeedPlanner) Plan(pieceIndex int, slipAngle float64, lap int) float64 {
	if p.track.OnFinishLine(lap, pieceIndex) {
		return 1.0
	}

	friction, calibrated := p.friction.Friction()
	var brakes kinematics.BrakeModel = kinematics.StaticBrakes{}
	if calibrated {
		brakes = kinematics.FrictionBrakes{Friction: friction}
	}

	speed := 1.0
	next := p.track.NextPieces(pieceIndex, brakeLookahead)

	// 1. Curve braking.
	braked := make(map[float64]bool, len(next))
	for _, piece := range next {
		if !piece.IsCurve() {
			continue
		}
		absAngle := math.Abs(piece.Angle)
		b := brakes.Brake(piece.Radius, absAngle)
		class := brakes.AngleClass(absAngle)
		if braked[class] {
			b *= repeatBrake
		}
		braked[class] = true
		speed -= b
	}

	// 2. Long straight pre-brake.
	threshold := 1 - 3*brakes.Brake(200, gentleCurve)
	if p.straightRun(pieceIndex) >= longStraight &&
		p.track.PastStartLine(lap, pieceIndex) &&
		kinematics.Round2(speed) > threshold {
		for _, piece := range next[:preBrakeLookahead] {
			if piece.IsCurve() {
				speed -= speed*math.Abs(piece.Angle)/200 + 0.125
				break
			}
		}
	}

	// 3. Curve speed cap.
	if calibrated {
		if limit, ok := p.curveCap(pieceIndex, friction); ok && speed > limit {
			speed = limit
		}
	}

	// 4. Stability.
	if calibrated {
		speed = kinematics.Stabilize(speed, slipAngle, friction)
	}

	return clampThrottle(speed)
}

// straightRun counts straight-like pieces ending at pieceIndex, walking back at
// most straightLookbehind pieces and stopping at the first sharp curve.
func (p *SpeedPlanner) straightRun(pieceIndex int) int {
	pieces := append([]track.Piece{p.track.PieceAt(pieceIndex)}, p.track.PrevPieces(pieceIndex, straightLookbehind)...)
	run := 0
	for _, piece := range pieces {
		if piece.IsCurve() && math.Abs(piece.Angle) > gentleCurve {
			break
		}
		run++
	}
	return run
}

// curveCap returns the tightest friction-limited speed of the current and next
// piece, if either is a curve.
func (p *SpeedPlanner) curveCap(pieceIndex int, friction float64) (float64, bool) {
	limit, found := math.Inf(1), false
	for _, piece := range []track.Piece{p.track.PieceAt(pieceIndex), p.track.PieceAt(pieceIndex + 1)} {
		if !piece.IsCurve() {
			continue
		}
		limit = math.Min(limit, kinematics.CurveSpeedCap(piece.Radius, friction))
		found = true
	}
	return limit, found
}

func clampThrottle(speed float64) float64 {
	if math.IsNaN(speed) || speed <= 0 {
		return MinThrottle
	}
	return math.Min(speed, 1.0)
}
