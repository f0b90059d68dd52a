package kinematics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticBrakes(t *testing.T) {
	t.Parallel()

	var m BrakeModel = StaticBrakes{}
	tests := []struct {
		radius, angle, want float64
	}{
		{50, 22.5, 0.15},
		{50, 45, 0.20},
		{100, 22.5, 0.125},
		{100, 45, 0.20},
		{200, 22.5, 0.05},
		{200, 45, 0.15},
		// Off-table shapes fall back to the nearest bucket.
		{110, 45, 0.20},
		{75, 22.5, 0.15},   // tie between 50 and 100 prefers the tighter radius
		{400, 30, 0.05},    // 30° is nearer 22.5
		{200, 33.75, 0.15}, // angle tie prefers the sharper bucket
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, m.Brake(tt.radius, tt.angle), 1e-12, "radius=%v angle=%v", tt.radius, tt.angle)
	}
}

func TestFrictionBrakes(t *testing.T) {
	t.Parallel()

	m := FrictionBrakes{Friction: 0.2}
	k := 0.01/0.2 + 0.01
	assert.InDelta(t, k*0.2*5, m.Brake(50, 22.5), 1e-12)
	assert.InDelta(t, k*0.2*17, m.Brake(100, 45), 1e-12)
	assert.InDelta(t, k*0.2*3, m.Brake(200, 22.5), 1e-12)
	assert.Equal(t, 45.0, m.AngleClass(45))
	assert.Equal(t, 22.5, m.AngleClass(10))
}

func TestEstimateFriction(t *testing.T) {
	t.Parallel()

	raw := func(d float64) float64 {
		v := d / (10.0 / 60.0)
		return v * v / (9.8 * 50) / 10
	}

	tests := []struct {
		name     string
		distance float64
		want     float64
	}{
		{"stationary gets floor bump", 0, 0.1},
		{"in range untouched", 6, raw(6)},
		{"rounds to 0.4 minus 0.3", 7.5, raw(7.5) - 0.3},
		{"rounds to 0.7 minus 0.6", 10, raw(10) - 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateFriction(10, 10+tt.distance)
			want := tt.want
			if want < 0.1 {
				want += 0.1
			}
			assert.InDelta(t, want, got, 1e-9)
		})
	}
}

func TestFrictionEstimatorObserve(t *testing.T) {
	t.Parallel()

	var e FrictionEstimator
	_, ok := e.Friction()
	assert.False(t, ok)

	for tick := 1; tick <= 10; tick++ {
		_, ok := e.Observe(tick, float64(tick))
		assert.False(t, ok, "tick %d", tick)
	}

	f, ok := e.Observe(11, 7)
	assert.True(t, ok)
	assert.InDelta(t, EstimateFriction(1, 7), f, 1e-12)

	// Later samples never change the estimate.
	f2, ok := e.Observe(11, 50)
	assert.True(t, ok)
	assert.Equal(t, f, f2)
	f3, _ := e.Observe(40, 90)
	assert.Equal(t, f, f3)
}

func TestFrictionEstimatorLateJoin(t *testing.T) {
	t.Parallel()

	var e FrictionEstimator
	f, ok := e.Observe(11, 42)
	assert.True(t, ok)
	assert.InDelta(t, 0.1, f, 1e-12)
}

func TestCurveSpeedCap(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, math.Sqrt(9.8*100*0.2)*0.04, CurveSpeedCap(100, 0.2), 1e-12)
	assert.Less(t, CurveSpeedCap(50, 0.2), CurveSpeedCap(200, 0.2))
}

func TestStabilityFactor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 65.0, StabilityFactor(0.12))
	assert.Equal(t, 75.0, StabilityFactor(0.2))
	assert.Equal(t, 85.0, StabilityFactor(0.31))
	assert.Equal(t, 85.0, StabilityFactor(0.4))
	assert.Equal(t, 65.0, StabilityFactor(0.02))
}

func TestStabilize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.8, Stabilize(0.8, 24.9, 0.2))
	assert.Equal(t, 0.8, Stabilize(0.8, -10, 0.2))
	assert.InDelta(t, 0.8-0.8*30/75, Stabilize(0.8, -30, 0.2), 1e-12)
	assert.InDelta(t, 0.5-0.5*25/65, Stabilize(0.5, 25, 0.1), 1e-12)
}
