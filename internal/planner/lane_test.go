package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/racebot/internal/protocol"
	"github.com/cxd309/racebot/internal/track"
)

func car(color string, lap, piece int, dist float64, lane int) protocol.CarPosition {
	return protocol.CarPosition{
		ID: protocol.CarID{Name: color, Color: color},
		PiecePosition: &protocol.PiecePosition{
			PieceIndex:      piece,
			InPieceDistance: dist,
			Lane:            protocol.LanePosition{StartLaneIndex: lane, EndLaneIndex: lane},
			Lap:             lap,
		},
	}
}

// switchTrack has a right-hand switch bend at piece 6 and a left-hand one at piece 8.
func switchTrack(t *testing.T, lanes int) *track.Track {
	return newTrack(t, lanes, nil,
		track.NewStraight(100, false),
		track.NewStraight(100, false),
		track.NewStraight(100, false),
		track.NewStraight(100, false),
		track.NewStraight(100, false),
		track.NewStraight(100, false),
		track.NewCurve(100, 45, true),
		track.NewStraight(100, false),
		track.NewCurve(100, -45, true),
		track.NewStraight(100, false),
	)
}

func TestLanePlanPrefersInsideLane(t *testing.T) {
	t.Parallel()

	p := NewLanePlanner(switchTrack(t, 2))

	self := car("red", 0, 5, 10, 0)
	assert.Equal(t, protocol.Right, p.Plan(self, []protocol.CarPosition{self}))

	self = car("red", 0, 7, 10, 1)
	assert.Equal(t, protocol.Left, p.Plan(self, []protocol.CarPosition{self}))
}

func TestLanePlanNoSwitchAhead(t *testing.T) {
	t.Parallel()

	p := NewLanePlanner(switchTrack(t, 2))
	self := car("red", 0, 2, 10, 0)
	assert.Equal(t, protocol.None, p.Plan(self, nil))
}

func TestLanePlanBoundary(t *testing.T) {
	t.Parallel()

	p := NewLanePlanner(switchTrack(t, 2))
	assert.Equal(t, protocol.None, p.Plan(car("red", 0, 5, 10, 1), nil), "already in the last lane")
	assert.Equal(t, protocol.None, p.Plan(car("red", 0, 7, 10, 0), nil), "already in lane 0")

	single := NewLanePlanner(switchTrack(t, 1))
	assert.Equal(t, protocol.None, single.Plan(car("red", 0, 5, 10, 0), nil))
	assert.Equal(t, protocol.None, single.Plan(car("red", 0, 7, 10, 0), nil))
}

func TestLanePlanMemo(t *testing.T) {
	t.Parallel()

	p := NewLanePlanner(switchTrack(t, 2))
	self := car("red", 0, 5, 10, 0)

	require.Equal(t, protocol.Right, p.Plan(self, nil))
	self.PiecePosition.InPieceDistance = 40
	assert.Equal(t, protocol.None, p.Plan(self, nil), "one decision per piece per lap")

	p.Reset()
	self.PiecePosition.Lap = 1
	assert.Equal(t, protocol.Right, p.Plan(self, nil), "lap finished clears the memo")
}

func TestLanePlanBlockedAhead(t *testing.T) {
	t.Parallel()

	t.Run("flip not possible", func(t *testing.T) {
		p := NewLanePlanner(switchTrack(t, 2))
		self := car("red", 0, 5, 10, 0)
		other := car("blue", 0, 6, 2, 0)

		assert.True(t, p.blockedAhead(self, []protocol.CarPosition{self, other}, -1))
		assert.Equal(t, protocol.None, p.Plan(self, []protocol.CarPosition{self, other}))
		assert.False(t, p.decided[5], "no decision is remembered")
	})

	t.Run("flip to the outside", func(t *testing.T) {
		p := NewLanePlanner(switchTrack(t, 3))
		self := car("red", 0, 5, 10, 1)
		other := car("blue", 0, 6, 2, 1)
		assert.Equal(t, protocol.Left, p.Plan(self, []protocol.CarPosition{self, other}))
	})

	t.Run("same piece further along", func(t *testing.T) {
		p := NewLanePlanner(switchTrack(t, 3))
		self := car("red", 0, 5, 10, 1)
		other := car("blue", 0, 5, 30, 1)
		assert.Equal(t, protocol.Left, p.Plan(self, []protocol.CarPosition{self, other}))
	})

	t.Run("target lane counts", func(t *testing.T) {
		p := NewLanePlanner(switchTrack(t, 3))
		self := car("red", 0, 5, 10, 1)
		other := car("blue", 0, 7, 2, 0)
		assert.Equal(t, protocol.Left, p.Plan(self, []protocol.CarPosition{self, other}))
	})

	t.Run("too far ahead", func(t *testing.T) {
		p := NewLanePlanner(switchTrack(t, 3))
		self := car("red", 0, 5, 10, 1)
		other := car("blue", 0, 8, 2, 1)
		assert.Equal(t, protocol.Right, p.Plan(self, []protocol.CarPosition{self, other}))
	})

	t.Run("different lap", func(t *testing.T) {
		p := NewLanePlanner(switchTrack(t, 3))
		self := car("red", 1, 5, 10, 1)
		other := car("blue", 0, 6, 2, 1)
		assert.Equal(t, protocol.Right, p.Plan(self, []protocol.CarPosition{self, other}))
	})
}

func TestLanePlanBlockingBehind(t *testing.T) {
	t.Parallel()

	p := NewLanePlanner(switchTrack(t, 2))
	self := car("red", 0, 5, 10, 0)

	behind := car("blue", 0, 4, 80, 0)
	assert.Equal(t, protocol.None, p.Plan(self, []protocol.CarPosition{self, behind}))

	otherLane := car("blue", 0, 4, 80, 1)
	assert.Equal(t, protocol.Right, p.Plan(self, []protocol.CarPosition{self, otherLane}))
}

func TestLanePlanAcrossFinishLine(t *testing.T) {
	t.Parallel()

	tr := newTrack(t, 3, nil,
		track.NewStraight(100, true),
		track.NewCurve(100, 45, false),
		track.NewStraight(100, false),
		track.NewStraight(100, false),
	)
	p := NewLanePlanner(tr)

	// Traffic is compared by progress across laps, not only between cars on
	// the same lap: a car that just crossed the line is still one piece ahead,
	// and one still finishing the previous lap is one piece behind.
	self := car("red", 0, 3, 50, 1)
	ahead := car("blue", 1, 0, 5, 1)
	assert.True(t, p.blockedAhead(self, []protocol.CarPosition{ahead}, 2))

	crossed := car("red", 1, 0, 5, 1)
	behind := car("green", 0, 3, 50, 1)
	assert.True(t, p.blockingBehind(crossed, []protocol.CarPosition{crossed, behind}))

	// Straight switch piece: zero angle sum prefers Left, the car ahead flips it.
	assert.Equal(t, protocol.Right, p.Plan(self, []protocol.CarPosition{self, ahead}))
}

func TestLanePlanNeverLeavesTrack(t *testing.T) {
	t.Parallel()

	for lanes := 1; lanes <= 3; lanes++ {
		for lane := 0; lane < lanes; lane++ {
			for _, piece := range []int{5, 7} {
				traffic := [][]protocol.CarPosition{
					nil,
					{car("blue", 0, piece+1, 1, lane)},
					{car("blue", 0, piece-1, 1, lane)},
				}
				for _, cars := range traffic {
					p := NewLanePlanner(switchTrack(t, lanes))
					dir := p.Plan(car("red", 0, piece, 10, lane), cars)
					switch dir {
					case protocol.Left:
						assert.Greater(t, lane, 0)
					case protocol.Right:
						assert.Less(t, lane, lanes-1)
					}
				}
			}
		}
	}
}
