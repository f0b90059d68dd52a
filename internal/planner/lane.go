package planner

import (
	"github.com/cxd309/racebot/internal/protocol"
	"github.com/cxd309/racebot/internal/track"
)

// trafficWindow is how many pieces ahead or behind other cars are considered.
const trafficWindow = 2

// LanePlanner decides lane switches ahead of switch pieces, steering for the
// inside of the coming bend unless traffic says otherwise.
type LanePlanner struct {
	track   *track.Track
	decided map[int]bool // piece index → switch already sent this lap
}

// NewLanePlanner returns a planner for t with an empty switch memo.
func NewLanePlanner(t *track.Track) *LanePlanner {
	return &LanePlanner{track: t, decided: make(map[int]bool, t.Len())}
}

// Reset forgets every switch decision. Called when a lap is completed.
func (p *LanePlanner) Reset() {
	clear(p.decided)
}

// Plan returns the lane change for self, or protocol.None. cars is the full
// telemetry for the tick and may include self.
func (p *LanePlanner) Plan(self protocol.CarPosition, cars []protocol.CarPosition) protocol.Direction {
	pos := self.PiecePosition
	next := p.track.NextPieces(pos.PieceIndex, 1)
	if !next[0].Switch || p.decided[pos.PieceIndex] {
		return protocol.None
	}

	angleSum := 0.0
	for _, piece := range next {
		if piece.IsCurve() {
			angleSum += piece.Angle
		}
	}

	lane := self.Lane()
	dir, target := protocol.Left, lane+1
	if angleSum > 0 {
		dir, target = protocol.Right, lane-1
	}

	if p.blockedAhead(self, cars, target) {
		if !p.inRange(lane, dir.Opposite()) {
			return protocol.None
		}
		dir = dir.Opposite()
	} else if p.blockingBehind(self, cars) {
		return protocol.None
	}

	if !p.inRange(lane, dir) {
		return protocol.None
	}
	p.decided[pos.PieceIndex] = true
	return dir
}

// inRange reports whether moving dir from lane stays on the track.
func (p *LanePlanner) inRange(lane int, dir protocol.Direction) bool {
	switch dir {
	case protocol.Left:
		return lane > 0
	case protocol.Right:
		return lane < p.track.LaneCount()-1
	}
	return false
}

// blockedAhead reports whether another car in the current or target lane is up
// to trafficWindow pieces in front of self.
func (p *LanePlanner) blockedAhead(self protocol.CarPosition, cars []protocol.CarPosition, target int) bool {
	lane := self.Lane()
	for _, c := range p.others(self, cars) {
		if c.Lane() != lane && c.Lane() != target {
			continue
		}
		gap := p.gap(self, c)
		if gap > trafficWindow {
			continue
		}
		if gap > 0 || (gap == 0 && c.PiecePosition.InPieceDistance > self.PiecePosition.InPieceDistance) {
			return true
		}
	}
	return false
}

// blockingBehind reports whether another car in self's lane is up to
// trafficWindow pieces behind it.
func (p *LanePlanner) blockingBehind(self protocol.CarPosition, cars []protocol.CarPosition) bool {
	lane := self.Lane()
	for _, c := range p.others(self, cars) {
		if c.Lane() != lane {
			continue
		}
		gap := p.gap(self, c)
		if gap < -trafficWindow {
			continue
		}
		if gap < 0 || (gap == 0 && c.PiecePosition.InPieceDistance < self.PiecePosition.InPieceDistance) {
			return true
		}
	}
	return false
}

// gap returns how many pieces other is ahead of self (negative when behind),
// counting across the finish line.
func (p *LanePlanner) gap(self, other protocol.CarPosition) int {
	s, o := self.PiecePosition, other.PiecePosition
	return p.track.Progress(o.Lap, o.PieceIndex) - p.track.Progress(s.Lap, s.PieceIndex)
}

// others filters cars down to everyone but self.
func (p *LanePlanner) others(self protocol.CarPosition, cars []protocol.CarPosition) []protocol.CarPosition {
	out := make([]protocol.CarPosition, 0, len(cars))
	for _, c := range cars {
		if c.ID.Color == self.ID.Color || c.PiecePosition == nil {
			continue
		}
		out = append(out, c)
	}
	return out
}
