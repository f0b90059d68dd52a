// Package track provides the circular piece sequence a race is driven on,
// along with the start and finish line indices derived from it.
package track

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTrack is returned when a track has no pieces.
	ErrEmptyTrack = errors.New("track has no pieces")
	// ErrNoLanes is returned when a track declares fewer than one lane.
	ErrNoLanes = errors.New("track has no lanes")
)

// PieceKind classifies a track piece.
type PieceKind string

const (
	KindStraight PieceKind = "straight"
	KindCurve    PieceKind = "curve"
)

// Piece is one segment of the track. Straights use Length; curves use Radius and
// Angle (degrees, positive = right-hand bend).
type Piece struct {
	Kind   PieceKind
	Length float64
	Radius float64
	Angle  float64
	Switch bool // a lane switch is possible on this piece
}

// IsCurve reports whether p is a curve.
func (p Piece) IsCurve() bool { return p.Kind == KindCurve }

// NewStraight returns a straight piece of the given length.
func NewStraight(length float64, hasSwitch bool) Piece {
	return Piece{Kind: KindStraight, Length: length, Switch: hasSwitch}
}

// NewCurve returns a curve piece with the given radius and signed angle.
func NewCurve(radius, angle float64, hasSwitch bool) Piece {
	return Piece{Kind: KindCurve, Radius: radius, Angle: angle, Switch: hasSwitch}
}

// TrackData is the input representation of a track.
// Laps is nil when the race length is unknown (endless or time-based sessions).
type TrackData struct {
	ID        string
	Name      string
	Pieces    []Piece
	LaneCount int
	Laps      *int
}

// Track is an immutable circular sequence of pieces.
type Track struct {
	id         string
	name       string
	pieces     []Piece
	laneCount  int
	laps       *int
	startLine  int
	finishLine int
}

// NewTrack builds a Track from TrackData, computing its start and finish line
// indices. It returns an error if the track has no pieces or no lanes.
func NewTrack(data TrackData) (*Track, error) {
	if len(data.Pieces) == 0 {
		return nil, ErrEmptyTrack
	}
	if data.LaneCount < 1 {
		return nil, fmt.Errorf("track %q: %w", data.ID, ErrNoLanes)
	}
	if data.Laps != nil && *data.Laps < 1 {
		return nil, fmt.Errorf("track %q: lap count must be positive, got %d", data.ID, *data.Laps)
	}

	pieces := make([]Piece, len(data.Pieces))
	copy(pieces, data.Pieces)

	t := &Track{
		id:        data.ID,
		name:      data.Name,
		pieces:    pieces,
		laneCount: data.LaneCount,
	}
	if data.Laps != nil {
		laps := *data.Laps
		t.laps = &laps
	}
	t.startLine, t.finishLine = lineIndices(pieces)
	return t, nil
}

// lineIndices returns the length of the leading straight run and the index
// where the trailing straight run begins. Both are 0 on an all-straight track.
func lineIndices(pieces []Piece) (start, finish int) {
	for _, p := range pieces {
		if p.IsCurve() {
			break
		}
		start++
	}
	if start == len(pieces) {
		return 0, 0
	}

	trailing := 0
	for i := len(pieces) - 1; i >= 0 && !pieces[i].IsCurve(); i-- {
		trailing++
	}
	return start, len(pieces) - trailing
}

// ID returns the track identifier.
func (t *Track) ID() string { return t.id }

// Name returns the human-readable track name.
func (t *Track) Name() string { return t.name }

// Len returns the number of pieces.
func (t *Track) Len() int { return len(t.pieces) }

// LaneCount returns the number of lanes.
func (t *Track) LaneCount() int { return t.laneCount }

// Laps returns the lap count and whether it is known.
func (t *Track) Laps() (int, bool) {
	if t.laps == nil {
		return 0, false
	}
	return *t.laps, true
}

// StartLine returns the number of straight pieces before the first corner.
func (t *Track) StartLine() int { return t.startLine }

// FinishLine returns the index of the first piece of the final straight run.
func (t *Track) FinishLine() int { return t.finishLine }

// OnFinishLine reports whether a car on the given lap and piece is on the
// final stretch. Without a known lap count every lap's final straight counts.
func (t *Track) OnFinishLine(lap, pieceIndex int) bool {
	if t.laps != nil {
		return lap == *t.laps-1 && pieceIndex >= t.finishLine
	}
	return pieceIndex >= t.finishLine
}

// PastStartLine reports whether a car has left the opening straight of the race.
func (t *Track) PastStartLine(lap, pieceIndex int) bool {
	return lap > 0 || pieceIndex > t.startLine
}
