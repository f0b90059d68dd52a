// Package protocol defines the JSON wire format spoken with the race server:
// inbound events keyed by msgType and the outbound commands the bot sends.
package protocol

import (
	"errors"
	"fmt"

	"github.com/cxd309/racebot/internal/track"
)

// ErrMissingField is returned when an event lacks a field the bot depends on.
var ErrMissingField = errors.New("missing required field")

func missing(msgType MsgType, field string) error {
	return fmt.Errorf("%s: %w %q", msgType, ErrMissingField, field)
}

// MsgType is the msgType discriminator of an envelope.
type MsgType string

const (
	MsgJoin           MsgType = "join"
	MsgJoinRace       MsgType = "joinRace"
	MsgYourCar        MsgType = "yourCar"
	MsgGameInit       MsgType = "gameInit"
	MsgGameStart      MsgType = "gameStart"
	MsgGameEnd        MsgType = "gameEnd"
	MsgTournamentEnd  MsgType = "tournamentEnd"
	MsgCarPositions   MsgType = "carPositions"
	MsgCrash          MsgType = "crash"
	MsgSpawn          MsgType = "spawn"
	MsgTurboAvailable MsgType = "turboAvailable"
	MsgTurboStart     MsgType = "turboStart"
	MsgTurboEnd       MsgType = "turboEnd"
	MsgLapFinished    MsgType = "lapFinished"
	MsgFinish         MsgType = "finish"
	MsgDNF            MsgType = "dnf"
	MsgError          MsgType = "error"

	MsgThrottle   MsgType = "throttle"
	MsgTurbo      MsgType = "turbo"
	MsgSwitchLane MsgType = "switchLane"
	MsgPing       MsgType = "ping"
)

// CarID identifies a car. Color is unique within a race.
type CarID struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// LanePosition is the lane a car starts and ends the current piece in.
type LanePosition struct {
	StartLaneIndex int `json:"startLaneIndex"`
	EndLaneIndex   int `json:"endLaneIndex"`
}

// PiecePosition locates a car on the track.
type PiecePosition struct {
	PieceIndex      int          `json:"pieceIndex"`
	InPieceDistance float64      `json:"inPieceDistance"`
	Lane            LanePosition `json:"lane"`
	Lap             int          `json:"lap"`
}

// CarPosition is one car's telemetry for a tick.
type CarPosition struct {
	ID            CarID          `json:"id"`
	Angle         float64        `json:"angle"` // slip angle, degrees
	PiecePosition *PiecePosition `json:"piecePosition"`
}

// Lane returns the lane the car is currently in.
func (c CarPosition) Lane() int { return c.PiecePosition.Lane.StartLaneIndex }

// WirePiece is a track piece as sent by the server. Straights carry length,
// curves carry radius and angle.
type WirePiece struct {
	Length *float64 `json:"length,omitempty"`
	Radius *float64 `json:"radius,omitempty"`
	Angle  *float64 `json:"angle,omitempty"`
	Switch bool     `json:"switch,omitempty"`
}

// WireLane is one lane of the track.
type WireLane struct {
	Index              int     `json:"index"`
	DistanceFromCenter float64 `json:"distanceFromCenter"`
}

// WireTrack is the track section of gameInit.
type WireTrack struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Pieces []WirePiece `json:"pieces"`
	Lanes  []WireLane  `json:"lanes"`
}

// RaceSession describes race length. Laps is absent for endless/qualifying sessions.
type RaceSession struct {
	Laps         *int `json:"laps,omitempty"`
	MaxLapTimeMs *int `json:"maxLapTimeMs,omitempty"`
	QuickRace    bool `json:"quickRace,omitempty"`
	DurationMs   *int `json:"durationMs,omitempty"`
}

// Race is the race section of gameInit.
type Race struct {
	Track       *WireTrack  `json:"track"`
	RaceSession RaceSession `json:"raceSession"`
}

// GameInit is the payload of a gameInit event.
type GameInit struct {
	Race *Race `json:"race"`
}

// TrackData converts the wire track into the form track.NewTrack accepts.
func (g GameInit) TrackData() (track.TrackData, error) {
	if g.Race == nil || g.Race.Track == nil {
		return track.TrackData{}, missing(MsgGameInit, "race.track")
	}
	wt := g.Race.Track
	pieces := make([]track.Piece, 0, len(wt.Pieces))
	for i, p := range wt.Pieces {
		switch {
		case p.Angle != nil:
			if p.Radius == nil {
				return track.TrackData{}, fmt.Errorf("piece %d: %w", i, missing(MsgGameInit, "radius"))
			}
			pieces = append(pieces, track.NewCurve(*p.Radius, *p.Angle, p.Switch))
		case p.Length != nil:
			pieces = append(pieces, track.NewStraight(*p.Length, p.Switch))
		default:
			return track.TrackData{}, fmt.Errorf("piece %d: %w", i, missing(MsgGameInit, "length"))
		}
	}
	return track.TrackData{
		ID:        wt.ID,
		Name:      wt.Name,
		Pieces:    pieces,
		LaneCount: len(wt.Lanes),
		Laps:      g.Race.RaceSession.Laps,
	}, nil
}

// TurboAvailable is the payload of a turboAvailable event.
type TurboAvailable struct {
	DurationMs    float64 `json:"turboDurationMilliseconds"`
	DurationTicks *int    `json:"turboDurationTicks"`
	Factor        float64 `json:"turboFactor"`
}

// LapTime is a lap or race time.
type LapTime struct {
	Lap    int `json:"lap,omitempty"`
	Laps   int `json:"laps,omitempty"`
	Ticks  int `json:"ticks"`
	Millis int `json:"millis"`
}

// LapFinished is the payload of a lapFinished event.
type LapFinished struct {
	Car     CarID   `json:"car"`
	LapTime LapTime `json:"lapTime"`
}
