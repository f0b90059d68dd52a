// Package engine implements the per-tick driving loop.
//
// Every carPositions event runs three planners over the controlled car's
// telemetry and sends exactly one command, chosen by priority:
//
//  1. Turbo - when a turbo window is open and the car is on the final straight.
//  2. Lane switch - when a switch piece is next and traffic allows.
//  3. Throttle - the speed planner's target.
//
// Every other event only updates race state.
package engine

import (
	"fmt"

	"github.com/cxd309/racebot/internal/kinematics"
	"github.com/cxd309/racebot/internal/monitoring"
	"github.com/cxd309/racebot/internal/planner"
	"github.com/cxd309/racebot/internal/protocol"
	"github.com/cxd309/racebot/internal/track"
)

var errNoPayload = fmt.Errorf("%w: data", protocol.ErrMissingField)

// New returns an engine waiting for yourCar and gameInit.
func New() *Engine {
	return &Engine{}
}

// Track returns the current race's track, or nil before gameInit.
func (e *Engine) Track() *track.Track {
	if e.race == nil {
		return nil
	}
	return e.race.track
}

// Friction returns the calibrated friction, if any.
func (e *Engine) Friction() (float64, bool) {
	if e.race == nil {
		return 0, false
	}
	return e.race.friction.Friction()
}

// Handle processes one event. Events that cannot be applied are logged and
// ignored; the engine keeps its previous state.
func (e *Engine) Handle(ev protocol.Event) Reaction {
	r, err := e.handle(ev)
	if err != nil {
		monitoring.Logf("ignoring %s: %v", ev.Type, err)
		return Reaction{}
	}
	return r
}

func (e *Engine) handle(ev protocol.Event) (Reaction, error) {
	if ev.GameTick != nil && ev.Type != protocol.MsgCarPositions {
		e.lastTick = *ev.GameTick
	}

	switch ev.Type {
	case protocol.MsgJoin, protocol.MsgJoinRace:
		monitoring.Logf("joined")

	case protocol.MsgYourCar:
		if ev.YourCar == nil {
			return Reaction{}, errNoPayload
		}
		id := *ev.YourCar
		e.car = &id
		monitoring.Logf("driving the %s car as %q", id.Color, id.Name)

	case protocol.MsgGameInit:
		if ev.GameInit == nil {
			return Reaction{}, errNoPayload
		}
		if err := e.initRace(*ev.GameInit); err != nil {
			return Reaction{}, err
		}

	case protocol.MsgGameStart:
		monitoring.Logf("race started")

	case protocol.MsgGameEnd:
		monitoring.Logf("race ended")

	case protocol.MsgCrash:
		if ev.Crash == nil {
			return Reaction{}, errNoPayload
		}
		if e.car != nil && ev.Crash.Color == e.car.Color {
			monitoring.Logf("crashed at tick %d", e.lastTick)
			return Reaction{Crashed: true, Tick: e.lastTick}, nil
		}

	case protocol.MsgTurboAvailable:
		if ev.TurboAvailable == nil || ev.TurboAvailable.DurationTicks == nil {
			return Reaction{}, errNoPayload
		}
		if e.race == nil {
			return Reaction{}, nil
		}
		e.race.turbo.Grant(e.lastTick, *ev.TurboAvailable.DurationTicks)

	case protocol.MsgLapFinished:
		if e.race != nil {
			e.race.lanes.Reset()
		}

	case protocol.MsgCarPositions:
		return e.drive(ev)

	case protocol.MsgError:
		monitoring.Logf("server error: %s", ev.Error)
	}
	return Reaction{}, nil
}

// initRace replaces all race state with a fresh race on the given track.
func (e *Engine) initRace(gi protocol.GameInit) error {
	data, err := gi.TrackData()
	if err != nil {
		return err
	}
	t, err := track.NewTrack(data)
	if err != nil {
		return fmt.Errorf("building track: %w", err)
	}

	friction := &kinematics.FrictionEstimator{}
	e.race = &race{
		track:    t,
		friction: friction,
		speed:    planner.NewSpeedPlanner(t, friction),
		lanes:    planner.NewLanePlanner(t),
	}
	monitoring.Logf("track %s (%q): %d pieces, %d lanes, start line %d, finish line %d",
		t.ID(), t.Name(), t.Len(), t.LaneCount(), t.StartLine(), t.FinishLine())
	return nil
}

// drive picks the command for a carPositions tick.
func (e *Engine) drive(ev protocol.Event) (Reaction, error) {
	if e.car == nil || e.race == nil || ev.GameTick == nil {
		return Reaction{}, nil
	}
	tick := *ev.GameTick
	e.lastTick = tick

	self, ok := e.findSelf(ev.CarPositions)
	if !ok {
		return Reaction{}, nil
	}
	pos := self.PiecePosition
	if pos == nil {
		return Reaction{}, fmt.Errorf("car %q: %w", self.ID.Color, errNoPayload)
	}
	rc := e.race
	if pos.PieceIndex < 0 || pos.PieceIndex >= rc.track.Len() {
		return Reaction{}, fmt.Errorf("piece index %d outside track of %d pieces", pos.PieceIndex, rc.track.Len())
	}
	if lane := self.Lane(); lane < 0 || lane >= rc.track.LaneCount() {
		return Reaction{}, fmt.Errorf("lane %d outside track of %d lanes", lane, rc.track.LaneCount())
	}

	_, calibrated := rc.friction.Friction()
	if f, ok := rc.friction.Observe(tick, pos.InPieceDistance); ok && !calibrated {
		monitoring.Logf("friction calibrated at tick %d: %.3f, switching to friction brakes", tick, f)
	}

	speed := rc.speed.Plan(pos.PieceIndex, self.Angle, pos.Lap)
	dir := rc.lanes.Plan(self, ev.CarPositions)

	var cmd protocol.Command
	switch {
	case rc.turbo.Eligible(tick) && rc.track.OnFinishLine(pos.Lap, pos.PieceIndex):
		cmd = protocol.Turbo(tick)
	case dir != protocol.None:
		cmd = protocol.SwitchLane(dir, tick)
	default:
		cmd = protocol.Throttle(speed, tick)
	}
	return Reaction{Command: &cmd, Tick: tick, Self: &self}, nil
}

// findSelf extracts the controlled car's record from a tick's telemetry.
func (e *Engine) findSelf(cars []protocol.CarPosition) (protocol.CarPosition, bool) {
	for _, c := range cars {
		if c.ID.Color == e.car.Color {
			return c, true
		}
	}
	return protocol.CarPosition{}, false
}
