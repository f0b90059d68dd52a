package engine

import (
	"github.com/cxd309/racebot/internal/kinematics"
	"github.com/cxd309/racebot/internal/planner"
	"github.com/cxd309/racebot/internal/protocol"
	"github.com/cxd309/racebot/internal/track"
)

// Reaction is the engine's answer to one event.
type Reaction struct {
	// Command is the driving command to send, or nil when the event produced
	// none and the caller should keep the connection alive instead.
	Command *protocol.Command
	// Crashed is set when the event reported a crash of the controlled car.
	Crashed bool
	// Tick is the tick of the driving command or crash.
	Tick int
	// Self is the telemetry a driving command was based on.
	Self *protocol.CarPosition
}

// Reply returns the command to put on the wire: the driving command if there
// is one, otherwise a ping.
func (r Reaction) Reply() protocol.Command {
	if r.Command != nil {
		return *r.Command
	}
	return protocol.Ping()
}

// race holds everything that is rebuilt on gameInit.
type race struct {
	track    *track.Track
	friction *kinematics.FrictionEstimator
	speed    *planner.SpeedPlanner
	lanes    *planner.LanePlanner
	turbo    planner.TurboScheduler
}

// Engine is the driving state for one controlled car. It is not safe for
// concurrent use; run one Engine per car.
type Engine struct {
	car      *protocol.CarID
	race     *race
	lastTick int
}
