package protocol

import (
	"encoding/json"
	"fmt"
)

// Event is one decoded inbound message. Only the payload field matching Type is set.
type Event struct {
	Type     MsgType
	GameID   string
	GameTick *int

	YourCar        *CarID
	GameInit       *GameInit
	CarPositions   []CarPosition
	Crash          *CarID
	TurboAvailable *TurboAvailable
	LapFinished    *LapFinished
	Error          string
}

// envelope is the raw JSON shape of every message, before data is resolved.
type envelope struct {
	MsgType  MsgType         `json:"msgType"`
	Data     json.RawMessage `json:"data"`
	GameID   string          `json:"gameId,omitempty"`
	GameTick *int            `json:"gameTick,omitempty"`
}

// Decode parses one line received from the server.
func Decode(line []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// UnmarshalJSON implements json.Unmarshaler for Event.
// The "msgType" discriminator selects which payload "data" is decoded into;
// types the bot does not act on are kept as informational events.
func (e *Event) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("reading envelope: %w", err)
	}
	if env.MsgType == "" {
		return missing("envelope", "msgType")
	}
	*e = Event{Type: env.MsgType, GameID: env.GameID, GameTick: env.GameTick}

	switch env.MsgType {
	case MsgYourCar:
		var id CarID
		if err := decodeData(env, &id); err != nil {
			return err
		}
		if id.Color == "" {
			return missing(env.MsgType, "color")
		}
		e.YourCar = &id

	case MsgGameInit:
		var gi GameInit
		if err := decodeData(env, &gi); err != nil {
			return err
		}
		if gi.Race == nil || gi.Race.Track == nil {
			return missing(env.MsgType, "race.track")
		}
		e.GameInit = &gi

	case MsgCarPositions:
		var cars []CarPosition
		if err := decodeData(env, &cars); err != nil {
			return err
		}
		for i, c := range cars {
			if c.ID.Color == "" {
				return fmt.Errorf("car %d: %w", i, missing(env.MsgType, "id.color"))
			}
			if c.PiecePosition == nil {
				return fmt.Errorf("car %q: %w", c.ID.Color, missing(env.MsgType, "piecePosition"))
			}
		}
		e.CarPositions = cars

	case MsgCrash:
		var id CarID
		if err := decodeData(env, &id); err != nil {
			return err
		}
		e.Crash = &id

	case MsgTurboAvailable:
		var ta TurboAvailable
		if err := decodeData(env, &ta); err != nil {
			return err
		}
		if ta.DurationTicks == nil {
			return missing(env.MsgType, "turboDurationTicks")
		}
		e.TurboAvailable = &ta

	case MsgLapFinished:
		var lf LapFinished
		if err := decodeData(env, &lf); err != nil {
			return err
		}
		e.LapFinished = &lf

	case MsgError:
		var msg string
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			msg = string(env.Data)
		}
		e.Error = msg
	}
	return nil
}

func decodeData(env envelope, v any) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return missing(env.MsgType, "data")
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("%s: parsing data: %w", env.MsgType, err)
	}
	return nil
}
