package protocol

import "encoding/json"

// Direction is a lane change direction. The zero value means stay in lane.
type Direction string

const (
	None  Direction = ""
	Left  Direction = "Left"
	Right Direction = "Right"
)

// Opposite returns the other direction; None stays None.
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	}
	return None
}

// turboPayload is the fixed message sent with a turbo activation.
const turboPayload = "Full send"

// Command is one outbound message.
type Command struct {
	MsgType  MsgType `json:"msgType"`
	Data     any     `json:"data"`
	GameTick *int    `json:"gameTick,omitempty"`
}

// Encode returns the wire form of c without a trailing newline.
func (c Command) Encode() ([]byte, error) {
	return json.Marshal(c)
}

func tickPtr(tick int) *int { return &tick }

// Throttle sets the throttle (0..1) for the given tick.
func Throttle(value float64, tick int) Command {
	return Command{MsgType: MsgThrottle, Data: value, GameTick: tickPtr(tick)}
}

// Turbo activates a turbo boost on the given tick.
func Turbo(tick int) Command {
	return Command{MsgType: MsgTurbo, Data: turboPayload, GameTick: tickPtr(tick)}
}

// SwitchLane requests a lane change at the next switch piece.
func SwitchLane(dir Direction, tick int) Command {
	return Command{MsgType: MsgSwitchLane, Data: string(dir), GameTick: tickPtr(tick)}
}

// Ping keeps the connection alive when the bot has nothing to say.
func Ping() Command {
	return Command{MsgType: MsgPing, Data: struct{}{}}
}

// Join enters the default quick race.
func Join(name, key string) Command {
	return Command{MsgType: MsgJoin, Data: BotID{Name: name, Key: key}}
}

// BotID authenticates the bot with the server.
type BotID struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// JoinRaceData selects a specific track and opponent count.
type JoinRaceData struct {
	BotID     BotID  `json:"botId"`
	TrackName string `json:"trackName,omitempty"`
	Password  string `json:"password,omitempty"`
	CarCount  int    `json:"carCount"`
}

// JoinRace enters (or creates) a race on a named track.
func JoinRace(name, key, trackName, password string, carCount int) Command {
	return Command{MsgType: MsgJoinRace, Data: JoinRaceData{
		BotID:     BotID{Name: name, Key: key},
		TrackName: trackName,
		Password:  password,
		CarCount:  carCount,
	}}
}
