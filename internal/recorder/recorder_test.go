package recorder

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/racebot/internal/protocol"
)

func openTemp(t *testing.T) *Recorder {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "race.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func gameInit() protocol.GameInit {
	length, radius, angle := 100.0, 50.0, 45.0
	laps := 3
	return protocol.GameInit{Race: &protocol.Race{
		Track: &protocol.WireTrack{
			ID:     "keimola",
			Name:   "Keimola",
			Pieces: []protocol.WirePiece{{Length: &length}, {Radius: &radius, Angle: &angle}},
			Lanes:  []protocol.WireLane{{Index: 0}, {Index: 1}},
		},
		RaceSession: protocol.RaceSession{Laps: &laps},
	}}
}

func self(lap, piece int, dist float64) protocol.CarPosition {
	return protocol.CarPosition{
		ID:    protocol.CarID{Name: "bot", Color: "red"},
		Angle: -3.5,
		PiecePosition: &protocol.PiecePosition{
			PieceIndex:      piece,
			InPieceDistance: dist,
			Lane:            protocol.LanePosition{StartLaneIndex: 1, EndLaneIndex: 1},
			Lap:             lap,
		},
	}
}

func TestRecordTickNeedsRace(t *testing.T) {
	t.Parallel()

	r := openTemp(t)
	err := r.RecordTick(1, self(0, 0, 0), protocol.Ping())
	assert.ErrorIs(t, err, ErrNoRace)
}

func TestRecordRace(t *testing.T) {
	t.Parallel()

	r := openTemp(t)
	id, err := r.StartRace(gameInit())
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	require.NoError(t, r.RecordTick(2, self(0, 1, 12.5), protocol.SwitchLane(protocol.Left, 2)))
	require.NoError(t, r.RecordTick(1, self(0, 1, 5), protocol.Throttle(0.5, 1)))

	ticks, err := r.Ticks(id)
	require.NoError(t, err)
	require.Len(t, ticks, 2)

	assert.Equal(t, TickRow{
		GameTick:        1,
		Lap:             0,
		PieceIndex:      1,
		InPieceDistance: 5,
		Lane:            1,
		Angle:           -3.5,
		Command:         "throttle",
		Value:           "0.5",
	}, ticks[0])
	assert.Equal(t, "switchLane", ticks[1].Command)
	assert.Equal(t, "Left", ticks[1].Value)
}

func TestRecordSeparatesRaces(t *testing.T) {
	t.Parallel()

	r := openTemp(t)
	first, err := r.StartRace(gameInit())
	require.NoError(t, err)
	require.NoError(t, r.RecordTick(1, self(0, 0, 1), protocol.Throttle(1, 1)))

	second, err := r.StartRace(gameInit())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	require.NoError(t, r.RecordTick(1, self(0, 0, 1), protocol.Turbo(1)))

	races, err := r.Races()
	require.NoError(t, err)
	assert.Equal(t, []string{first, second}, races)

	ticks, err := r.Ticks(second)
	require.NoError(t, err)
	require.Len(t, ticks, 1)
	assert.Equal(t, "turbo", ticks[0].Command)
}

func TestStartRaceRejectsBadTrack(t *testing.T) {
	t.Parallel()

	r := openTemp(t)
	_, err := r.StartRace(protocol.GameInit{})
	assert.ErrorIs(t, err, protocol.ErrMissingField)
	assert.ErrorIs(t, r.RecordTick(1, self(0, 0, 0), protocol.Ping()), ErrNoRace)
	races, err := r.Races()
	require.NoError(t, err)
	assert.Empty(t, races)
}

func TestOpenMigratesOnce(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "race.db")
	r, err := Open(path)
	require.NoError(t, err)
	version, dirty, err := schemaVersion(r.db)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	id, err := r.StartRace(gameInit())
	require.NoError(t, err)
	require.NoError(t, r.Close())

	r, err = Open(path)
	require.NoError(t, err)
	defer r.Close()
	races, err := r.Races()
	require.NoError(t, err)
	assert.Equal(t, []string{id}, races)
}

func TestRecordCrash(t *testing.T) {
	t.Parallel()

	r := openTemp(t)
	assert.ErrorIs(t, r.RecordCrash(3), ErrNoRace)

	id, err := r.StartRace(gameInit())
	require.NoError(t, err)
	require.NoError(t, r.RecordCrash(40))
	require.NoError(t, r.RecordCrash(12))

	crashes, err := r.Crashes(id)
	require.NoError(t, err)
	assert.Equal(t, []int{12, 40}, crashes)
}

func TestTickRowThrottle(t *testing.T) {
	t.Parallel()

	v, ok := TickRow{Command: "throttle", Value: "0.65"}.Throttle()
	assert.True(t, ok)
	assert.InDelta(t, 0.65, v, 1e-12)

	_, ok = TickRow{Command: "turbo", Value: "Full send"}.Throttle()
	assert.False(t, ok)
	_, ok = TickRow{Command: "throttle", Value: "fast"}.Throttle()
	assert.False(t, ok)
}
