// Package recorder logs every driving decision to a sqlite database so races
// can be inspected and the braking tables tuned afterwards.
package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cxd309/racebot/internal/protocol"
)

// ErrNoRace is returned when a tick is recorded before StartRace.
var ErrNoRace = errors.New("no race started")

// Recorder writes races and ticks to sqlite.
type Recorder struct {
	db     *sql.DB
	raceID string
}

// Open opens (creating if needed) the recording database at path and brings
// its schema up to date.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Recorder{db: db}, nil
}

// Close closes the database.
func (r *Recorder) Close() error {
	return r.db.Close()
}

// StartRace registers a new race from its gameInit payload. Following ticks
// are recorded against it.
func (r *Recorder) StartRace(gi protocol.GameInit) (string, error) {
	data, err := gi.TrackData()
	if err != nil {
		return "", err
	}
	var laps sql.NullInt64
	if data.Laps != nil {
		laps = sql.NullInt64{Int64: int64(*data.Laps), Valid: true}
	}

	id := uuid.NewString()
	_, err = r.db.Exec(
		"INSERT INTO races (race_id, track_id, track_name, pieces, lanes, laps, started_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, data.ID, data.Name, len(data.Pieces), data.LaneCount, laps, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting race: %w", err)
	}
	r.raceID = id
	return id, nil
}

// RecordTick stores the controlled car's telemetry and the command sent for it.
func (r *Recorder) RecordTick(tick int, self protocol.CarPosition, cmd protocol.Command) error {
	if r.raceID == "" {
		return ErrNoRace
	}
	pos := self.PiecePosition
	if pos == nil {
		pos = &protocol.PiecePosition{}
	}
	_, err := r.db.Exec(
		`INSERT INTO ticks (race_id, game_tick, lap, piece_index, in_piece_distance, lane, angle, command, value)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.raceID, tick, pos.Lap, pos.PieceIndex, pos.InPieceDistance, pos.Lane.StartLaneIndex, self.Angle,
		string(cmd.MsgType), fmt.Sprint(cmd.Data),
	)
	if err != nil {
		return fmt.Errorf("inserting tick %d: %w", tick, err)
	}
	return nil
}

// RecordCrash stores a crash of the controlled car.
func (r *Recorder) RecordCrash(tick int) error {
	if r.raceID == "" {
		return ErrNoRace
	}
	if _, err := r.db.Exec("INSERT INTO crashes (race_id, game_tick) VALUES (?, ?)", r.raceID, tick); err != nil {
		return fmt.Errorf("inserting crash at tick %d: %w", tick, err)
	}
	return nil
}

// Crashes returns the ticks the controlled car crashed on, in order.
func (r *Recorder) Crashes(raceID string) ([]int, error) {
	rows, err := r.db.Query("SELECT game_tick FROM crashes WHERE race_id = ? ORDER BY game_tick", raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ticks []int
	for rows.Next() {
		var tick int
		if err := rows.Scan(&tick); err != nil {
			return nil, err
		}
		ticks = append(ticks, tick)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ticks, nil
}

// TickRow is one recorded tick.
type TickRow struct {
	GameTick        int
	Lap             int
	PieceIndex      int
	InPieceDistance float64
	Lane            int
	Angle           float64
	Command         string
	Value           string
}

// Throttle returns the throttle sent on this tick and whether the command was
// a throttle at all.
func (t TickRow) Throttle() (float64, bool) {
	if t.Command != "throttle" {
		return 0, false
	}
	v, err := strconv.ParseFloat(t.Value, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Ticks returns the recorded ticks of a race in tick order.
func (r *Recorder) Ticks(raceID string) ([]TickRow, error) {
	rows, err := r.db.Query(
		`SELECT game_tick, lap, piece_index, in_piece_distance, lane, angle, command, value
		 FROM ticks WHERE race_id = ? ORDER BY game_tick`, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ticks []TickRow
	for rows.Next() {
		var t TickRow
		if err := rows.Scan(&t.GameTick, &t.Lap, &t.PieceIndex, &t.InPieceDistance, &t.Lane, &t.Angle, &t.Command, &t.Value); err != nil {
			return nil, err
		}
		ticks = append(ticks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ticks, nil
}

// Races returns the ids of all recorded races, oldest first.
func (r *Recorder) Races() ([]string, error) {
	rows, err := r.db.Query("SELECT race_id FROM races ORDER BY started_at, rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
