package engine

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cxd309/racebot/internal/monitoring"
	"github.com/cxd309/racebot/internal/protocol"
)

// maxLineSize bounds one server message; gameInit on large tracks is the biggest.
const maxLineSize = 1 << 20

// Replay feeds newline-delimited server messages from r through a fresh engine
// and writes the command the bot would have answered each one with to w.
// Malformed lines are answered with a ping, as on a live connection.
func Replay(r io.Reader, w io.Writer) error {
	eng := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}

		reply := protocol.Ping()
		if ev, err := protocol.Decode([]byte(raw)); err != nil {
			monitoring.Logf("line %d: %v", line, err)
		} else {
			reply = eng.Handle(ev).Reply()
		}

		out, err := reply.Encode()
		if err != nil {
			return fmt.Errorf("line %d: encoding reply: %w", line, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", out); err != nil {
			return fmt.Errorf("writing reply: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading messages: %w", err)
	}
	return nil
}

// ReplayJSON is the string entry point used by the replay CLI and the WASM
// build. It accepts newline-delimited server messages and returns the
// newline-delimited replies.
func ReplayJSON(input string) (string, error) {
	var sb strings.Builder
	if err := Replay(strings.NewReader(input), &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
