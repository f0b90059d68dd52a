// Package client connects an engine to a race server over TCP. The server
// speaks newline-delimited JSON; every inbound line is answered with exactly
// one outbound line.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"

	"github.com/cxd309/racebot/internal/engine"
	"github.com/cxd309/racebot/internal/monitoring"
	"github.com/cxd309/racebot/internal/protocol"
)

// maxLineSize bounds one server message.
const maxLineSize = 1 << 20

// Recorder receives every race start and every driving decision.
type Recorder interface {
	StartRace(gi protocol.GameInit) (string, error)
	RecordTick(tick int, self protocol.CarPosition, cmd protocol.Command) error
	RecordCrash(tick int) error
}

// Options configures Run.
type Options struct {
	// Join is the first message sent, normally protocol.Join or protocol.JoinRace.
	Join protocol.Command
	// Recorder is optional.
	Recorder Recorder
}

// Dial opens a TCP connection to the race server.
func Dial(ctx context.Context, host string, port int) (net.Conn, error) {
	var d net.Dialer
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	return conn, nil
}

// Run sends opts.Join and then drives the car until the server closes the
// connection (nil), ctx is cancelled (ctx.Err()) or the connection fails.
// Closing conn is how cancellation unblocks the read, so conn should
// implement io.Closer.
func Run(ctx context.Context, conn io.ReadWriter, eng *engine.Engine, opts Options) error {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	if c, ok := conn.(io.Closer); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				c.Close()
			case <-stop:
			}
		}()
	}
	defer func() {
		close(stop)
		wg.Wait()
	}()

	w := bufio.NewWriter(conn)
	if err := send(w, opts.Join); err != nil {
		return ctxErr(ctx, fmt.Errorf("sending %s: %w", opts.Join.MsgType, err))
	}

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		reply := react(eng, sc.Bytes(), opts.Recorder)
		if err := send(w, reply); err != nil {
			return ctxErr(ctx, fmt.Errorf("sending %s: %w", reply.MsgType, err))
		}
	}
	if err := sc.Err(); err != nil {
		return ctxErr(ctx, fmt.Errorf("reading from server: %w", err))
	}
	return ctx.Err()
}

// react decodes one line, lets the engine handle it and returns the reply.
func react(eng *engine.Engine, line []byte, rec Recorder) protocol.Command {
	ev, err := protocol.Decode(line)
	if err != nil {
		monitoring.Logf("ignoring malformed message: %v", err)
		return protocol.Ping()
	}

	r := eng.Handle(ev)
	if rec != nil {
		record(rec, ev, r)
	}
	return r.Reply()
}

func record(rec Recorder, ev protocol.Event, r engine.Reaction) {
	if ev.Type == protocol.MsgGameInit && ev.GameInit != nil {
		id, err := rec.StartRace(*ev.GameInit)
		if err != nil {
			monitoring.Logf("recorder: starting race: %v", err)
			return
		}
		monitoring.Logf("recording race %s", id)
		return
	}
	if r.Crashed {
		if err := rec.RecordCrash(r.Tick); err != nil {
			monitoring.Logf("recorder: crash at tick %d: %v", r.Tick, err)
		}
		return
	}
	if r.Command == nil || r.Self == nil {
		return
	}
	if err := rec.RecordTick(r.Tick, *r.Self, *r.Command); err != nil {
		monitoring.Logf("recorder: tick %d: %v", r.Tick, err)
	}
}

func send(w *bufio.Writer, cmd protocol.Command) error {
	b, err := cmd.Encode()
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}

// ctxErr prefers the cancellation error over the I/O error it caused.
func ctxErr(ctx context.Context, err error) error {
	if ctxE := ctx.Err(); ctxE != nil && !errors.Is(err, ctxE) {
		return ctxE
	}
	return err
}
