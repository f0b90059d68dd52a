// Command racebot connects to a race server and drives one car.
//
// Usage:
//
//	racebot [flags] [host port name key]
//
// Settings come from an optional JSON config file, then flags, then the
// positional arguments of the classic bot starter, each overriding the last.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/cxd309/racebot/internal/client"
	"github.com/cxd309/racebot/internal/config"
	"github.com/cxd309/racebot/internal/engine"
	"github.com/cxd309/racebot/internal/protocol"
	"github.com/cxd309/racebot/internal/recorder"
)

var (
	configPath = flag.String("config", "", "Path to a JSON config file")
	host       = flag.String("host", "", "Race server host")
	port       = flag.Int("port", 0, "Race server port")
	name       = flag.String("name", "", "Bot name")
	key        = flag.String("key", "", "Bot key")
	trackName  = flag.String("track", "", "Join a race on this track instead of the quick race")
	password   = flag.String("password", "", "Password of the race to join")
	cars       = flag.Int("cars", 0, "Number of cars in the race to join")
	recordPath = flag.String("record", "", "Record every tick to this sqlite file")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("racebot: %v", err)
	}
}

// loadConfig layers the config file, the flags that were set and the
// positional arguments.
func loadConfig() (*config.BotConfig, error) {
	cfg := config.EmptyBotConfig()
	if *configPath != "" {
		fileCfg, err := config.LoadBotConfig(*configPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
	}

	flags := config.EmptyBotConfig()
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			flags.Host = host
		case "port":
			flags.Port = port
		case "name":
			flags.Name = name
		case "key":
			flags.Key = key
		case "track":
			flags.Track = trackName
		case "password":
			flags.Password = password
		case "cars":
			flags.CarCount = cars
		case "record":
			flags.RecordPath = recordPath
		}
	})
	cfg.Merge(flags)

	switch args := flag.Args(); len(args) {
	case 0:
	case 4:
		p, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("port %q: %w", args[1], err)
		}
		cfg.SetHost(args[0])
		cfg.SetPort(p)
		cfg.SetName(args[2])
		cfg.SetKey(args[3])
	default:
		return nil, fmt.Errorf("expected host port name key, got %d arguments", len(args))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.BotConfig) error {
	opts := client.Options{Join: protocol.Join(cfg.GetName(), cfg.GetKey())}
	if cfg.JoinsCustomRace() {
		opts.Join = protocol.JoinRace(cfg.GetName(), cfg.GetKey(), cfg.GetTrack(), cfg.GetPassword(), cfg.GetCarCount())
	}

	if path := cfg.GetRecordPath(); path != "" {
		rec, err := recorder.Open(path)
		if err != nil {
			return err
		}
		defer rec.Close()
		opts.Recorder = rec
		log.Printf("recording to %s", path)
	}

	conn, err := client.Dial(ctx, cfg.GetHost(), cfg.GetPort())
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Printf("connected to %s as %s, sending %s", conn.RemoteAddr(), cfg.GetName(), opts.Join.MsgType)
	return client.Run(ctx, conn, engine.New(), opts)
}
