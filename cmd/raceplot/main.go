// Command raceplot charts a race recorded by racebot -record.
//
// Usage:
//
//	raceplot -db race.db [-race id] [-out dir] [-html]
//
// Without -race the most recent race is charted. PNG plots of throttle and
// slip angle are written to -out; -html also writes an interactive page.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/cxd309/racebot/internal/recorder"
	"github.com/cxd309/racebot/internal/report"
)

var (
	dbPath = flag.String("db", "race.db", "Recording database")
	raceID = flag.String("race", "", "Race id (default: latest)")
	outDir = flag.String("out", ".", "Output directory")
	html   = flag.Bool("html", false, "Also write an interactive HTML chart")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("raceplot: %v", err)
	}
}

func run() error {
	rec, err := recorder.Open(*dbPath)
	if err != nil {
		return err
	}
	defer rec.Close()

	id := *raceID
	if id == "" {
		races, err := rec.Races()
		if err != nil {
			return err
		}
		if len(races) == 0 {
			return fmt.Errorf("%s has no recorded races", *dbPath)
		}
		id = races[len(races)-1]
	}

	ticks, err := rec.Ticks(id)
	if err != nil {
		return err
	}
	crashes, err := rec.Crashes(id)
	if err != nil {
		return err
	}
	series, err := report.NewSeries(ticks, crashes)
	if err != nil {
		return fmt.Errorf("race %s: %w", id, err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}
	paths, err := report.WritePNG(*outDir, id, series)
	if err != nil {
		return err
	}
	for _, p := range paths {
		log.Printf("wrote %s", p)
	}

	if *html {
		path := filepath.Join(*outDir, id+".html")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := report.WriteHTML(f, id, series); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}
	return nil
}
