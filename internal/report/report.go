// Package report charts recorded races: PNG plots for offline tuning and an
// interactive HTML page.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cxd309/racebot/internal/recorder"
)

// ErrNoTicks is returned when a race has nothing to chart.
var ErrNoTicks = errors.New("race has no recorded ticks")

var (
	throttleColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	angleColor    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Series is the chartable telemetry of one race.
type Series struct {
	Throttle plotter.XYs // throttle commands only
	Angle    plotter.XYs // |slip angle| on every recorded tick
	Crashes  []int
}

// NewSeries extracts the chart series from recorded ticks.
func NewSeries(ticks []recorder.TickRow, crashes []int) (Series, error) {
	if len(ticks) == 0 {
		return Series{}, ErrNoTicks
	}
	s := Series{
		Throttle: make(plotter.XYs, 0, len(ticks)),
		Angle:    make(plotter.XYs, 0, len(ticks)),
		Crashes:  crashes,
	}
	for _, t := range ticks {
		x := float64(t.GameTick)
		if v, ok := t.Throttle(); ok {
			s.Throttle = append(s.Throttle, plotter.XY{X: x, Y: v})
		}
		s.Angle = append(s.Angle, plotter.XY{X: x, Y: math.Abs(t.Angle)})
	}
	return s, nil
}

// WritePNG saves <name>_throttle.png and <name>_angle.png in dir and returns
// the written paths.
func WritePNG(dir, name string, s Series) ([]string, error) {
	figs := []struct {
		suffix string
		title  string
		yLabel string
		pts    plotter.XYs
		color  color.Color
	}{
		{"throttle", "Throttle", "Throttle", s.Throttle, throttleColor},
		{"angle", "Slip Angle", "|Angle| (deg)", s.Angle, angleColor},
	}

	var paths []string
	for _, c := range figs {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s - %s", name, c.title)
		p.X.Label.Text = "Tick"
		p.Y.Label.Text = c.yLabel

		if len(c.pts) > 0 {
			line, err := plotter.NewLine(c.pts)
			if err != nil {
				return paths, err
			}
			line.Color = c.color
			line.Width = vg.Points(1)
			p.Add(line)
		}
		top := 1.0
		for _, pt := range c.pts {
			top = math.Max(top, pt.Y)
		}
		for _, tick := range s.Crashes {
			mark, err := plotter.NewLine(plotter.XYs{{X: float64(tick), Y: 0}, {X: float64(tick), Y: top}})
			if err != nil {
				return paths, err
			}
			mark.Color = color.Black
			mark.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
			p.Add(mark)
		}

		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", name, c.suffix))
		if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
			return paths, fmt.Errorf("saving %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteHTML renders throttle and slip angle on one interactive page.
func WriteHTML(w io.Writer, name string, s Series) error {
	xs := make([]int, 0, len(s.Angle))
	angle := make([]opts.LineData, 0, len(s.Angle))
	throttle := make([]opts.LineData, 0, len(s.Angle))

	byTick := make(map[int]float64, len(s.Throttle))
	for _, pt := range s.Throttle {
		byTick[int(pt.X)] = pt.Y
	}
	for _, pt := range s.Angle {
		tick := int(pt.X)
		xs = append(xs, tick)
		angle = append(angle, opts.LineData{Value: pt.Y})
		if v, ok := byTick[tick]; ok {
			throttle = append(throttle, opts.LineData{Value: v})
		} else {
			throttle = append(throttle, opts.LineData{Value: "-"})
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: name, Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: name, Subtitle: fmt.Sprintf("ticks=%d crashes=%d", len(xs), len(s.Crashes))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Tick", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Throttle", Min: 0, Max: 1}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.ExtendYAxis(opts.YAxis{Name: "|Angle| (deg)"})
	line.SetXAxis(xs).
		AddSeries("throttle", throttle).
		AddSeries("slip angle", angle, charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}))

	return line.Render(w)
}
