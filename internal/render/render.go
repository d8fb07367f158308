// Package render draws the map and chart artifacts from pipeline output.
// Every renderer is read-only over its input and safe to run concurrently.
package render

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrNoFacilities is returned when there is nothing to draw.
var ErrNoFacilities = errors.New("no facilities to render")

// Default artifact file names.
const (
	MapFile     = "hospitals_map.html"
	BarFile     = "bar_chart.png"
	HeatmapFile = "heatmap.png"
	ViolinFile  = "violin_plot.png"
)

// ChartOptions sets the PNG canvas size; zero values use per-chart defaults.
type ChartOptions struct {
	Width  vg.Length
	Height vg.Length
}

func (o ChartOptions) size(w, h vg.Length) (vg.Length, vg.Length) {
	if o.Width > 0 {
		w = o.Width
	}
	if o.Height > 0 {
		h = o.Height
	}
	return w, h
}

func writePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	c := vgimg.New(width, height)
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
