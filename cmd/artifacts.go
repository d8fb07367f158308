package cmd

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/vg"

	cfgpkg "github.com/KaramelBytes/hospiviz-cli/internal/config"
	"github.com/KaramelBytes/hospiviz-cli/internal/pipeline"
	"github.com/KaramelBytes/hospiviz-cli/internal/render"
	"github.com/KaramelBytes/hospiviz-cli/internal/utils"
)

// artifact renders one output file from a prepared result.
type artifact struct {
	name   string
	render func(w io.Writer) error
}

var (
	flagChartWidth  float64
	flagChartHeight float64
)

func chartOptions() render.ChartOptions {
	return render.ChartOptions{
		Width:  vg.Length(flagChartWidth) * vg.Inch,
		Height: vg.Length(flagChartHeight) * vg.Inch,
	}
}

func mapArtifact(res *pipeline.Result, opt render.MapOptions) artifact {
	return artifact{name: render.MapFile, render: func(w io.Writer) error {
		return render.Map(w, res.Facilities, opt)
	}}
}

func barArtifact(res *pipeline.Result, opt render.ChartOptions) artifact {
	return artifact{name: render.BarFile, render: func(w io.Writer) error {
		return render.Bar(w, res.Facilities, opt)
	}}
}

func heatmapArtifact(res *pipeline.Result, opt render.ChartOptions) artifact {
	return artifact{name: render.HeatmapFile, render: func(w io.Writer) error {
		return render.Heatmap(w, res.Facilities, opt)
	}}
}

func violinArtifact(res *pipeline.Result, opt render.ChartOptions) artifact {
	return artifact{name: render.ViolinFile, render: func(w io.Writer) error {
		return render.Violin(w, res.Facilities, opt)
	}}
}

func mapOptions(c *cfgpkg.Global, scale float64) render.MapOptions {
	return render.MapOptions{
		RadiusScale:   scale,
		IncludeRating: c.PopupIncludeRating,
		Zoom:          c.MapZoom,
	}
}

// writeArtifacts renders every artifact concurrently into memory and only
// writes files once all of them succeeded.
func writeArtifacts(c *cfgpkg.Global, arts ...artifact) ([]string, error) {
	bufs := make([]bytes.Buffer, len(arts))
	var g errgroup.Group
	for i, a := range arts {
		g.Go(func() error {
			if err := a.render(&bufs[i]); err != nil {
				return fmt.Errorf("render %s: %w", a.name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(arts))
	for i, a := range arts {
		p := outputPath(c, a.name)
		if err := utils.WriteArtifact(p, func(w io.Writer) error {
			_, err := bufs[i].WriteTo(w)
			return err
		}); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		logger.Successf("Wrote %s", p)
	}
	return paths, nil
}
