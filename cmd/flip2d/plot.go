package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fluidlab/flip2d/internal/storage"
)

// plotRun renders one metric series of a stored run against time.
func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	times, series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	data, ok := series[metricName]
	if !ok {
		names := make([]string, 0, len(series))
		for name := range series {
			names = append(names, name)
		}
		return fmt.Errorf("run %s has no metric %q (have %v)", args[0], metricName, names)
	}

	pts := make(plotter.XYs, 0, len(data))
	for i, v := range data {
		if i < len(times) {
			pts = append(pts, plotter.XY{X: times[i], Y: v})
		}
	}
	if len(pts) < 2 {
		return fmt.Errorf("not enough samples to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s)", metricName, meta.Scene)
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = metricName

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(plotter.NewGrid(), line)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, pngOut); err != nil {
		return err
	}
	fmt.Printf("plot written to %s\n", pngOut)
	return nil
}
