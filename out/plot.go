// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/strucfem/strucfem/fem"
	"github.com/strucfem/strucfem/seismic"
)

// PlotConvergence renders the Newton-Raphson residual histories, one line per
// combination, on a log scale
func PlotConvergence(combos []*fem.ComboResult, filename string) (err error) {
	p := plot.New()
	p.Title.Text = "Convergence History"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Relative Residual"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{}

	for k, cr := range combos {
		if len(cr.Residuals) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(cr.Residuals))
		for i, res := range cr.Residuals {
			pts[i] = plotter.XY{X: float64(i + 1), Y: res}
		}
		line, e := plotter.NewLine(pts)
		if e != nil {
			return e
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotColor(k)
		p.Add(line)
		p.Legend.Add(cr.Combo, line)
	}
	p.Legend.Top = true
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}

// PlotSpectrum renders a design spectrum Sa(T) over the given period range
func PlotSpectrum(spec *seismic.Spectrum, tmax float64, filename string) (err error) {
	p := plot.New()
	p.Title.Text = "Design Response Spectrum"
	p.X.Label.Text = "Period (s)"
	p.Y.Label.Text = "Sa (m/s²)"

	const n = 200
	pts := make(plotter.XYs, 0, n)
	for i := 0; i <= n; i++ {
		t := tmax * float64(i) / n
		sa, e := spec.Sa(t)
		if e != nil {
			continue // outside a tabulated range
		}
		pts = append(pts, plotter.XY{X: t, Y: sa})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = color.RGBA{R: 178, B: 45, A: 255}
	p.Add(line)
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}

// plotColor cycles a small palette for multi-combination plots
func plotColor(k int) color.Color {
	palette := []color.RGBA{
		{R: 31, G: 119, B: 180, A: 255},
		{R: 255, G: 127, B: 14, A: 255},
		{R: 44, G: 160, B: 44, A: 255},
		{R: 214, G: 39, B: 40, A: 255},
		{R: 148, G: 103, B: 189, A: 255},
	}
	return palette[k%len(palette)]
}
