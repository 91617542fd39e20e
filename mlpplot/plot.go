/*
 * plot.go, part of gomlp.
 *
 * Copyright 2024 The gomlp Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package mlpplot draws the curves produced by the gomlp analyzers (radial
// distribution functions, pair potentials, depth profiles, sputtering yields,
// learning curves) with gonum/plot.
package mlpplot

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	mlp "github.com/gomlp/gomlp"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Size of the saved figures.
var (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// Series is one named curve.
type Series struct {
	Name   string
	X, Y   []float64
	Points bool //draw the points too
}

func (S Series) xys() (plotter.XYs, error) {
	if len(S.X) != len(S.Y) {
		return nil, mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("series %q has %d x and %d y values", S.Name, len(S.X), len(S.Y)), "")
	}
	ret := make(plotter.XYs, len(S.X))
	for i := range S.X {
		ret[i].X = S.X[i]
		ret[i].Y = S.Y[i]
	}
	return ret, nil
}

// Labels are the title and axis labels of a figure.
type Labels struct {
	Title, X, Y string
}

func basicPlot(L Labels) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = L.Title
	p.X.Label.Text = L.X
	p.Y.Label.Text = L.Y
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

// Lines draws the series as lines and saves the figure to filename. The
// format (png, svg, pdf, eps...) is taken from the extension.
func Lines(series []Series, L Labels, filename string) error {
	if len(series) == 0 {
		return mlp.NewError(mlp.ErrBadValue, "nothing to plot", filename)
	}
	p := basicPlot(L)
	for i, s := range series {
		xy, err := s.xys()
		if err != nil {
			return mlp.Decorate(err, "Lines")
		}
		r, g, b := colors(i, len(series))
		c := color.RGBA{R: r, G: g, B: b, A: 255}
		l, err := plotter.NewLine(xy)
		if err != nil {
			return mlp.Decorate(err, "Lines")
		}
		l.LineStyle.Width = vg.Points(1.5)
		l.LineStyle.Color = c
		p.Add(l)
		if !s.Points {
			if s.Name != "" {
				p.Legend.Add(s.Name, l)
			}
			continue
		}
		sc, err := plotter.NewScatter(xy)
		if err != nil {
			return mlp.Decorate(err, "Lines")
		}
		sc.GlyphStyle.Color = c
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		if s.Name != "" {
			p.Legend.Add(s.Name, l, sc)
		}
	}
	return save(p, filename)
}

// Parity draws predicted against reference values with the y = x line, as
// used to judge the fit of a potential, and saves it to filename.
func Parity(ref, pred []float64, L Labels, filename string) error {
	xy, err := Series{Name: "parity", X: ref, Y: pred}.xys()
	if err != nil {
		return mlp.Decorate(err, "Parity")
	}
	if len(xy) == 0 {
		return mlp.NewError(mlp.ErrBadValue, "nothing to plot", filename)
	}
	p := basicPlot(L)
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range xy {
		min = math.Min(min, math.Min(v.X, v.Y))
		max = math.Max(max, math.Max(v.X, v.Y))
	}
	diag, err := plotter.NewLine(plotter.XYs{{X: min, Y: min}, {X: max, Y: max}})
	if err != nil {
		return mlp.Decorate(err, "Parity")
	}
	diag.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	sc, err := plotter.NewScatter(xy)
	if err != nil {
		return mlp.Decorate(err, "Parity")
	}
	r, g, b := colors(0, 1)
	sc.GlyphStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(diag, sc)
	return save(p, filename)
}

func save(p *plot.Plot, filename string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return mlp.NewError(mlp.ErrUnsupportedFormat, "the file name needs an extension", filename)
	}
	if err := p.Save(Width, Height, filename); err != nil {
		return mlp.NewError(mlp.ErrUnsupportedFormat, err.Error(), filename)
	}
	return nil
}
