/*
 * depth.go, part of gomlp.
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

// Package depth computes the number density of one element as a function of
// the depth below a surface, as used to follow implantation in irradiated slabs.
package depth

import (
	"fmt"
	"math"
	"strconv"

	mlp "github.com/gomlp/gomlp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Ang3ToCm3 converts a density in A^-3 to cm^-3.
const Ang3ToCm3 = 1.0e24

// Options for the depth profile.
type Options struct {
	step     float64
	interval float64
	x, y     float64
}

// DefaultOptions returns 0.5 A bins, a 3 A moving average window and
// the lateral size of the cell as area.
func DefaultOptions() *Options {
	return &Options{step: 0.5, interval: 3}
}

// Step returns the width of the bins, in A, and sets it if a positive value is given.
func (O *Options) Step(s ...float64) float64 {
	ret := O.step
	if len(s) > 0 && s[0] > 0 {
		O.step = s[0]
	}
	return ret
}

// Interval returns the depth range, in A, of the moving average, and sets it
// if a positive value is given.
func (O *Options) Interval(i ...float64) float64 {
	ret := O.interval
	if len(i) > 0 && i[0] > 0 {
		O.interval = i[0]
	}
	return ret
}

// Area returns the x and y widths, in A, used for the volume of the bins, and
// sets them if positive values are given. Zero widths mean the lengths of the
// first two cell vectors.
func (O *Options) Area(xy ...float64) (float64, float64) {
	x, y := O.x, O.y
	if len(xy) > 1 && xy[0] > 0 && xy[1] > 0 {
		O.x, O.y = xy[0], xy[1]
	}
	return x, y
}

// Row is one point of a depth profile.
type Row struct {
	Depth   float64 //A, negative below the surface
	Density float64 //cm^-3
	Average float64 //moving average of Density, cm^-3
}

// Profile returns the density of the atoms of the given species, a symbol or
// an atomic number, against their depth z - surface. The bins are centered on
// evenly spaced depths going from upper - surface down to -surface, with
// ceil(upper/step) points, and take the atoms within half a step of their
// center. Rows at the ends, where the centered moving average of
// int(interval/step + 1) points is not defined, are dropped. Even windows
// take one more point before the center than after it.
func Profile(A *mlp.Atoms, species string, surface, upper float64, options ...*Options) ([]Row, error) {
	O := DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		O = options[0]
	}
	if A.Symbols() == nil {
		return nil, mlp.NewError(mlp.ErrMissingSymbols, "depth profile needs chemical symbols", A.Path)
	}
	symbol, err := element(species)
	if err != nil {
		return nil, mlp.Decorate(err, "depth.Profile")
	}
	n := int(math.Ceil(upper / O.step))
	if n < 1 {
		return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("upper limit %g gives no bins", upper), "")
	}
	x, y := O.Area()
	if x <= 0 || y <= 0 {
		x, y = A.Cell().Norm(0), A.Cell().Norm(1)
	}
	if x*y <= 0 {
		return nil, mlp.NewError(mlp.ErrBadValue, "depth profile needs a cell or an explicit area", A.Path)
	}
	var depths []float64
	for i, s := range A.Symbols() {
		if s == symbol {
			depths = append(depths, A.Coords().At(i, 2)-surface)
		}
	}
	centers := linspace(upper-surface, -surface, n)
	vol := x * y * O.step
	density := make([]float64, n)
	for i, c := range centers {
		count := 0
		for _, d := range depths {
			if c-O.step/2 < d && d < c+O.step/2 {
				count++
			}
		}
		density[i] = float64(count) / vol * Ang3ToCm3
	}
	w := int(O.interval/O.step + 1)
	var ret []Row
	for i := range centers {
		start := i - w/2
		end := start + w
		if start < 0 || end > n {
			continue
		}
		ret = append(ret, Row{Depth: centers[i], Density: density[i], Average: stat.Mean(density[start:end], nil)})
	}
	return ret, nil
}

// element accepts a symbol or an atomic number.
func element(species string) (string, error) {
	z, err := strconv.Atoi(species)
	if err != nil {
		if z, err = mlp.AtomicNumber(species); err != nil {
			return "", err
		}
	}
	return mlp.Symbol(z)
}

// linspace returns n evenly spaced values from start to stop, both included.
func linspace(start, stop float64, n int) []float64 {
	if n == 1 {
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, stop)
}
