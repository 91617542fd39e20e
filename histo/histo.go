/*
 * histo.go, part of gomlp.
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

// Package histo implements histograms with arbitrary dividers, and sets of
// histograms that share their dividers, such as the partial radial
// distribution functions of a structure, one per bond.
package histo

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Uniform returns n+1 dividers for n bins of the same width between min and max.
func Uniform(min, max float64, n int) []float64 {
	if n <= 0 || max <= min {
		panic("gomlp/histo.Uniform: need n > 0 and max > min")
	}
	ret := make([]float64, n+1)
	floats.Span(ret, min, max)
	return ret
}

// Data is a histogram. Bin i counts the values v with
// dividers[i] <= v < dividers[i+1]. Values out of range are ignored.
type Data struct {
	dividers []float64
	histo    []float64
}

// NewData returns a new, empty histogram with the given dividers, which are copied.
func NewData(dividers []float64) *Data {
	if len(dividers) < 2 || !sort.Float64sAreSorted(dividers) {
		panic("gomlp/histo.NewData: dividers must be at least 2, sorted")
	}
	return &Data{dividers: append([]float64(nil), dividers...), histo: make([]float64, len(dividers)-1)}
}

// AddData adds the given data point(s) to the histogram.
func (D *Data) AddData(point ...float64) {
	last := len(D.dividers) - 1
	for _, v := range point {
		if v < D.dividers[0] || v >= D.dividers[last] {
			continue
		}
		//first divider larger than v, minus one.
		j := sort.Search(len(D.dividers), func(i int) bool { return D.dividers[i] > v }) - 1
		D.histo[j]++
	}
}

// View returns the bins. Changing them changes the histogram.
func (D *Data) View() []float64 {
	return D.histo
}

// Centers returns the middle point of each bin.
func (D *Data) Centers() []float64 {
	ret := make([]float64, len(D.histo))
	for i := range ret {
		ret[i] = (D.dividers[i] + D.dividers[i+1]) / 2
	}
	return ret
}

// Width returns the width of the ith bin.
func (D *Data) Width(i int) float64 {
	return D.dividers[i+1] - D.dividers[i]
}

// Scale applies f(center, width, count) to every bin, replacing its value.
func (D *Data) Scale(f func(center, width, count float64) float64) {
	for i, v := range D.histo {
		D.histo[i] = f((D.dividers[i]+D.dividers[i+1])/2, D.Width(i), v)
	}
}
