/*
 * rdf.go, part of gomlp.
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

package neighbor

import (
	"math"

	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/histo"
	v3 "github.com/gomlp/gomlp/v3"
)

// TotalKey is the key of the total radial distribution function in the
// set returned by RDF.
const TotalKey = "total"

// Options for the radial distribution function.
type Options struct {
	cutoff  float64
	bins    int
	partial bool
}

// DefaultOptions returns a 6 A cutoff, 100 bins and partial functions.
func DefaultOptions() *Options {
	return &Options{cutoff: 6, bins: 100, partial: true}
}

// Cutoff returns the largest distance considered, in A, and sets it if a positive
// value is given.
func (O *Options) Cutoff(c ...float64) float64 {
	ret := O.cutoff
	if len(c) > 0 && c[0] > 0 {
		O.cutoff = c[0]
	}
	return ret
}

// Bins returns the number of bins, and sets it if a positive value is given.
func (O *Options) Bins(n ...int) int {
	ret := O.bins
	if len(n) > 0 && n[0] > 0 {
		O.bins = n[0]
	}
	return ret
}

// Partial returns whether a function per bond is computed besides the total one,
// and sets it if a value is given.
func (O *Options) Partial(p ...bool) bool {
	ret := O.partial
	if len(p) > 0 {
		O.partial = p[0]
	}
	return ret
}

// RDF returns the radial distribution functions of A, as histograms with bins
// of the same width between 0 and the cutoff. The set has the total function,
// under TotalKey, and, for partial options, one function per possible bond.
// All periodic images within the cutoff are counted, so the cutoff can be
// larger than half the cell. Each function is normalized by the ideal gas
// density of its pairs: g(r) = V n(r) / (Na Nb 4 pi r^2 dr), where n(r) counts
// the ordered pairs (a, b).
func RDF(A *mlp.Atoms, options ...*Options) (*histo.Set, error) {
	O := DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		O = options[0]
	}
	cell := A.Cell()
	if !mlp.Periodic(cell) {
		return nil, mlp.NewError(mlp.ErrInconsistent, "radial distribution functions need a periodic cell", A.Path)
	}
	if A.Symbols() == nil && O.partial {
		return nil, mlp.NewError(mlp.ErrMissingSymbols, "partial radial distribution functions need chemical symbols", A.Path)
	}
	vol := math.Abs(mlp.CellVolume(cell))
	S := histo.NewSet(histo.Uniform(0, O.cutoff, O.bins))
	S.Fill(TotalKey)
	var bonds []Bond
	if O.partial {
		bonds = PossibleBonds(A.Symbols())
		for _, b := range bonds {
			S.Fill(b.String())
		}
	}
	ts := translations(cell, imageRange(cell, O.cutoff))
	coords := A.Coords()
	n := coords.NVecs()
	for i := 0; i < n; i++ {
		a := coords.Vec(i)
		for j := 0; j < n; j++ {
			b := coords.Vec(j)
			for _, t := range ts {
				d := math.Sqrt(sq(b[0]+t[0]-a[0]) + sq(b[1]+t[1]-a[1]) + sq(b[2]+t[2]-a[2]))
				if d == 0 || d >= O.cutoff {
					continue
				}
				S.AddData(TotalKey, d)
				if O.partial {
					S.AddData(pairKey(A.Symbol(i), A.Symbol(j)), d)
				}
			}
		}
	}
	counts := A.SpeciesCounts()
	normalize(S.View(TotalKey), vol, float64(n), float64(n))
	for _, b := range bonds {
		na, nb := float64(counts[b.First]), float64(counts[b.Second])
		//a-b and b-a pairs are both counted under the a-b key
		if b.First != b.Second {
			nb *= 2
		}
		normalize(S.View(b.String()), vol, na, nb)
	}
	return S, nil
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return Bond{First: a, Second: b}.String()
}

func normalize(D *histo.Data, vol, na, nb float64) {
	D.Scale(func(r, dr, count float64) float64 {
		shell := 4 * math.Pi * r * r * dr
		return count * vol / (na * nb * shell)
	})
}

func sq(x float64) float64 { return x * x }

// imageRange returns, for each lattice vector, how many images on each side can
// have atoms within cutoff of the central cell.
func imageRange(cell *v3.Matrix, cutoff float64) [3]int {
	vol := math.Abs(mlp.CellVolume(cell))
	var ret [3]int
	for i := 0; i < 3; i++ {
		b := cell.Vec((i + 1) % 3)
		c := cell.Vec((i + 2) % 3)
		cross := [3]float64{b[1]*c[2] - b[2]*c[1], b[2]*c[0] - b[0]*c[2], b[0]*c[1] - b[1]*c[0]}
		height := vol / math.Sqrt(sq(cross[0])+sq(cross[1])+sq(cross[2]))
		ret[i] = int(math.Ceil(cutoff/height)) + 1
	}
	return ret
}

func translations(cell *v3.Matrix, images [3]int) [][3]float64 {
	a, b, c := cell.Vec(0), cell.Vec(1), cell.Vec(2)
	var ret [][3]float64
	for i := -images[0]; i <= images[0]; i++ {
		for j := -images[1]; j <= images[1]; j++ {
			for k := -images[2]; k <= images[2]; k++ {
				var t [3]float64
				for x := 0; x < 3; x++ {
					t[x] = float64(i)*a[x] + float64(j)*b[x] + float64(k)*c[x]
				}
				ret = append(ret, t)
			}
		}
	}
	return ret
}
