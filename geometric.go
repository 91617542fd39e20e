/*
 * geometric.go, part of gomlp.
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

package mlp

import (
	"math"

	v3 "github.com/gomlp/gomlp/v3"
	"gonum.org/v1/gonum/mat"
)

// CellVolume returns a.(bxc) for the lattice vectors in the rows of cell,
// rounded to 3 decimals.
func CellVolume(cell *v3.Matrix) float64 {
	a := cell.VecView(0)
	b := cell.VecView(1)
	c := cell.VecView(2)
	bc := v3.Zeros(1)
	bc.Cross(b, c)
	return math.Round(v3.Dot(a, bc)*1000) / 1000
}

// Periodic returns false if cell is all zeros, which is how non-periodic
// structures are stored.
func Periodic(cell *v3.Matrix) bool {
	return cell != nil && !cell.IsZero()
}

// MinImage computes minimum-image displacement vectors in a periodic cell.
type MinImage struct {
	cell [3][3]float64
	inv  [3][3]float64
	pbc  bool
}

// NewMinImage returns a MinImage for cell. A zero or singular cell gives
// plain, non-periodic displacements.
func NewMinImage(cell *v3.Matrix) *MinImage {
	M := new(MinImage)
	if !Periodic(cell) {
		return M
	}
	inv, err := cell.Inverse()
	if err != nil {
		return M
	}
	for i := 0; i < 3; i++ {
		M.cell[i] = cell.Vec(i)
		M.inv[i] = inv.Vec(i)
	}
	M.pbc = true
	return M
}

// Delta returns the shortest image of b-a.
func (M *MinImage) Delta(a, b [3]float64) [3]float64 {
	d := sub3(b, a)
	if !M.pbc {
		return d
	}
	//fractional, wrapped to [-0.5,0.5)
	var s [3]float64
	for j := 0; j < 3; j++ {
		for k := 0; k < 3; k++ {
			s[j] += d[k] * M.inv[k][j]
		}
		s[j] -= math.Round(s[j])
	}
	best := M.toCart(s)
	bestn := norm3(best)
	//the wrapped vector is not always the shortest in skewed cells
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			for k := -1; k <= 1; k++ {
				if i == 0 && j == 0 && k == 0 {
					continue
				}
				c := M.toCart([3]float64{s[0] + float64(i), s[1] + float64(j), s[2] + float64(k)})
				if n := norm3(c); n < bestn {
					best, bestn = c, n
				}
			}
		}
	}
	return best
}

// Distance returns the minimum-image distance between a and b.
func (M *MinImage) Distance(a, b [3]float64) float64 {
	return norm3(M.Delta(a, b))
}

func (M *MinImage) toCart(s [3]float64) [3]float64 {
	var r [3]float64
	for j := 0; j < 3; j++ {
		for k := 0; k < 3; k++ {
			r[j] += s[k] * M.cell[k][j]
		}
	}
	return r
}

// DistanceMatrix returns the symmetric matrix of minimum-image distances
// between all the atoms in coords.
func DistanceMatrix(cell, coords *v3.Matrix) *mat.SymDense {
	n := coords.NVecs()
	M := NewMinImage(cell)
	ret := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		a := coords.Vec(i)
		for j := i + 1; j < n; j++ {
			ret.SetSym(i, j, M.Distance(a, coords.Vec(j)))
		}
	}
	return ret
}

// Fractional returns the coordinates of coords in units of the lattice vectors.
func Fractional(cell, coords *v3.Matrix) (*v3.Matrix, error) {
	inv, err := cell.Inverse()
	if err != nil {
		return nil, NewError(ErrInconsistent, "cell is singular", "")
	}
	ret := v3.Zeros(coords.NVecs())
	ret.Mul(coords.Dense, inv.Dense)
	return ret, nil
}

// Cartesian returns the cartesian coordinates for the fractional coordinates frac.
func Cartesian(cell, frac *v3.Matrix) *v3.Matrix {
	ret := v3.Zeros(frac.NVecs())
	ret.Mul(frac.Dense, cell.Dense)
	return ret
}

// Wrap puts all the atoms in coords inside the cell, in place.
func Wrap(cell, coords *v3.Matrix) error {
	frac, err := Fractional(cell, coords)
	if err != nil {
		return errDecorate(err, "Wrap")
	}
	r, _ := frac.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < 3; j++ {
			v := frac.At(i, j)
			frac.Set(i, j, v-math.Floor(v))
		}
	}
	coords.Dense.Copy(Cartesian(cell, frac).Dense)
	return nil
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func norm3(a [3]float64) float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}
