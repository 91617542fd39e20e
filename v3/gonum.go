/*
 * gonum.go, part of gomlp.
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

//gonum.go contains what is needed for handling the gonum/mat types.
//All the *Vec functions operate on row vectors: a "vector" is the
//cartesian coordinates of a point in 3D space.

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a set of vectors in 3D space.
type Matrix struct {
	*mat.Dense
}

// NewMatrix generates and returns a Matrix with 3 columns from data.
// The data slice is used as backing storage, not copied.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 || l == 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not a positive multiple of %d", l, cols), []string{"NewMatrix"}}
	}
	r := mat.NewDense(rows, cols, data)
	return &Matrix{r}, nil
}

// FromRows builds a Matrix copying the given rows, each of which must have 3 elements.
func FromRows(rows [][]float64) (*Matrix, error) {
	data := make([]float64, 0, 3*len(rows))
	for i, v := range rows {
		if len(v) != 3 {
			return nil, Error{fmt.Sprintf("Row %d has %d elements, expected 3", i, len(v)), []string{"FromRows"}}
		}
		data = append(data, v...)
	}
	return NewMatrix(data)
}

// VecView returns a view of the given vector of the matrix.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

// View returns a view of F starting from i,j and spanning r rows and
// c columns. Changes in the view are reflected in F and vice-versa.
func (F *Matrix) View(i, j, r, c int) *Matrix {
	ret := F.Dense.Slice(i, i+r, j, j+c).(*mat.Dense)
	return &Matrix{ret}
}

// Vec returns a copy of the ith vector of F as an array.
func (F *Matrix) Vec(i int) [3]float64 {
	r := F.Dense.RawRowView(i)
	return [3]float64{r[0], r[1], r[2]}
}

// Data returns a row-major copy of all the elements of F.
func (F *Matrix) Data() []float64 {
	n := F.NVecs()
	ret := make([]float64, 0, 3*n)
	for i := 0; i < n; i++ {
		ret = append(ret, F.Dense.RawRowView(i)...)
	}
	return ret
}

// Inverse returns the inverse of a 3x3 matrix F.
func (F *Matrix) Inverse() (*Matrix, error) {
	if F.NVecs() != 3 {
		return nil, Error{"Only 3x3 matrices can be inverted", []string{"Inverse"}}
	}
	ret := Zeros(3)
	if err := ret.Dense.Inverse(F.Dense); err != nil {
		return nil, Error{err.Error(), []string{"Inverse"}}
	}
	return ret, nil
}

//Errors

// Error is returned by the v3 constructors. It records the function
// where it originated.
type Error struct {
	message string
	deco    []string
}

// Error returns a string with an error message.
func (err Error) Error() string {
	if len(err.deco) == 0 {
		return err.message
	}
	return "v3: " + strings.Join(err.deco, ": ") + ": " + err.message
}

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
// for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix   = PanicMsg("gomlp/v3: A VecMatrix should have 3 columns")
	ErrNoCrossProduct = PanicMsg("gomlp/v3: Invalid matrix for cross product")
	ErrShape          = PanicMsg("gomlp/v3: Dimension mismatch")
)
