/*
 * v3_test.go, part of gomlp.
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

package v3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(Te *testing.T) {
	_, err := NewMatrix([]float64{1, 2})
	require.Error(Te, err)

	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	assert.Equal(Te, 2, A.NVecs())
	assert.Equal(Te, [3]float64{4, 5, 6}, A.Vec(1))
	assert.Equal(Te, []float64{1, 2, 3, 4, 5, 6}, A.Data())

	_, err = FromRows([][]float64{{1, 2, 3}, {4, 5}})
	require.Error(Te, err)
}

func TestCrossDot(Te *testing.T) {
	a, _ := NewMatrix([]float64{1, 0, 0})
	b, _ := NewMatrix([]float64{0, 1, 0})
	c := Zeros(1)
	c.Cross(a, b)
	assert.Equal(Te, [3]float64{0, 0, 1}, c.Vec(0))
	assert.InDelta(Te, 0.0, Dot(a, b), 1e-12)
	assert.InDelta(Te, 1.0, Dot(c, c), 1e-12)
}

func TestSubVecAndViews(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 1, 1, 2, 2, 2})
	v, _ := NewMatrix([]float64{1, 1, 1})
	R := Zeros(2)
	R.SubVec(A, v)
	assert.Equal(Te, [3]float64{0, 0, 0}, R.Vec(0))
	assert.Equal(Te, [3]float64{1, 1, 1}, R.Vec(1))
	assert.InDelta(Te, 1.7320508, R.Norm(1), 1e-6)
	//the vector must be restored
	assert.Equal(Te, [3]float64{1, 1, 1}, v.Vec(0))

	view := A.VecView(1)
	view.Set(0, 0, 10)
	assert.Equal(Te, 10.0, A.At(1, 0))
	R.View(0, 0, 1, 3).AddVec(R.View(0, 0, 1, 3).Clone(), v)
	assert.Equal(Te, [3]float64{1, 1, 1}, R.Vec(0))
	assert.Equal(Te, [3]float64{1, 1, 1}, R.Vec(1))
	assert.Panics(Te, func() { R.AddVec(A.VecView(0), v) })
}

func TestInverse(Te *testing.T) {
	A, _ := NewMatrix([]float64{2, 0, 0, 0, 4, 0, 0, 0, 5})
	inv, err := A.Inverse()
	require.NoError(Te, err)
	assert.InDelta(Te, 0.5, inv.At(0, 0), 1e-12)
	assert.InDelta(Te, 0.25, inv.At(1, 1), 1e-12)
	assert.InDelta(Te, 0.2, inv.At(2, 2), 1e-12)
	B := A.Clone()
	B.Set(0, 0, 1)
	assert.Equal(Te, 2.0, A.At(0, 0))
	assert.False(Te, A.IsZero())
	assert.True(Te, Zeros(2).IsZero())
}
