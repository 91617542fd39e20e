/*
 * depth_test.go, part of gomlp.
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

package depth

import (
	"testing"

	mlp "github.com/gomlp/gomlp"
	v3 "github.com/gomlp/gomlp/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slab(Te *testing.T) *mlp.Atoms {
	cell, err := v3.FromRows([][]float64{{10, 0, 0}, {0, 10, 0}, {0, 0, 30}})
	require.NoError(Te, err)
	zs := []float64{4.0, 2.5, 3.0, 1.5, 0.2, 0.0, -0.2, 2.5}
	rows := make([][]float64, len(zs))
	for i, z := range zs {
		rows[i] = []float64{float64(i), 1, z}
	}
	coords, err := v3.FromRows(rows)
	require.NoError(Te, err)
	A, err := mlp.NewAtoms(cell, coords, "Si", "Si", "Si", "Si", "Si", "Si", "Si", "O")
	require.NoError(Te, err)
	return A
}

func TestProfile(Te *testing.T) {
	A := slab(Te)
	O := DefaultOptions()
	O.Step(1)
	O.Interval(2)
	rows, err := Profile(A, "Si", 2, 4, O)
	require.NoError(Te, err)
	//bins hold 1, 2, 1 and 3 atoms, the average needs 3 points
	require.Len(Te, rows, 2)
	assert.InDelta(Te, 2.0/3, rows[0].Depth, 1e-9)
	assert.InDelta(Te, 2e22, rows[0].Density, 1e9)
	assert.InDelta(Te, 4e22/3, rows[0].Average, 1e9)
	assert.InDelta(Te, -2.0/3, rows[1].Depth, 1e-9)
	assert.InDelta(Te, 2e22, rows[1].Average, 1e9)

	byZ, err := Profile(A, "14", 2, 4, O)
	require.NoError(Te, err)
	assert.Equal(Te, rows, byZ)

	O.Area(5, 10)
	rows, err = Profile(A, "si", 2, 4, O)
	require.NoError(Te, err)
	assert.InDelta(Te, 4e22, rows[1].Average, 1e9)
}

func TestProfileEvenWindow(Te *testing.T) {
	A := slab(Te)
	O := DefaultOptions()
	O.Step(1)
	O.Interval(3)
	rows, err := Profile(A, "Si", 2, 4, O)
	require.NoError(Te, err)
	//4 points: bins i-2 to i+1, so only the third bin has an average
	require.Len(Te, rows, 1)
	assert.InDelta(Te, -2.0/3, rows[0].Depth, 1e-9)
	assert.InDelta(Te, 1e22, rows[0].Density, 1e9)
	assert.InDelta(Te, 1.75e22, rows[0].Average, 1e9)
}

func TestProfileErrors(Te *testing.T) {
	A := slab(Te)
	_, err := Profile(A, "Xx", 2, 4)
	require.ErrorIs(Te, err, mlp.ErrUnknownSpecies)
	_, err = Profile(A, "Si", 2, 0)
	require.ErrorIs(Te, err, mlp.ErrBadValue)
	B, err := mlp.NewAtoms(A.Cell(), A.Coords())
	require.NoError(Te, err)
	_, err = Profile(B, "Si", 2, 4)
	require.ErrorIs(Te, err, mlp.ErrMissingSymbols)
}

func TestLinspace(Te *testing.T) {
	assert.Equal(Te, []float64{3}, linspace(3, -1, 1))
	assert.Equal(Te, []float64{3, 1, -1}, linspace(3, -1, 3))
}
