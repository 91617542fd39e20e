/*
 * input_test.go, part of gomlp.
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

package qe

import (
	"path/filepath"
	"testing"

	mlp "github.com/gomlp/gomlp"
	v3 "github.com/gomlp/gomlp/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeSi(Te *testing.T) *mlp.Atoms {
	cell, err := v3.NewMatrix([]float64{10, 0, 0, 0, 8, 0, 1, 0, 6})
	require.NoError(Te, err)
	coords, err := v3.NewMatrix([]float64{0, 0, 0, 5, 4, 3, 1.5, 2, 0.6})
	require.NoError(Te, err)
	A, err := mlp.NewAtoms(cell, coords, "Si3")
	require.NoError(Te, err)
	return A
}

func TestBuildInput(Te *testing.T) {
	T, err := mlp.ReadLines("testdata/mp-149_single/scf.in")
	require.NoError(Te, err)
	A := threeSi(Te)
	lines, err := BuildInput(T.All(), A, "/scratch/si")
	require.NoError(Te, err)
	assert.Len(Te, lines, T.Len()+1)
	D := NewDeck(mlp.LinesFrom("built", lines))
	n, err := D.NAtoms()
	require.NoError(Te, err)
	assert.Equal(Te, 3, n)
	out, _ := D.Value("outdir")
	assert.Equal(Te, "/scratch/si", out)
	ntyp, _ := D.Value("ntyp")
	assert.Equal(Te, "1", ntyp)
	cell, err := D.Cell()
	require.NoError(Te, err)
	assert.True(Te, cell.EqualApprox(A.Cell(), 1e-9))
	coords, symbols, err := D.Positions()
	require.NoError(Te, err)
	assert.Equal(Te, A.Symbols(), symbols)
	assert.True(Te, coords.EqualApprox(A.Coords(), 1e-8))
	k, err := D.CardLines("K_POINTS")
	require.NoError(Te, err)
	assert.Equal(Te, []string{"4 4 4 0 0 0"}, k)
	//the template is untouched
	assert.Equal(Te, "ATOMIC_POSITIONS crystal", T.Line(T.Len()-6))
}

func TestBuildInputErrors(Te *testing.T) {
	T, err := mlp.ReadLines("testdata/mp-149_single/scf.in")
	require.NoError(Te, err)
	A := threeSi(Te)
	Te.Run("species", func(Te *testing.T) {
		require.NoError(Te, A.SetSymbols("Si", "O", "Si"))
		_, err := BuildInput(T.All(), A)
		require.ErrorIs(Te, err, mlp.ErrUnknownSpecies)
	})
	Te.Run("symbols", func(Te *testing.T) {
		require.NoError(Te, A.SetSymbols())
		_, err := BuildInput(T.All(), A)
		require.ErrorIs(Te, err, mlp.ErrMissingSymbols)
	})
	Te.Run("cell card", func(Te *testing.T) {
		require.NoError(Te, A.SetSymbols("Si3"))
		var template []string
		for _, l := range T.All() {
			if l != "CELL_PARAMETERS angstrom" {
				template = append(template, l)
			}
		}
		_, err := BuildInput(template, A)
		require.ErrorIs(Te, err, mlp.ErrMarkerNotFound)
		assert.Contains(Te, err.Error(), "CELL_PARAMETERS")
	})
}

func TestWriteInput(Te *testing.T) {
	A, err := Read("testdata/dimer_2.2")
	require.NoError(Te, err)
	path := filepath.Join(Te.TempDir(), "calc", "scf.in")
	require.NoError(Te, WriteInput("testdata/mp-149_single/scf.in", path, A))
	D, err := ReadDeck(path)
	require.NoError(Te, err)
	coords, _, err := D.Positions()
	require.NoError(Te, err)
	assert.True(Te, coords.EqualApprox(A.Coords(), 1e-6))
}
