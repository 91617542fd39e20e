/*
 * neighbor_test.go, part of gomlp.
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
	"errors"
	"math"
	"testing"

	mlp "github.com/gomlp/gomlp"
	v3 "github.com/gomlp/gomlp/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rocksalt returns the conventional NaCl cell with a 4 A lattice parameter.
func rocksalt(Te *testing.T, symbols ...string) *mlp.Atoms {
	cell, _ := v3.FromRows([][]float64{{4, 0, 0}, {0, 4, 0}, {0, 0, 4}})
	coords, _ := v3.FromRows([][]float64{
		{0, 0, 0}, {2, 2, 0}, {2, 0, 2}, {0, 2, 2},
		{2, 0, 0}, {0, 2, 0}, {0, 0, 2}, {2, 2, 2},
	})
	A, err := mlp.NewAtoms(cell, coords, symbols...)
	require.NoError(Te, err)
	return A
}

var naCl = []string{"Na", "Na", "Na", "Na", "Cl", "Cl", "Cl", "Cl"}

func TestBonds(Te *testing.T) {
	b := PossibleBonds([]string{"Si", "O", "Si", "O", "O"})
	assert.Equal(Te, []Bond{{"O", "O"}, {"O", "Si"}, {"Si", "Si"}}, b)
	assert.Equal(Te, "O-Si", b[1].String())
	p, err := ParseBond("Si-O")
	require.NoError(Te, err)
	assert.Equal(Te, Bond{"Si", "O"}, p)
	_, err = ParseBond("SiO")
	assert.True(Te, errors.Is(err, mlp.ErrBadValue))
	assert.Len(Te, PossibleBonds([]string{"Si"}), 1)
}

func TestNearestNeighbor(Te *testing.T) {
	A := rocksalt(Te, naCl...)
	d, err := NearestNeighbor(A, Bond{"Na", "Cl"})
	require.NoError(Te, err)
	assert.InDelta(Te, 2.0, d, 1e-12)
	d, err = NearestNeighbor(A, Bond{"Na", "Na"})
	require.NoError(Te, err)
	assert.InDelta(Te, 2*math.Sqrt2, d, 1e-12)
	_, err = NearestNeighbor(A, Bond{"Na", "K"})
	assert.True(Te, errors.Is(err, mlp.ErrNoNeighbors))

	T, err := NearestNeighbors(A)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"Cl-Cl", "Cl-Na", "Na-Na"}, T.Bonds())
	assert.InDelta(Te, 2.0, T["Cl-Na"], 1e-12)
	assert.InDelta(Te, 2*math.Sqrt2, T["Cl-Cl"], 1e-12)

	//one Na: there is no Na-Na pair, only its periodic images
	one := rocksalt(Te, "Na", "Cl", "Cl", "Cl", "Cl", "Cl", "Cl", "Cl")
	T, err = NearestNeighbors(one)
	require.NoError(Te, err)
	_, ok := T["Na-Na"]
	assert.False(Te, ok)
	assert.Len(Te, T, 2)

	_, err = NearestNeighbors(rocksalt(Te))
	assert.True(Te, errors.Is(err, mlp.ErrMissingSymbols))
}

func TestRDF(Te *testing.T) {
	A := rocksalt(Te, naCl...)
	O := DefaultOptions()
	assert.Equal(Te, 6.0, O.Cutoff())
	assert.Equal(Te, 100, O.Bins())
	O.Cutoff(3)
	O.Bins(12)
	S, err := RDF(A, O)
	require.NoError(Te, err)
	assert.Equal(Te, []string{TotalKey, "Cl-Cl", "Cl-Na", "Na-Na"}, S.Keys())
	total := S.View(TotalKey).View()
	//first shell, 6 neighbors at 2 A for each of the 8 atoms, in [2, 2.25)
	shell := 4 * math.Pi * 2.125 * 2.125 * 0.25
	assert.InDelta(Te, 64*48/(64*shell), total[8], 1e-9)
	assert.InDelta(Te, 2*total[8], S.View("Cl-Na").View()[8], 1e-9)
	assert.Equal(Te, 0.0, S.View("Na-Na").View()[8])
	//second shell, 12 neighbors at 2.83 A, only like pairs
	assert.True(Te, S.View("Na-Na").View()[11] > 0)
	assert.Equal(Te, 0.0, S.View("Cl-Na").View()[11])
	for i := 0; i < 8; i++ {
		assert.Equal(Te, 0.0, total[i])
	}

	O.Partial(false)
	S, err = RDF(rocksalt(Te), O)
	require.NoError(Te, err)
	assert.Equal(Te, []string{TotalKey}, S.Keys())
	_, err = RDF(rocksalt(Te))
	assert.True(Te, errors.Is(err, mlp.ErrMissingSymbols))

	coords, _ := v3.NewMatrix([]float64{0, 0, 0, 0, 0, 1.2})
	mol, err := mlp.NewAtoms(v3.Zeros(3), coords, "H2")
	require.NoError(Te, err)
	_, err = RDF(mol)
	assert.True(Te, errors.Is(err, mlp.ErrInconsistent))
}

func TestRDFLargeCutoff(Te *testing.T) {
	//a cutoff beyond half the cell still sees every image
	cell, _ := v3.FromRows([][]float64{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}})
	A, err := mlp.NewAtoms(cell, v3.Zeros(1), "Po")
	require.NoError(Te, err)
	O := DefaultOptions()
	O.Cutoff(3)
	O.Bins(12)
	S, err := RDF(A, O)
	require.NoError(Te, err)
	D := S.View(TotalKey)
	D.Scale(func(r, dr, g float64) float64 { return g * 4 * math.Pi * r * r * dr / 8 })
	//6 neighbors at 2, 12 at 2.83
	assert.InDelta(Te, 6.0, D.View()[8], 1e-9)
	assert.InDelta(Te, 12.0, D.View()[11], 1e-9)
}
