/*
 * sputter_test.go, part of gomlp.
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

package sputter

import (
	"strings"
	"testing"

	mlp "github.com/gomlp/gomlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTimestepBlocks(Te *testing.T) {
	L, err := mlp.ReadLines("testdata/etch.dat")
	require.NoError(Te, err)
	lines := append([]string{"# header", "# written by the run script"}, L.All()...)
	pre, blocks := BuildTimestepBlocks(lines)
	require.Len(Te, blocks, 3)
	assert.Equal(Te, lines[:2], pre)
	var joined []string
	joined = append(joined, pre...)
	for _, b := range blocks {
		assert.Equal(Te, TimestepMarker, b[0])
		joined = append(joined, b...)
	}
	assert.Equal(Te, lines, joined)
	assert.Len(Te, blocks[0], 9)
	assert.Len(Te, blocks[2], 12)

	pre, blocks = BuildTimestepBlocks([]string{"nothing", "here"})
	assert.Nil(Te, blocks)
	assert.Len(Te, pre, 2)
}

func TestSputtered(Te *testing.T) {
	_, err := NewCalculator("testdata", "missing.dat")
	require.ErrorIs(Te, err, mlp.ErrMissingFile)
	C, err := NewCalculator("testdata", "etch.dat")
	require.NoError(Te, err)
	steps, err := C.Sputtered(1)
	require.NoError(Te, err)
	assert.Equal(Te, []Step{{1000, 0}, {2000, 1}, {3000, 2}}, steps)
	steps, err = C.Sputtered()
	require.NoError(Te, err)
	assert.Equal(Te, 3, steps[2].Sputtered)
	steps, err = C.Sputtered(1, 2)
	require.NoError(Te, err)
	assert.Equal(Te, 2, steps[1].Sputtered)

	_, err = ParseBlock(strings.Split("ITEM: TIMESTEP\n10\nITEM: NUMBER OF ATOMS\n4\nx", "\n"), 1)
	require.ErrorIs(Te, err, mlp.ErrBadValue)
}

func TestDose(Te *testing.T) {
	steps := []Step{{1000, 0}, {2000, 1}, {3000, 2}, {4000, 0}, {5000, 3}}
	rows, err := IonDose(steps, 1000, 20)
	require.NoError(Te, err)
	assert.Equal(Te, 3, rows[2].Injected)
	assert.InDelta(Te, 0.15, rows[2].Dose, 1e-12)
	_, err = IonDose(steps, 0)
	require.ErrorIs(Te, err, mlp.ErrBadValue)

	avg, err := SlidingAverage(rows, 2)
	require.NoError(Te, err)
	assert.Equal(Te, []Point{{2, 0.5}, {3, 1.5}, {4, 1}, {5, 1.5}}, avg)
	avg, err = SlidingAverage(rows, 10)
	require.NoError(Te, err)
	assert.Empty(Te, avg)

	y := Yield(rows)
	require.Len(Te, y, 5)
	assert.Equal(Te, Point{5, 6.0 / 5}, y[4])
}

func TestYamamura(Te *testing.T) {
	Y, err := NewYamamura("Ar", "Si", nil)
	require.NoError(Te, err)
	assert.InDelta(Te, 31.9936, Y.Threshold(), 1e-3)
	assert.Equal(Te, 0.0, Y.Yield(20))
	assert.InDelta(Te, 0.4102195, Y.Yield(500), 1e-6)
	ys := Y.Yields([]float64{100, 1000})
	assert.InDelta(Te, 0.0584998, ys[0], 1e-6)
	assert.InDelta(Te, 0.6436338, ys[1], 1e-6)

	_, err = NewYamamura("Ar", "Cu", nil)
	require.ErrorIs(Te, err, mlp.ErrUnknownSpecies)
	T, err := LoadTable("testdata/table.csv")
	require.NoError(Te, err)
	require.Len(Te, T, 2)
	assert.Equal(Te, 3.49, T[29].Us)
	Y, err = NewYamamura("Ar", "Cu", T)
	require.NoError(Te, err)
	assert.Greater(Te, Y.Yield(500), 0.0)

	_, err = ReadTable(strings.NewReader("Z2,Us,Q\n14,1,2\n"))
	require.ErrorIs(Te, err, mlp.ErrBadValue)
	_, err = LoadTable("testdata/none.csv")
	require.ErrorIs(Te, err, mlp.ErrMissingFile)
}
