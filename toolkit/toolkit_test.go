/*
 * toolkit_test.go, part of gomlp.
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

package toolkit

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	mlp "github.com/gomlp/gomlp"
	v3 "github.com/gomlp/gomlp/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadXYZ(Te *testing.T) {
	M, err := ReadXYZ("testdata/si2.xyz")
	require.NoError(Te, err)
	assert.Equal(Te, 2, M.Len())
	assert.Equal(Te, 2, M.LenFrames())
	assert.Equal(Te, []string{"Si", "Si"}, M.ChemicalSymbols())
	assert.InDelta(Te, 28.0855, M.Atoms[0].Mass, 1e-3)
	e, ok := M.PotentialEnergy()
	assert.True(Te, ok)
	assert.InDelta(Te, -215.65, e, 1e-9)
	assert.InDelta(Te, 5.43, M.Cell().At(0, 0), 1e-9)
	assert.InDelta(Te, -0.2, M.CalculatedForces().At(0, 2), 1e-9)
	assert.Equal(Te, "bulk", M.Frame().Info["config_type"])
	M.SetCurrent(1)
	assert.InDelta(Te, 1.375, M.Positions().At(1, 0), 1e-9)
	assert.Equal(Te, "strained", M.Frame().Info["config_type"])
	assert.Panics(Te, func() { M.SetCurrent(2) })

	W, err := ReadXYZ("testdata/water.xyz")
	require.NoError(Te, err)
	assert.Equal(Te, 1, W.LenFrames())
	assert.True(Te, W.Cell().IsZero())
	_, ok = W.PotentialEnergy()
	assert.False(Te, ok)
	assert.Nil(Te, W.CalculatedForces())
}

func TestReadXYZErrors(Te *testing.T) {
	_, err := ReadXYZ("testdata/nothere.xyz")
	assert.True(Te, errors.Is(err, mlp.ErrMissingFile))
	bad := mlp.LinesFrom("bad", []string{"3", "", "O 0 0 0"})
	_, err = ParseXYZ(bad)
	assert.True(Te, errors.Is(err, mlp.ErrBadValue))
	mixed := mlp.LinesFrom("mixed", []string{"1", "", "O 0 0 0", "1", "", "H 0 0 0"})
	_, err = ParseXYZ(mixed)
	assert.True(Te, errors.Is(err, mlp.ErrInconsistent))
	noforce := mlp.LinesFrom("noforce", []string{"1", "Properties=species:S:1:pos:R:3:forces:R:3", "O 0 0 0"})
	_, err = ParseXYZ(noforce)
	assert.True(Te, errors.Is(err, mlp.ErrBadValue))
}

func TestKeyValues(Te *testing.T) {
	kv := parseKeyValues(`Lattice="1 0 0 0 1 0 0 0 1" energy=-1.5 pbc="T T T" relaxed comment="two words"`)
	assert.Equal(Te, "1 0 0 0 1 0 0 0 1", kv["Lattice"])
	assert.Equal(Te, "-1.5", kv["energy"])
	assert.Equal(Te, "T", kv["relaxed"])
	assert.Equal(Te, "two words", kv["comment"])
	cols, err := parseProperties("species:S:1:pos:R:3:forces:R:3")
	require.NoError(Te, err)
	assert.Equal(Te, 4, cols["forces"].start)
	_, err = parseProperties("species:S")
	assert.Error(Te, err)
}

func TestWriteXYZ(Te *testing.T) {
	M, err := ReadXYZ("testdata/si2.xyz")
	require.NoError(Te, err)
	name := filepath.Join(Te.TempDir(), "out", "si2.xyz")
	require.NoError(Te, WriteXYZ(M, name))
	N, err := ReadXYZ(name)
	require.NoError(Te, err)
	require.Equal(Te, M.LenFrames(), N.LenFrames())
	for i := range M.Frames {
		assert.True(Te, M.Frames[i].Coords.EqualApprox(N.Frames[i].Coords, 1e-7))
		assert.True(Te, M.Frames[i].Cell.EqualApprox(N.Frames[i].Cell, 1e-7))
		assert.True(Te, M.Frames[i].Forces.EqualApprox(N.Frames[i].Forces, 1e-7))
		assert.InDelta(Te, M.Frames[i].Energy, N.Frames[i].Energy, 1e-9)
		assert.Equal(Te, M.Frames[i].Info["config_type"], N.Frames[i].Info["config_type"])
	}
}

func TestRecords(Te *testing.T) {
	M, err := ReadXYZ("testdata/si2.xyz")
	require.NoError(Te, err)
	recs, err := M.Records()
	require.NoError(Te, err)
	require.Len(Te, recs, 2)
	e, ok := recs[1].Energy()
	assert.True(Te, ok)
	assert.InDelta(Te, -215.60, e, 1e-9)
	assert.Equal(Te, 1, recs[1].Frame)
	assert.Equal(Te, "strained", recs[1].Info["config_type"])
	assert.Equal(Te, 0, M.Current())

	W, err := ReadXYZ("testdata/water.xyz")
	require.NoError(Te, err)
	A, err := mlp.FromToolkit(W)
	require.NoError(Te, err)
	assert.True(Te, A.Forces().IsZero())
	e, _ = A.Energy()
	assert.Equal(Te, 0.0, e)

	back, err := FromAtoms(recs[0])
	require.NoError(Te, err)
	assert.True(Te, back.Positions().EqualApprox(M.Frames[0].Coords, 1e-12))
	assert.NotNil(Te, back.CalculatedForces())
}

func TestMolecule(Te *testing.T) {
	coords, _ := v3.NewMatrix([]float64{0, 0, 0, 1, 0, 0})
	_, err := NewMolecule([]*Atom{NewAtom("H")}, coords, nil)
	assert.True(Te, errors.Is(err, mlp.ErrInconsistent))
	M, err := NewMolecule([]*Atom{NewAtom("H"), NewAtom("H")}, coords, nil)
	require.NoError(Te, err)
	C := M.Copy()
	C.Frames[0].Coords.Set(0, 0, 5)
	C.Atoms[0].Symbol = "D"
	assert.Equal(Te, 0.0, M.Positions().At(0, 0))
	assert.Equal(Te, "H", M.Atoms[0].Symbol)
	bad := &Frame{Coords: v3.Zeros(3)}
	assert.Error(Te, M.AddFrame(bad))
	assert.Equal(Te, 1, M.LenFrames())
}

func cubic(Te *testing.T) *Molecule {
	M, err := ReadXYZ("testdata/si2.xyz")
	require.NoError(Te, err)
	return M
}

func TestRattle(Te *testing.T) {
	M := cubic(Te)
	R1, err := Rattle(M, 0.05, 7)
	require.NoError(Te, err)
	R2, err := Rattle(M, 0.05, 7)
	require.NoError(Te, err)
	assert.True(Te, R1.Positions().EqualApprox(R2.Positions(), 0))
	assert.False(Te, R1.Positions().EqualApprox(M.Positions(), 1e-6))
	assert.Nil(Te, R1.CalculatedForces())
	_, ok := R1.PotentialEnergy()
	assert.False(Te, ok)
	Z, err := Rattle(M, 0, 1)
	require.NoError(Te, err)
	assert.True(Te, Z.Positions().EqualApprox(M.Positions(), 0))
	_, err = Rattle(M, -1, 1)
	assert.True(Te, errors.Is(err, mlp.ErrBadValue))
}

func TestScaleCell(Te *testing.T) {
	M := cubic(Te)
	S, err := ScaleCell(M, 1.1)
	require.NoError(Te, err)
	assert.InDelta(Te, 5.973, S.Cell().At(0, 0), 1e-9)
	f1, err := mlp.Fractional(M.Cell(), M.Positions())
	require.NoError(Te, err)
	f2, err := mlp.Fractional(S.Cell(), S.Positions())
	require.NoError(Te, err)
	assert.True(Te, f1.EqualApprox(f2, 1e-9))
	assert.InDelta(Te, 5.43, M.Cell().At(0, 0), 1e-12)
	_, err = ScaleCell(M, 0)
	assert.True(Te, errors.Is(err, mlp.ErrBadValue))
}

func TestMakeSupercell(Te *testing.T) {
	M := cubic(Te)
	S, err := MakeSupercell(M, [3]int{2, 1, 3})
	require.NoError(Te, err)
	assert.Equal(Te, 12, S.Len())
	assert.InDelta(Te, 10.86, S.Cell().At(0, 0), 1e-9)
	assert.InDelta(Te, 5.43, S.Cell().At(1, 1), 1e-9)
	assert.InDelta(Te, 16.29, S.Cell().At(2, 2), 1e-9)
	vol := mlp.CellVolume(S.Cell())
	assert.InDelta(Te, 6*mlp.CellVolume(M.Cell()), vol, 1e-6)
	//first image is the original cell, the next one is shifted along c
	assert.Equal(Te, M.Positions().Vec(1), S.Positions().Vec(1))
	p0 := M.Positions().Vec(0)
	assert.InDelta(Te, p0[2]+5.43, S.Positions().At(2, 2), 1e-9)
	assert.InDelta(Te, p0[0], S.Positions().At(2, 0), 1e-9)
	//last image along every axis
	assert.InDelta(Te, 1.3575+5.43, S.Positions().At(11, 0), 1e-9)
	assert.InDelta(Te, 1.3575+2*5.43, S.Positions().At(11, 2), 1e-9)
	_, err = MakeSupercell(M, [3]int{0, 1, 1})
	assert.True(Te, errors.Is(err, mlp.ErrBadValue))
	W, err := ReadXYZ("testdata/water.xyz")
	require.NoError(Te, err)
	_, err = MakeSupercell(W, [3]int{1, 1, 1})
	assert.True(Te, errors.Is(err, mlp.ErrInconsistent))
}

func TestExtract(Te *testing.T) {
	M := cubic(Te)
	S, err := MakeSupercell(M, [3]int{2, 2, 2})
	require.NoError(Te, err)
	E, err := Extract(S, [2]float64{1, 6}, [2]float64{1, 6}, [2]float64{1, 6})
	require.NoError(Te, err)
	//(1.3575,1.3575,1.3575) and (5.43,5.43,5.43)
	assert.Equal(Te, 2, E.Len())
	assert.InDelta(Te, 5.0, E.Cell().At(1, 1), 1e-12)
	assert.InDelta(Te, 0.3575, E.Positions().At(0, 0), 1e-9)
	for i := 0; i < E.Len(); i++ {
		for j := 0; j < 3; j++ {
			v := E.Positions().At(i, j)
			assert.True(Te, v >= 0 && v < 5, "coordinate %d,%d = %g", i, j, v)
		}
	}
	_, err = Extract(S, [2]float64{3, 1}, [2]float64{1, 6}, [2]float64{1, 6})
	assert.True(Te, errors.Is(err, mlp.ErrBadValue))
	_, err = Extract(S, [2]float64{1, 20}, [2]float64{1, 6}, [2]float64{1, 6})
	assert.True(Te, errors.Is(err, mlp.ErrBadValue))
	_, err = Extract(S, [2]float64{0.1, 0.2}, [2]float64{0.1, 0.2}, [2]float64{0.1, 0.2})
	assert.True(Te, errors.Is(err, mlp.ErrBadValue))
	assert.False(Te, math.IsNaN(E.Positions().At(1, 2)))
}
