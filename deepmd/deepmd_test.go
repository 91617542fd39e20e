/*
 * deepmd_test.go, part of gomlp.
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

package deepmd

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	mlp "github.com/gomlp/gomlp"
	v3 "github.com/gomlp/gomlp/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quartz(Te *testing.T, shift float64) *mlp.Atoms {
	cell, err := v3.NewMatrix([]float64{5, 0, 0, 0, 5, 0, 0, 0, 5})
	require.NoError(Te, err)
	coords, err := v3.NewMatrix([]float64{0, 0, shift, 1.6, 0, 0, 0, 1.6, 0})
	require.NoError(Te, err)
	A, err := mlp.NewAtoms(cell, coords, "O", "Si", "O")
	require.NoError(Te, err)
	A.SetEnergy(-20 - shift)
	f, err := v3.NewMatrix([]float64{0.1, 0, 0, 0, 0.2, 0, 0, 0, shift})
	require.NoError(Te, err)
	require.NoError(Te, A.SetForces(f))
	return A
}

func TestSystemRoundTrip(Te *testing.T) {
	in := []*mlp.Atoms{quartz(Te, 0.1), quartz(Te, 0.2)}
	for _, raw := range []bool{false, true} {
		dir := filepath.Join(Te.TempDir(), "sio2")
		require.NoError(Te, WriteSystem(dir, in, raw))
		out, err := ReadSystem(dir)
		require.NoError(Te, err)
		require.Len(Te, out, 2)
		for i, B := range out {
			assert.Equal(Te, i, B.Frame)
			assert.Equal(Te, "sio2", B.StructureID)
			assert.Equal(Te, []string{"O", "Si", "O"}, B.Symbols())
			assert.True(Te, B.Coords().EqualApprox(in[i].Coords(), 1e-12))
			assert.True(Te, B.Forces().EqualApprox(in[i].Forces(), 1e-12))
			assert.True(Te, B.Cell().EqualApprox(in[i].Cell(), 1e-12))
			e, _ := B.Energy()
			ein, _ := in[i].Energy()
			assert.Equal(Te, ein, e)
		}
		if !raw {
			assert.Equal(Te, "set.000", out[1].Info["set"])
		}
	}
}

func TestSystemWithoutTypes(Te *testing.T) {
	dir := Te.TempDir()
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "energy.raw"), []byte("-1.5\n-1.7\n"), 0o644))
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "coord.raw"), []byte("0 0 0 1 1 1\n0 0 0 1.1 1 1\n"), 0o644))
	out, err := ReadSystem(dir)
	require.NoError(Te, err)
	require.Len(Te, out, 2)
	assert.Equal(Te, 2, out[1].NAtoms())
	assert.Nil(Te, out[1].Symbols())
	assert.Nil(Te, out[1].Forces())
	assert.True(Te, out[1].Cell().IsZero())

	require.NoError(Te, os.WriteFile(filepath.Join(dir, "force.raw"), []byte("0 0 0\n"), 0o644))
	_, err = ReadSystem(dir)
	require.ErrorIs(Te, err, mlp.ErrInconsistent)
	_, err = ReadSystem(filepath.Join(dir, "nope"))
	require.ErrorIs(Te, err, mlp.ErrMissingFile)
}

func TestNpyFloat32(Te *testing.T) {
	header := "{'descr': '<f4', 'fortran_order': False, 'shape': (2, 2), }"
	for (10+len(header)+1)%64 != 0 {
		header += " "
	}
	header += "\n"
	var buf bytes.Buffer
	buf.Write(npyMagic)
	buf.Write([]byte{1, 0})
	require.NoError(Te, binary.Write(&buf, binary.LittleEndian, uint16(len(header))))
	buf.WriteString(header)
	require.NoError(Te, binary.Write(&buf, binary.LittleEndian, []float32{1, 2.5, -3, 4}))
	data, shape, err := readNpy(&buf)
	require.NoError(Te, err)
	assert.Equal(Te, []int{2, 2}, shape)
	assert.Equal(Te, []float64{1, 2.5, -3, 4}, data)

	_, _, err = readNpy(bytes.NewReader([]byte("not a numpy file")))
	assert.Error(Te, err)
	require.Error(Te, WriteNpy(filepath.Join(Te.TempDir(), "x.npy"), []float64{1, 2, 3}, 2, 2))
}

// linear is an Evaluator whose energy is the sum of the x coordinates.
type linear struct{}

func (linear) EvalDescriptor(coord, cell []float64, atype []int) ([]float64, error) {
	ret := make([]float64, 0, 2*len(atype))
	for i, t := range atype {
		ret = append(ret, coord[3*i], float64(t))
	}
	return ret, nil
}

func (linear) Eval(coord, cell []float64, atype []int) (float64, []float64, []float64, error) {
	e := 0.0
	f := make([]float64, len(coord))
	for i := range atype {
		e += coord[3*i]
		f[3*i] = -1
	}
	return e, f, make([]float64, 9), nil
}

func TestEvaluator(Te *testing.T) {
	A := quartz(Te, 0.1)
	D, err := Descriptors(linear{}, A, []string{"O", "Si"})
	require.NoError(Te, err)
	r, c := D.Dims()
	assert.Equal(Te, 3, r)
	assert.Equal(Te, 2, c)
	assert.Equal(Te, 1.0, D.At(1, 1))
	assert.Equal(Te, 1.6, D.At(1, 0))

	P, virial, err := Predict(linear{}, A, nil)
	require.NoError(Te, err)
	assert.Len(Te, virial, 9)
	e, _ := P.Energy()
	assert.InDelta(Te, 1.6, e, 1e-12)
	assert.Equal(Te, -1.0, P.Forces().At(2, 0))
	ea, _ := A.Energy()
	assert.InDelta(Te, -20.1, ea, 1e-12)

	_, _, _, err = Flatten(A, []string{"Si"})
	require.ErrorIs(Te, err, mlp.ErrUnknownSpecies)
}
