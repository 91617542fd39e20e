/*
 * pwscf_test.go, part of gomlp.
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
	"os"
	"path/filepath"
	"testing"

	mlp "github.com/gomlp/gomlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(Te *testing.T) {
	A, err := Read("testdata/mp-149_single")
	require.NoError(Te, err)
	assert.Equal(Te, 2, A.NAtoms())
	assert.Equal(Te, []string{"Si", "Si"}, A.Symbols())
	assert.Equal(Te, "mp-149_single", A.StructureID)
	assert.Equal(Te, "scf", A.Info["calculation"])
	e, ok := A.Energy()
	require.True(Te, ok)
	assert.InDelta(Te, -15.8502*mlp.Ry2EV, e, 1e-9)
	f := A.Forces()
	require.NotNil(Te, f)
	assert.InDelta(Te, 0.001*mlp.RyBohr2EVA, f.At(0, 0), 1e-12)
	assert.InDelta(Te, 0.002*mlp.RyBohr2EVA, f.At(1, 2), 1e-12)
	x := A.Coords().Vec(1)
	assert.InDelta(Te, 1.3575, x[0], 1e-9)
	assert.InDelta(Te, 5.43*5.43*5.43, A.Volume(), 1e-3)
	_, ok = A.TotalMagnetization()
	assert.False(Te, ok)
}

func TestReadUnits(Te *testing.T) {
	A, err := Read("testdata/dimer_2.2")
	require.NoError(Te, err)
	assert.Equal(Te, "dimer_2.2", A.StructureID)
	assert.Equal(Te, []string{"Si", "Si"}, A.Symbols())
	assert.Nil(Te, A.Forces())
	m, ok := A.TotalMagnetization()
	require.True(Te, ok)
	assert.Equal(Te, 2.0, m)
	d, err := A.AtomicDistance()
	require.NoError(Te, err)
	assert.InDelta(Te, 2.2, d, 1e-5)
	assert.InDelta(Te, 15.0, A.Cell().At(0, 0), 1e-5)
}

// writeCalc copies the input deck of the single point fixture into a
// temporary directory and writes out as its output.
func writeCalc(Te *testing.T, out string) string {
	dir := filepath.Join(Te.TempDir(), "mp-149_bad")
	require.NoError(Te, os.MkdirAll(dir, 0o755))
	require.NoError(Te, mlp.CopyFile("testdata/mp-149_single/scf.in", filepath.Join(dir, "scf.in")))
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "scf.out"), []byte(out), 0o644))
	return dir
}

func TestValidation(Te *testing.T) {
	energy := "!    total energy              =     -15.85020000 Ry\n"
	Te.Run("incomplete", func(Te *testing.T) {
		_, err := Read(writeCalc(Te, energy))
		require.ErrorIs(Te, err, mlp.ErrJobIncomplete)
		assert.Contains(Te, err.Error(), "scf.out")
	})
	Te.Run("not converged", func(Te *testing.T) {
		_, err := Read(writeCalc(Te, energy+"     convergence NOT achieved after 100 iterations: stopping\n     JOB DONE.\n"))
		require.ErrorIs(Te, err, mlp.ErrNotConverged)
	})
	Te.Run("not converged and incomplete", func(Te *testing.T) {
		_, err := Read(writeCalc(Te, "     convergence NOT achieved after 100 iterations: stopping\n"))
		require.ErrorIs(Te, err, mlp.ErrNotConverged)
	})
	Te.Run("unreliable", func(Te *testing.T) {
		_, err := Read(writeCalc(Te, energy+"     SCF correction compared to forces is large: reduce conv_thr to get better values\n     JOB DONE.\n"))
		require.ErrorIs(Te, err, mlp.ErrUnreliableSCF)
	})
	Te.Run("unreliable and incomplete", func(Te *testing.T) {
		_, err := Read(writeCalc(Te, energy+"     SCF correction compared to forces is large: reduce conv_thr to get better values\n"))
		require.ErrorIs(Te, err, mlp.ErrJobIncomplete)
		assert.NotErrorIs(Te, err, mlp.ErrUnreliableSCF)
	})
	Te.Run("missing output", func(Te *testing.T) {
		dir := writeCalc(Te, "")
		require.NoError(Te, os.Remove(filepath.Join(dir, "scf.out")))
		_, err := Read(dir)
		require.ErrorIs(Te, err, mlp.ErrMissingFile)
	})
	Te.Run("no energy", func(Te *testing.T) {
		_, err := Read(writeCalc(Te, "JOB DONE.\n"))
		require.ErrorIs(Te, err, mlp.ErrMarkerNotFound)
	})
}

func TestOptions(Te *testing.T) {
	O := DefaultOptions()
	assert.Equal(Te, "scf.in", O.Input("pw.in"))
	assert.Equal(Te, "pw.in", O.Input())
	assert.Equal(Te, "mp-", O.IDMarker())
	O.Output("pw.out")
	_, err := NewPWscf("testdata/mp-149_single", O)
	require.ErrorIs(Te, err, mlp.ErrMissingFile)
	assert.Equal(Te, "mp-149", structureID("/data/Si/mp-149/relax/01", "mp-"))
}
