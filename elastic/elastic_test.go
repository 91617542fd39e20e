/*
 * elastic_test.go, part of gomlp.
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

package elastic

import (
	"os"
	"path/filepath"
	"testing"

	mlp "github.com/gomlp/gomlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func training(Te *testing.T, names ...string) string {
	dir := Te.TempDir()
	for _, v := range append([]string{InputNN, ScalingData}, names...) {
		require.NoError(Te, os.WriteFile(filepath.Join(dir, v), []byte(v+"\n"), 0o644))
	}
	return dir
}

func TestChangeNNPDir(Te *testing.T) {
	lines := []string{"# comment", `variable nnpDir string "nnp-data"`, "variable nnpDir string other"}
	out := ChangeNNPDir(lines, "/tmp/e_5")
	assert.Equal(Te, `variable nnpDir string "/tmp/e_5"`, out[1])
	assert.Equal(Te, lines[2], out[2])
	assert.Equal(Te, `variable nnpDir string "nnp-data"`, lines[1])
}

func TestSetup(Te *testing.T) {
	result := training(Te, "weights.014.000005.out", "weights.014.000010.out", "weights.008.000005.out", "weights.008.000010.out")
	target := Te.TempDir()
	C := NewCalculator(result, "testdata/template")
	dirs, err := C.Setup(target, []int{14, 8})
	require.NoError(Te, err)
	require.Len(Te, dirs, 2)
	assert.Equal(Te, filepath.Join(target, ElasticDir, "e_5"), dirs[0])
	for _, d := range dirs {
		for _, f := range []string{"in.elastic", InputNN, ScalingData, "weights.014.data", "weights.008.data"} {
			require.NoError(Te, mlp.Exists(filepath.Join(d, f)))
		}
	}
	b, err := os.ReadFile(filepath.Join(dirs[1], "weights.014.data"))
	require.NoError(Te, err)
	assert.Equal(Te, "weights.014.000010.out\n", string(b))
	L, err := mlp.ReadLines(filepath.Join(dirs[1], PotentialMod))
	require.NoError(Te, err)
	abs, err := filepath.Abs(dirs[1])
	require.NoError(Te, err)
	assert.Equal(Te, `variable nnpDir string "`+abs+`"`, L.Line(1))
	//the template is untouched
	T, err := mlp.ReadLines("testdata/template/" + PotentialMod)
	require.NoError(Te, err)
	assert.Equal(Te, `variable nnpDir string "nnp-data"`, T.Line(1))

	//existing directories keep their files, weights are refreshed
	extra := filepath.Join(dirs[0], "keep.me")
	require.NoError(Te, os.WriteFile(extra, nil, 0o644))
	_, err = C.Setup(target, []int{14, 8})
	require.NoError(Te, err)
	require.NoError(Te, mlp.Exists(extra))
}

func TestSetupErrors(Te *testing.T) {
	result := training(Te, "weights.014.000005.out", "weights.014.000010.out", "weights.008.000005.out", "weights.008.000011.out")
	target := Te.TempDir()
	_, err := NewCalculator(result, "testdata/template").Setup(target, []int{14, 8})
	require.ErrorIs(Te, err, mlp.ErrEpochMismatch)
	_, err = os.Stat(filepath.Join(target, ElasticDir))
	assert.True(Te, os.IsNotExist(err))

	_, err = NewCalculator(result, "testdata/template").Setup(target, []int{1})
	require.ErrorIs(Te, err, mlp.ErrMissingFile)
}

func TestParseLog(Te *testing.T) {
	M, err := ParseLog("testdata/run/e_5/log.lammps")
	require.NoError(Te, err)
	assert.Equal(Te, 150.2, M.C11)
	assert.Equal(Te, 63.1, M.C12)
	assert.Equal(Te, 43.5, M.ShearModulus2)
	assert.Equal(Te, 0.29, M.PoissonRatio)
	assert.Len(Te, M.Values(), len(Headers()))

	_, err = ParseLog("testdata/run/e_15/log.lammps")
	require.ErrorIs(Te, err, mlp.ErrMarkerNotFound)
	_, err = ParseLog("testdata/run/e_20/log.lammps")
	require.ErrorIs(Te, err, mlp.ErrMissingFile)
}

func TestCollect(Te *testing.T) {
	rows, err := Collect("testdata/run")
	require.NoError(Te, err)
	require.Len(Te, rows, 2)
	assert.Equal(Te, 5, rows[0].Epoch)
	assert.Equal(Te, 10, rows[1].Epoch)
	assert.Equal(Te, 162.5, rows[1].C11)

	_, err = Collect("testdata/nothing")
	require.ErrorIs(Te, err, mlp.ErrMissingFile)
}
