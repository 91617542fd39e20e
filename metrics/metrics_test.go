/*
 * metrics_test.go, part of gomlp.
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

package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/n2p2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(Te *testing.T) {
	v, err := Compute([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 5})
	require.NoError(Te, err)
	assert.InDelta(Te, 0.8, v.R2, 1e-12)
	assert.InDelta(Te, 0.5, v.RMSE, 1e-12)
	assert.InDelta(Te, 0.25, v.MAE, 1e-12)

	_, err = Compute([]float64{1}, []float64{1, 2})
	require.ErrorIs(Te, err, mlp.ErrInconsistent)
	_, err = Compute(nil, nil)
	require.ErrorIs(Te, err, mlp.ErrBadValue)
}

// training writes two epochs of learning curves. At epoch 2 the predictions
// are exact.
func training(Te *testing.T, normalized bool) string {
	dir := Te.TempDir()
	nn := "number_of_elements 1\nelements Si\n"
	if normalized {
		nn += "mean_energy -5.0\nconv_energy 2.0\nconv_length 1.0\n"
	}
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "input.nn"), []byte(nn), 0o644))
	points := map[int]string{
		1: "# index Eref Ennp\n1 1.0 1.0\n2 2.0 2.0\n3 3.0 3.0\n4 4.0 5.0\n",
		2: "# index Eref Ennp\n1 1.0 1.0\n2 2.0 2.0\n",
	}
	forces := map[int]string{
		1: "# index_s index_a Fref Fnnp\n1 1 0.5 0.25\n1 2 -0.5 -0.25\n",
		2: "# index_s index_a Fref Fnnp\n1 1 0.5 0.5\n1 2 -0.5 -0.5\n",
	}
	for e := 1; e <= 2; e++ {
		for k, content := range map[string]string{n2p2.TrainPoints: points[e], n2p2.TestPoints: points[e], n2p2.TrainForces: forces[e], n2p2.TestForces: forces[e]} {
			name := filepath.Join(dir, fmt.Sprintf("%s.%06d.out", k, e))
			require.NoError(Te, os.WriteFile(name, []byte(content), 0o644))
		}
	}
	return dir
}

func TestTraining(Te *testing.T) {
	T, err := NewTraining(training(Te, true))
	require.NoError(Te, err)
	assert.Equal(Te, []int{1, 2}, T.Epochs())
	scores, err := T.Scores()
	require.NoError(Te, err)
	require.Len(Te, scores, 8)
	assert.Equal(Te, Score{Epoch: 1, Data: Test, Kind: Force, N: 2, Values: scores[0].Values}, scores[0])
	//energies are divided by conv_energy, forces too
	e1 := scores[3]
	assert.Equal(Te, Train, e1.Data)
	assert.Equal(Te, Energy, e1.Kind)
	assert.InDelta(Te, 0.8, e1.R2, 1e-12)
	assert.InDelta(Te, 0.25, e1.RMSE, 1e-12)
	assert.InDelta(Te, 0.125, e1.MAE, 1e-12)
	assert.InDelta(Te, 0.125, scores[0].RMSE, 1e-12)

	best, ok := Best(scores, Test, Energy)
	require.True(Te, ok)
	assert.Equal(Te, 2, best.Epoch)
	assert.Equal(Te, 0.0, best.RMSE)
	_, ok = Best(scores, "validation", Energy)
	assert.False(Te, ok)

	comps, err := T.Comparisons(1)
	require.NoError(Te, err)
	assert.Equal(Te, []float64{-4.5, -4, -3.5, -3}, comps[n2p2.TrainPoints].Ref)
	_, err = T.Comparisons(3)
	require.ErrorIs(Te, err, mlp.ErrMissingFile)
}

func TestTrainingRaw(Te *testing.T) {
	O := DefaultOptions()
	O.Physical(false)
	T, err := NewTraining(training(Te, true), O)
	require.NoError(Te, err)
	s, err := T.EpochScores(1)
	require.NoError(Te, err)
	assert.InDelta(Te, 0.5, s[3].RMSE, 1e-12)

	//not normalized: raw values even with physical options
	T, err = NewTraining(training(Te, false))
	require.NoError(Te, err)
	s, err = T.EpochScores(1)
	require.NoError(Te, err)
	assert.InDelta(Te, 0.5, s[3].RMSE, 1e-12)

	_, err = NewTraining(Te.TempDir())
	require.ErrorIs(Te, err, mlp.ErrMissingFile)
}
