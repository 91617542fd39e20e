/*
 * metrics.go, part of gomlp.
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

// Package metrics scores an n2p2 training epoch by epoch, from the learning
// curve files nnp-train writes.
package metrics

import (
	"fmt"
	"math"
	"path/filepath"

	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/logger"
	"github.com/gomlp/gomlp/n2p2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Data sets and quantities that are scored.
const (
	Train  = "train"
	Test   = "test"
	Energy = "energy"
	Force  = "force"
)

// Values are the scores of a prediction against its reference.
type Values struct {
	R2   float64
	RMSE float64
	MAE  float64
}

// Compute returns the coefficient of determination, root mean squared error
// and mean absolute error of pred against ref.
func Compute(ref, pred []float64) (Values, error) {
	if len(ref) != len(pred) {
		return Values{}, mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("%d reference values and %d predictions", len(ref), len(pred)), "")
	}
	if len(ref) == 0 {
		return Values{}, mlp.NewError(mlp.ErrBadValue, "no values to score", "")
	}
	n := float64(len(ref))
	return Values{
		R2:   stat.RSquaredFrom(pred, ref, nil),
		RMSE: floats.Distance(ref, pred, 2) / math.Sqrt(n),
		MAE:  floats.Distance(ref, pred, 1) / n,
	}, nil
}

// Score is the result for one quantity of one data set at one epoch.
type Score struct {
	Epoch int
	Data  string //Train or Test
	Kind  string //Energy or Force
	N     int
	Values
}

// kinds maps each learning-curve file to its data set and quantity.
var kinds = []struct {
	file, data, kind string
}{
	{n2p2.TestForces, Test, Force},
	{n2p2.TrainForces, Train, Force},
	{n2p2.TestPoints, Test, Energy},
	{n2p2.TrainPoints, Train, Energy},
}

// Options for scoring a training.
type Options struct {
	physical bool
}

// DefaultOptions returns options that score values in physical units.
func DefaultOptions() *Options {
	return &Options{physical: true}
}

// Physical returns whether the values are converted back to eV and eV/A
// with the normalization factors in input.nn before scoring, and sets it
// if a value is given.
func (O *Options) Physical(p ...bool) bool {
	ret := O.physical
	if len(p) > 0 {
		O.physical = p[0]
	}
	return ret
}

// Training gives access to the learning curve files of an n2p2 training.
type Training struct {
	dir     string
	factors *n2p2.Factors
	sets    []n2p2.LearningSet
}

// NewTraining indexes the learning curve files in dir. For physical options
// the normalization factors are read from dir/input.nn. A training that was
// not normalized is scored as is.
func NewTraining(dir string, options ...*Options) (*Training, error) {
	O := DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		O = options[0]
	}
	T := &Training{dir: dir}
	var err error
	if T.sets, err = n2p2.LearningFiles(dir); err != nil {
		return nil, mlp.Decorate(err, "NewTraining")
	}
	if !O.physical {
		return T, nil
	}
	S, err := n2p2.ReadSettings(filepath.Join(dir, "input.nn"))
	if err != nil {
		return nil, mlp.Decorate(err, "NewTraining")
	}
	F, err := S.ConvertFactors()
	if err != nil {
		logger.Logger.Infow("no normalization factors, scoring raw values", "dir", dir)
		return T, nil
	}
	T.factors = &F
	return T, nil
}

// Epochs returns the epochs with a complete set of files.
func (T *Training) Epochs() []int {
	ret := make([]int, len(T.sets))
	for i, s := range T.sets {
		ret[i] = s.Epoch
	}
	return ret
}

func (T *Training) set(epoch int) (n2p2.LearningSet, error) {
	for _, s := range T.sets {
		if s.Epoch == epoch {
			return s, nil
		}
	}
	return n2p2.LearningSet{}, mlp.NewError(mlp.ErrMissingFile, fmt.Sprintf("no learning curve files for epoch %d", epoch), T.dir)
}

// Comparisons returns the reference and predicted values of the four
// learning curve files of epoch, keyed by file kind (n2p2.TrainPoints...).
func (T *Training) Comparisons(epoch int) (map[string]*n2p2.Comparison, error) {
	s, err := T.set(epoch)
	if err != nil {
		return nil, err
	}
	ret := make(map[string]*n2p2.Comparison, len(kinds))
	for _, k := range kinds {
		C, err := n2p2.ReadComparison(s.Files[k.file])
		if err != nil {
			return nil, mlp.Decorate(err, "Comparisons")
		}
		if T.factors != nil {
			if k.kind == Energy {
				C.Scale(T.factors.Energy)
			} else {
				C.Scale(T.factors.Force)
			}
		}
		ret[k.file] = C
	}
	return ret, nil
}

// EpochScores returns the four scores of epoch.
func (T *Training) EpochScores(epoch int) ([]Score, error) {
	comps, err := T.Comparisons(epoch)
	if err != nil {
		return nil, mlp.Decorate(err, "EpochScores")
	}
	ret := make([]Score, 0, len(kinds))
	for _, k := range kinds {
		C := comps[k.file]
		v, err := Compute(C.Ref, C.NNP)
		if err != nil {
			return nil, mlp.Decorate(mlp.NewError(mlp.ErrBadValue, err.Error(), C.Path), "EpochScores")
		}
		ret = append(ret, Score{Epoch: epoch, Data: k.data, Kind: k.kind, N: len(C.Ref), Values: v})
	}
	return ret, nil
}

// Scores returns the scores of every epoch, four per epoch, in epoch order.
func (T *Training) Scores() ([]Score, error) {
	var ret []Score
	for _, e := range T.Epochs() {
		logger.Logger.Debugw("scoring epoch", "epoch", e, "of", len(T.sets))
		s, err := T.EpochScores(e)
		if err != nil {
			return nil, mlp.Decorate(err, "Scores")
		}
		ret = append(ret, s...)
	}
	return ret, nil
}

// Best returns the score with the lowest RMSE for the given data set and
// quantity, and false if there is none.
func Best(scores []Score, data, kind string) (Score, bool) {
	var best Score
	found := false
	for _, s := range scores {
		if s.Data != data || s.Kind != kind {
			continue
		}
		if !found || s.RMSE < best.RMSE {
			best = s
			found = true
		}
	}
	return best, found
}
