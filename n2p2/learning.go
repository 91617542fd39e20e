/*
 * learning.go, part of gomlp.
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

package n2p2

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/logger"
)

// Kinds of learning-curve files written by nnp-train at each epoch.
const (
	TrainPoints = "trainpoints"
	TestPoints  = "testpoints"
	TrainForces = "trainforces"
	TestForces  = "testforces"
)

// Comparison holds the reference and predicted values of one
// learning-curve file, still normalized.
type Comparison struct {
	Path string
	Ref  []float64
	NNP  []float64
}

// ReadComparison reads a trainpoints/testpoints/trainforces/testforces file.
// Comment lines start with '#'; the reference and predicted values are the
// last two columns.
func ReadComparison(path string) (*Comparison, error) {
	L, err := mlp.ReadLines(path)
	if err != nil {
		return nil, mlp.Decorate(err, "ReadComparison")
	}
	C := &Comparison{Path: path}
	for i, l := range L.All() {
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		f := strings.Fields(l)
		if len(f) < 3 {
			return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("line %d has %d columns", i+1, len(f)), path)
		}
		v, err := mlp.ParseFloats(f[len(f)-2:])
		if err != nil {
			return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("line %d: %s", i+1, err.Error()), path)
		}
		C.Ref = append(C.Ref, v[0])
		C.NNP = append(C.NNP, v[1])
	}
	return C, nil
}

// Scale applies fn to every value.
func (C *Comparison) Scale(fn func(float64) float64) {
	for i := range C.Ref {
		C.Ref[i] = fn(C.Ref[i])
		C.NNP[i] = fn(C.NNP[i])
	}
}

// LearningSet is the four learning-curve files of one epoch.
type LearningSet struct {
	Epoch int
	Files map[string]string //kind to path
}

// LearningFiles finds the learning-curve files in dir. Only epochs that have
// all four kinds of file are returned, sorted by epoch; incomplete epochs are
// logged and skipped.
func LearningFiles(dir string) ([]LearningSet, error) {
	kinds := []string{TrainPoints, TestPoints, TrainForces, TestForces}
	byEpoch := make(map[int]map[string]string)
	for _, k := range kinds {
		names, err := filepath.Glob(filepath.Join(dir, k+".*.out"))
		if err != nil {
			return nil, mlp.Decorate(err, "LearningFiles")
		}
		for _, v := range names {
			f := strings.Split(filepath.Base(v), ".")
			if len(f) != 3 {
				continue
			}
			e, err := strconv.Atoi(f[1])
			if err != nil {
				continue
			}
			if byEpoch[e] == nil {
				byEpoch[e] = make(map[string]string, 4)
			}
			byEpoch[e][k] = v
		}
	}
	var ret []LearningSet
	for e, files := range byEpoch {
		if len(files) != len(kinds) {
			logger.Logger.Warnw("incomplete learning-curve files, skipping epoch", "dir", dir, "epoch", e, "found", len(files))
			continue
		}
		ret = append(ret, LearningSet{Epoch: e, Files: files})
	}
	if len(ret) == 0 {
		return nil, mlp.NewError(mlp.ErrMissingFile, "no complete set of learning-curve files", dir)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Epoch < ret[j].Epoch })
	return ret, nil
}
