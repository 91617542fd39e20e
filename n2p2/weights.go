/*
 * weights.go, part of gomlp.
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
)

// WeightsFile is a weights.<ZZZ>.<epoch>.out file written by nnp-train.
type WeightsFile struct {
	Path  string
	Z     int
	Epoch int
}

// DataName returns the name nnp-predict and LAMMPS expect for the file, weights.<ZZZ>.data.
func (W WeightsFile) DataName() string {
	return fmt.Sprintf("weights.%s.data", zfill(W.Z))
}

// ParseWeightsName parses the atomic number and epoch from the name of a weights file.
func ParseWeightsName(path string) (WeightsFile, error) {
	f := strings.Split(filepath.Base(path), ".")
	if len(f) != 4 || f[0] != "weights" {
		return WeightsFile{}, mlp.NewError(mlp.ErrBadValue, "not a weights.<ZZZ>.<epoch>.out name", path)
	}
	z, err := strconv.Atoi(f[1])
	if err != nil {
		return WeightsFile{}, mlp.NewError(mlp.ErrBadValue, "bad atomic number in weights file name", path)
	}
	e, err := strconv.Atoi(f[2])
	if err != nil {
		return WeightsFile{}, mlp.NewError(mlp.ErrBadValue, "bad epoch in weights file name", path)
	}
	return WeightsFile{Path: path, Z: z, Epoch: e}, nil
}

// FindWeights returns the weights files for atomic number z in dir, sorted by epoch.
func FindWeights(dir string, z int) ([]WeightsFile, error) {
	names, err := filepath.Glob(filepath.Join(dir, fmt.Sprintf("weights.%s.*.out", zfill(z))))
	if err != nil {
		return nil, mlp.Decorate(err, "FindWeights")
	}
	ret := make([]WeightsFile, 0, len(names))
	for _, v := range names {
		w, err := ParseWeightsName(v)
		if err != nil {
			return nil, mlp.Decorate(err, "FindWeights")
		}
		ret = append(ret, w)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Epoch < ret[j].Epoch })
	return ret, nil
}

// EpochSet is the weights files of all the elements at one epoch.
type EpochSet struct {
	Epoch   int
	Weights []WeightsFile
}

// MatchEpochs pairs the weights files of several elements index by index.
// The files at each index must belong to the same epoch, otherwise an
// mlp.ErrEpochMismatch error is returned.
func MatchEpochs(files map[int][]WeightsFile) ([]EpochSet, error) {
	zs := make([]int, 0, len(files))
	for z := range files {
		zs = append(zs, z)
	}
	sort.Ints(zs)
	if len(zs) == 0 {
		return nil, nil
	}
	n := len(files[zs[0]])
	for _, z := range zs[1:] {
		if len(files[z]) != n {
			return nil, mlp.NewError(mlp.ErrEpochMismatch, fmt.Sprintf("%d weights files for Z=%d, %d for Z=%d", n, zs[0], len(files[z]), z), "")
		}
	}
	ret := make([]EpochSet, n)
	for i := 0; i < n; i++ {
		set := EpochSet{Epoch: files[zs[0]][i].Epoch}
		for _, z := range zs {
			w := files[z][i]
			if w.Epoch != set.Epoch {
				return nil, mlp.NewError(mlp.ErrEpochMismatch, fmt.Sprintf("epoch is not consistent: %d for Z=%d, %d for Z=%d", set.Epoch, zs[0], w.Epoch, z), w.Path)
			}
			set.Weights = append(set.Weights, w)
		}
		ret[i] = set
	}
	return ret, nil
}

// Epochs finds the weights files of every atomic number in zs in dir and
// matches them by epoch.
func Epochs(dir string, zs []int) ([]EpochSet, error) {
	files := make(map[int][]WeightsFile, len(zs))
	for _, z := range zs {
		w, err := FindWeights(dir, z)
		if err != nil {
			return nil, mlp.Decorate(err, "Epochs")
		}
		if len(w) == 0 {
			return nil, mlp.NewError(mlp.ErrMissingFile, fmt.Sprintf("no weights.%s.*.out files", zfill(z)), dir)
		}
		files[z] = w
	}
	ret, err := MatchEpochs(files)
	return ret, mlp.Decorate(err, "Epochs")
}
