/*
 * elastic.go, part of gomlp.
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

// Package elastic prepares one LAMMPS elastic constant calculation per
// training epoch of an n2p2 potential, and collects the mechanical
// properties they give.
package elastic

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/logger"
	"github.com/gomlp/gomlp/n2p2"
)

// Names of the files and directories involved.
const (
	ElasticDir   = "elastic"
	EpochPrefix  = "e_"
	PotentialMod = "potential.mod"
	InputNN      = "input.nn"
	ScalingData  = "scaling.data"
	LogName      = "log.lammps"
	NNPDirVar    = "variable nnpDir"
)

// Calculator sets up elastic constant calculations for the weights written
// during an n2p2 training.
type Calculator struct {
	Result   string //the n2p2 training directory
	Template string //LAMMPS elastic calculation directory, with a potential.mod
}

// NewCalculator returns a Calculator for the training in result, using the
// LAMMPS template directory.
func NewCalculator(result, template string) *Calculator {
	return &Calculator{Result: result, Template: template}
}

// Setup creates target/elastic/e_<epoch> for each epoch with weights for all the
// atomic numbers in zs. The template is copied only if the epoch directory
// doesn't exist. input.nn, scaling.data and the weights, renamed to
// weights.<ZZZ>.data, are always copied, and the nnpDir variable of potential.mod
// is set to the epoch directory. The epoch directories are returned.
// If the weights files of different elements don't have the same epochs, an
// mlp.ErrEpochMismatch error is returned before anything is written.
func (C *Calculator) Setup(target string, zs []int) ([]string, error) {
	sets, err := n2p2.Epochs(C.Result, zs)
	if err != nil {
		return nil, mlp.Decorate(err, "elastic.Setup")
	}
	for _, f := range []string{InputNN, ScalingData} {
		if err := mlp.Exists(filepath.Join(C.Result, f)); err != nil {
			return nil, mlp.Decorate(err, "elastic.Setup")
		}
	}
	base := filepath.Join(target, ElasticDir)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, mlp.Decorate(err, "elastic.Setup")
	}
	ret := make([]string, 0, len(sets))
	for _, set := range sets {
		dir, err := C.setupEpoch(base, set)
		if err != nil {
			return nil, mlp.Decorate(err, "elastic.Setup")
		}
		ret = append(ret, dir)
	}
	return ret, nil
}

func (C *Calculator) setupEpoch(base string, set n2p2.EpochSet) (string, error) {
	dir := filepath.Join(base, EpochPrefix+strconv.Itoa(set.Epoch))
	logger.Logger.Infow("setting up epoch", "epoch", set.Epoch, "dir", dir)
	if mlp.Exists(dir) != nil {
		if err := mlp.CopyDir(C.Template, dir); err != nil {
			return "", err
		}
	}
	for _, f := range []string{InputNN, ScalingData} {
		if err := mlp.CopyFile(filepath.Join(C.Result, f), filepath.Join(dir, f)); err != nil {
			return "", err
		}
	}
	for _, w := range set.Weights {
		dst := filepath.Join(dir, w.DataName())
		if err := mlp.CopyFile(w.Path, dst); err != nil {
			return "", err
		}
		logger.Logger.Debugw("copied weights", "from", w.Path, "to", dst)
	}
	mod := filepath.Join(dir, PotentialMod)
	L, err := mlp.ReadLines(mod)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return dir, mlp.WriteLines(mod, ChangeNNPDir(L.All(), abs))
}

// ChangeNNPDir returns a copy of lines where the last field of the first line
// containing "variable nnpDir" is replaced by the quoted path.
func ChangeNNPDir(lines []string, path string) []string {
	ret := append([]string(nil), lines...)
	for i, l := range ret {
		if !strings.Contains(l, NNPDirVar) {
			continue
		}
		f := strings.Fields(l)
		f[len(f)-1] = strconv.Quote(path)
		ret[i] = strings.Join(f, " ")
		break
	}
	return ret
}
