/*
 * props.go, part of gomlp.
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
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/logger"
)

// Markers of the results in the log of the LAMMPS elastic example.
const (
	C11Marker     = "Elastic Constant C11all"
	C12Marker     = "Elastic Constant C12all"
	C44Marker     = "Elastic Constant C44all"
	BulkMarker    = "Bulk Modulus"
	Shear1Marker  = "Shear Modulus 1"
	Shear2Marker  = "Shear Modulus 2"
	PoissonMarker = "Poisson Ratio"
)

// MechanicalProps are the results of an elastic constant calculation.
// Moduli are in the units of the log, usually GPa.
type MechanicalProps struct {
	C11           float64 `json:"c11"`
	C12           float64 `json:"c12"`
	C44           float64 `json:"c44"`
	BulkModulus   float64 `json:"bulk_modulus"`
	ShearModulus1 float64 `json:"shear_modulus_1"`
	ShearModulus2 float64 `json:"shear_modulus_2"`
	PoissonRatio  float64 `json:"poisson_ratio"`
}

// Headers returns the names of the values, in the order of Values.
func Headers() []string {
	return []string{"C11", "C12", "C44", "BulkModulus", "ShearModulus1", "ShearModulus2", "PoissonRatio"}
}

// Values returns the properties as a slice, in the order of Headers.
func (M MechanicalProps) Values() []float64 {
	return []float64{M.C11, M.C12, M.C44, M.BulkModulus, M.ShearModulus1, M.ShearModulus2, M.PoissonRatio}
}

// ParseLog reads the mechanical properties in a LAMMPS log. Each value is the
// first field after the "=" in the last line with its marker.
func ParseLog(path string) (MechanicalProps, error) {
	var M MechanicalProps
	L, err := mlp.ReadLines(path)
	if err != nil {
		return M, mlp.Decorate(err, "ParseLog")
	}
	fields := []struct {
		marker string
		dst    *float64
	}{
		{C11Marker, &M.C11}, {C12Marker, &M.C12}, {C44Marker, &M.C44},
		{BulkMarker, &M.BulkModulus}, {Shear1Marker, &M.ShearModulus1},
		{Shear2Marker, &M.ShearModulus2}, {PoissonMarker, &M.PoissonRatio},
	}
	for _, f := range fields {
		i, err := L.Find(f.marker, mlp.LastMatch)
		if err != nil {
			return M, mlp.Decorate(err, "ParseLog")
		}
		_, rhs, ok := strings.Cut(L.Line(i), "=")
		if !ok {
			return M, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("no value in line %q", L.Line(i)), path)
		}
		if *f.dst, err = mlp.FloatField(rhs, 0); err != nil {
			return M, mlp.Decorate(mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("bad value in line %q", L.Line(i)), path), "ParseLog")
		}
	}
	return M, nil
}

// Row is the result of the calculation for one epoch.
type Row struct {
	Epoch int
	MechanicalProps
}

// Collect reads dir/e_<epoch>/log.lammps for every epoch directory in dir,
// which is usually the elastic directory created by Setup. Epochs whose log is
// missing or incomplete are logged and skipped. The rows are sorted by epoch.
func Collect(dir string) ([]Row, error) {
	if err := mlp.Exists(dir); err != nil {
		return nil, mlp.Decorate(err, "Collect")
	}
	dirs, err := filepath.Glob(filepath.Join(dir, EpochPrefix+"*"))
	if err != nil {
		return nil, mlp.Decorate(err, "Collect")
	}
	var ret []Row
	for _, d := range dirs {
		epoch, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(d), EpochPrefix))
		if err != nil {
			continue
		}
		M, err := ParseLog(filepath.Join(d, LogName))
		if err != nil {
			logger.Logger.Warnw("skipping epoch", "epoch", epoch, "error", err.Error())
			continue
		}
		ret = append(ret, Row{Epoch: epoch, MechanicalProps: M})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Epoch < ret[j].Epoch })
	return ret, nil
}
