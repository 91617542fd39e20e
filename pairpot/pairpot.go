/*
 * pairpot.go, part of gomlp.
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

// Package pairpot builds energy against distance curves from sets of dimer
// single point calculations.
package pairpot

import (
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/logger"
	"github.com/gomlp/gomlp/qe"
)

// Point is the energy of a dimer at one interatomic distance.
type Point struct {
	Dir      string
	Distance float64 //A
	Energy   float64 //eV
}

// Curve is a pair potential, sorted by distance.
type Curve []Point

// Distances returns the distances of the curve.
func (C Curve) Distances() []float64 {
	ret := make([]float64, len(C))
	for i, p := range C {
		ret[i] = p.Distance
	}
	return ret
}

// Energies returns the energies of the curve.
func (C Curve) Energies() []float64 {
	ret := make([]float64, len(C))
	for i, p := range C {
		ret[i] = p.Energy
	}
	return ret
}

// Shift returns a copy of C with the energy at the largest distance
// subtracted from every point, so the curve goes to zero at dissociation.
func (C Curve) Shift() Curve {
	ret := make(Curve, len(C))
	copy(ret, C)
	if len(C) == 0 {
		return ret
	}
	ref := C[len(C)-1].Energy
	for i := range ret {
		ret[i].Energy -= ref
	}
	return ret
}

func (C Curve) sort() {
	sort.SliceStable(C, func(i, j int) bool { return C[i].Distance < C[j].Distance })
}

// FromEspresso reads the pw.x calculation in each of dirs and returns the
// curve of the dimers among them. Directories that can't be read, or don't
// hold a dimer, are logged and returned as skipped.
func FromEspresso(dirs []string, options ...*qe.Options) (Curve, []string) {
	var C Curve
	var skipped []string
	for _, d := range dirs {
		A, err := qe.Read(d, options...)
		if err != nil {
			logger.Logger.Warnw("skipping directory", "dir", d, "error", err.Error())
			skipped = append(skipped, d)
			continue
		}
		dist, err := A.AtomicDistance()
		if err != nil {
			logger.Logger.Warnw("skipping directory", "dir", d, "error", err.Error())
			skipped = append(skipped, d)
			continue
		}
		e, _ := A.Energy()
		C = append(C, Point{Dir: d, Distance: dist, Energy: e})
	}
	C.sort()
	return C, skipped
}

// FromEspressoMag is like FromEspresso, for spin-polarized runs, which are
// often stopped before pw.x ends. The only requirement on the output is a
// converged "!    total energy" line, and the first one is used. The
// distance is taken from the input geometry, without periodic images.
func FromEspressoMag(dirs []string, options ...*qe.Options) (Curve, []string) {
	O := qe.DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		O = options[0]
	}
	var C Curve
	var skipped []string
	for _, d := range dirs {
		p, err := readMag(d, O)
		if err != nil {
			logger.Logger.Warnw("skipping directory", "dir", d, "error", err.Error())
			skipped = append(skipped, d)
			continue
		}
		C = append(C, p)
	}
	C.sort()
	return C, skipped
}

func readMag(dir string, O *qe.Options) (Point, error) {
	out, err := mlp.ReadLines(filepath.Join(dir, O.Output()))
	if err != nil {
		return Point{}, err
	}
	i, err := out.Find(qe.TotalEnergy, mlp.FirstMatch)
	if err != nil {
		return Point{}, errors.Wrapf(err, "%s is not valid", out.Name)
	}
	e, err := mlp.FloatField(out.Line(i), -2)
	if err != nil {
		return Point{}, mlp.Decorate(err, "readMag")
	}
	D, err := qe.ReadDeck(filepath.Join(dir, O.Input()))
	if err != nil {
		return Point{}, err
	}
	coords, symbols, err := D.Positions()
	if err != nil {
		return Point{}, err
	}
	cell, err := D.Cell()
	if err != nil {
		return Point{}, err
	}
	A, err := mlp.NewAtoms(cell, coords, symbols...)
	if err != nil {
		return Point{}, err
	}
	A.Path = dir
	dist, err := A.AtomicDistance()
	if err != nil {
		return Point{}, err
	}
	return Point{Dir: dir, Distance: dist, Energy: e * mlp.Ry2EV}, nil
}
