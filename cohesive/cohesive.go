/*
 * cohesive.go, part of gomlp.
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

// Package cohesive sets up and reads the LAMMPS calculations that give the
// cohesive energy of a potential: the energy of a single atom and that of a
// minimized bulk structure.
package cohesive

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/logger"
)

// Names of the calculation tree.
const (
	SingleDir     = "single"
	MinimizeDir   = "minimize"
	SingleInput   = "in.single"
	MinimizeInput = "in.minimize"
	LogName       = "log.lammps"
)

// Markers in the LAMMPS logs.
const (
	TotEngMarker   = "TotEng"
	MinimizeMarker = "Energy initial, next-to-last, final"
	LoopMarker     = "Loop time of"
)

// DefaultCutoff is the symmetry function cutoff, in A, written in the pair_coeff lines.
const DefaultCutoff = 5.0

// Calculator writes the LAMMPS inputs of a cohesive energy calculation.
type Calculator struct {
	Template  string  //directory with single/in.single and minimize/in.minimize
	Potential string  //n2p2 potential directory
	Target    string  //where the inputs are written
	Cutoff    float64 //in A
}

// NewCalculator returns a Calculator with the default cutoff.
func NewCalculator(template, potential, target string) *Calculator {
	return &Calculator{Template: template, Potential: potential, Target: target, Cutoff: DefaultCutoff}
}

// Setup reads the template inputs, points them to the potential and writes
// them to Target/single/in.single and Target/minimize/in.minimize.
func (C *Calculator) Setup() error {
	for _, v := range [][2]string{{SingleDir, SingleInput}, {MinimizeDir, MinimizeInput}} {
		L, err := mlp.ReadLines(filepath.Join(C.Template, v[0], v[1]))
		if err != nil {
			return mlp.Decorate(err, "cohesive.Setup")
		}
		out := filepath.Join(C.Target, v[0], v[1])
		if err := mlp.WriteLines(out, ChangePotential(L.All(), C.Cutoff, C.Potential)); err != nil {
			return mlp.Decorate(err, "cohesive.Setup")
		}
		logger.Logger.Infow("wrote LAMMPS input", "path", out)
	}
	return nil
}

// ChangePotential returns a copy of the LAMMPS script lines with the potential
// directory set to potential, in the "variable nnpDir" and "pair_style nnp dir"
// lines, and the cutoff set in the "pair_coeff * *" lines.
func ChangePotential(lines []string, cutoff float64, potential string) []string {
	ret := make([]string, len(lines))
	quoted := strconv.Quote(potential)
	for i, l := range lines {
		f := strings.Fields(l)
		switch {
		case len(f) >= 3 && f[0] == "variable" && f[1] == "nnpDir":
			f[len(f)-1] = quoted
			l = strings.Join(f, " ")
		case len(f) >= 2 && f[0] == "pair_style" && f[1] == "nnp":
			for j := 2; j < len(f)-1; j++ {
				if f[j] == "dir" && !strings.HasPrefix(f[j+1], "$") {
					f[j+1] = quoted
				}
			}
			l = strings.Join(f, " ")
		case len(f) >= 3 && f[0] == "pair_coeff" && f[1] == "*" && f[2] == "*":
			c := strconv.FormatFloat(cutoff, 'f', -1, 64)
			if len(f) == 3 {
				f = append(f, c)
			} else {
				f[3] = c
			}
			l = strings.Join(f, " ")
		}
		ret[i] = l
	}
	return ret
}

// Cohesive returns the cohesive energy per atom, (bulk - n*single)/n.
func Cohesive(single, bulk float64, n int) float64 {
	N := float64(n)
	return (bulk - N*single) / N
}

// Result is the outcome of a cohesive energy calculation, in eV.
type Result struct {
	Single   float64 //energy of the isolated atom
	Bulk     float64 //final energy of the minimization
	NAtoms   int
	Cohesive float64 //per atom
}

func (R Result) String() string {
	return fmt.Sprintf("Cohesive energy: %.6f eV/atom (single %.6f eV, bulk %.6f eV, %d atoms)", R.Cohesive, R.Single, R.Bulk, R.NAtoms)
}

// Reader reads cohesive energy calculations.
type Reader struct {
	// NAtoms is the number of atoms in the bulk structure. If 0, it is
	// read from the last "Loop time" line of the minimization log.
	NAtoms int
}

// NewReader returns a Reader for bulk structures of natoms atoms, 8000 if not given.
func NewReader(natoms ...int) *Reader {
	R := &Reader{NAtoms: 8000}
	if len(natoms) > 0 {
		R.NAtoms = natoms[0]
	}
	return R
}

// Read reads the single and minimize logs under dir. Both must exist.
// The single-atom energy is the next-to-last field of the line after the last
// TotEng header, the bulk energy the last field of the line after the last
// minimization summary.
func (R *Reader) Read(dir string) (Result, error) {
	var res Result
	single, err := mlp.ReadLines(filepath.Join(dir, SingleDir, LogName))
	if err != nil {
		return res, mlp.Decorate(err, "cohesive.Read")
	}
	minimize, err := mlp.ReadLines(filepath.Join(dir, MinimizeDir, LogName))
	if err != nil {
		return res, mlp.Decorate(err, "cohesive.Read")
	}
	l, err := single.After(TotEngMarker, 1, mlp.LastMatch)
	if err != nil {
		return res, mlp.Decorate(err, "cohesive.Read")
	}
	if res.Single, err = mlp.FloatField(l, -2); err != nil {
		return res, mlp.Decorate(err, "cohesive.Read")
	}
	l, err = minimize.After(MinimizeMarker, 1, mlp.LastMatch)
	if err != nil {
		return res, mlp.Decorate(err, "cohesive.Read")
	}
	if res.Bulk, err = mlp.FloatField(l, -1); err != nil {
		return res, mlp.Decorate(err, "cohesive.Read")
	}
	res.NAtoms = R.NAtoms
	if res.NAtoms <= 0 {
		if res.NAtoms, err = loopAtoms(minimize); err != nil {
			return res, mlp.Decorate(err, "cohesive.Read")
		}
	}
	res.Cohesive = Cohesive(res.Single, res.Bulk, res.NAtoms)
	logger.Logger.Infow("cohesive energy", "dir", dir, "eV/atom", res.Cohesive)
	return res, nil
}

var loopAtomsRe = regexp.MustCompile(`with (\d+) atoms`)

// loopAtoms returns the number of atoms in the last "Loop time" line of L.
func loopAtoms(L *mlp.Lines) (int, error) {
	i, err := L.Find(LoopMarker, mlp.LastMatch)
	if err != nil {
		return 0, err
	}
	m := loopAtomsRe.FindStringSubmatch(L.Line(i))
	if m == nil {
		return 0, mlp.NewError(mlp.ErrBadValue, "no atom count in "+L.Line(i), L.Name)
	}
	n, _ := strconv.Atoi(m[1])
	if n == 0 {
		return 0, mlp.NewError(mlp.ErrBadValue, "zero atoms in "+L.Line(i), L.Name)
	}
	return n, nil
}
