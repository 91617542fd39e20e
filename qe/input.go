/*
 * input.go, part of gomlp.
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
	"fmt"
	"regexp"
	"strings"

	mlp "github.com/gomlp/gomlp"
	v3 "github.com/gomlp/gomlp/v3"
	matrix "github.com/skelterjohn/go.matrix"
)

var (
	natAssign    = regexp.MustCompile(`(?i)\bnat\s*=\s*\d+`)
	outdirAssign = regexp.MustCompile(`(?i)\boutdir\s*=\s*(['"]).*?(['"])`)
)

// BuildInput returns the lines of the template deck with the number of atoms,
// the CELL_PARAMETERS card (in angstrom) and the ATOMIC_POSITIONS card (crystal
// coordinates) replaced by those of A. If outdir is given, the outdir assignment
// is rewritten too. The species of A must all be declared in the ATOMIC_SPECIES
// card of the template, if there is one.
// The template is not modified. The returned lines are not trimmed.
func BuildInput(template []string, A *mlp.Atoms, outdir ...string) ([]string, error) {
	if A.Symbols() == nil {
		return nil, mlp.NewError(mlp.ErrMissingSymbols, "atoms without chemical symbols", A.Path)
	}
	T := NewDeck(mlp.LinesFrom("template", template))
	if err := checkSpecies(T, A); err != nil {
		return nil, mlp.Decorate(err, "BuildInput")
	}
	oldnat, err := T.NAtoms()
	if err != nil {
		return nil, mlp.Decorate(err, "BuildInput")
	}
	cellidx, _, err := T.card("CELL_PARAMETERS")
	if err != nil {
		return nil, mlp.Decorate(mlp.MarkerError("CELL_PARAMETERS", "template"), "BuildInput")
	}
	posidx, _, err := T.card("ATOMIC_POSITIONS")
	if err != nil {
		return nil, mlp.Decorate(mlp.MarkerError("ATOMIC_POSITIONS", "template"), "BuildInput")
	}
	if cellidx+4 > len(template) || posidx+1+oldnat > len(template) {
		return nil, mlp.NewError(mlp.ErrBadValue, "template ends inside a card", "template")
	}
	frac, err := crystalCoords(A.Cell(), A.Coords())
	if err != nil {
		return nil, mlp.Decorate(err, "BuildInput")
	}
	natSet := false
	ret := make([]string, 0, len(template)+A.NAtoms())
	for i := 0; i < len(template); i++ {
		l := template[i]
		switch {
		case i == cellidx:
			ret = append(ret, "CELL_PARAMETERS angstrom")
			for j := 0; j < 3; j++ {
				v := A.Cell().Vec(j)
				ret = append(ret, fmt.Sprintf("  %.10f  %.10f  %.10f", v[0], v[1], v[2]))
			}
			i += 3
			continue
		case i == posidx:
			ret = append(ret, "ATOMIC_POSITIONS crystal")
			for j, s := range A.Symbols() {
				ret = append(ret, fmt.Sprintf("%-3s  %.10f  %.10f  %.10f", s, frac.Get(j, 0), frac.Get(j, 1), frac.Get(j, 2)))
			}
			i += oldnat
			continue
		}
		if !natSet && natAssign.MatchString(l) {
			l = natAssign.ReplaceAllString(l, fmt.Sprintf("nat = %d", A.NAtoms()))
			natSet = true
		}
		if len(outdir) > 0 && outdir[0] != "" {
			l = outdirAssign.ReplaceAllString(l, fmt.Sprintf("outdir = '%s'", outdir[0]))
		}
		ret = append(ret, l)
	}
	return ret, nil
}

// WriteInput builds an input deck for A from the template file and writes it to path.
func WriteInput(templatePath, path string, A *mlp.Atoms, outdir ...string) error {
	T, err := mlp.ReadLines(templatePath)
	if err != nil {
		return mlp.Decorate(err, "WriteInput")
	}
	lines, err := BuildInput(T.All(), A, outdir...)
	if err != nil {
		return mlp.Decorate(err, "WriteInput")
	}
	return mlp.Decorate(mlp.WriteLines(path, lines), "WriteInput")
}

// checkSpecies makes sure every element in A is declared in the template.
func checkSpecies(T *Deck, A *mlp.Atoms) error {
	declared := T.Species()
	if declared == nil {
		return nil
	}
	known := make(map[string]bool, len(declared))
	for _, v := range declared {
		known[elementFromLabel(v)] = true
	}
	for _, s := range A.UniqueSymbols() {
		if !known[s] {
			return mlp.NewError(mlp.ErrUnknownSpecies, fmt.Sprintf("species %s not declared in ATOMIC_SPECIES", s), "template")
		}
	}
	if v, ok := T.Value("ntyp"); ok && v != fmt.Sprint(len(declared)) {
		return mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("ntyp = %s but %d species declared", v, len(declared)), "template")
	}
	return nil
}

// crystalCoords returns coords in units of the lattice vectors,
// coords * cell^-1.
func crystalCoords(cell, coords *v3.Matrix) (*matrix.DenseMatrix, error) {
	C := matrix.MakeDenseMatrix(cell.Data(), 3, 3)
	inv, err := C.Inverse()
	if err != nil {
		return nil, mlp.NewError(mlp.ErrInconsistent, "singular cell: "+err.Error(), "")
	}
	X := matrix.MakeDenseMatrix(coords.Data(), coords.NVecs(), 3)
	frac, err := X.TimesDense(inv)
	if err != nil {
		return nil, mlp.NewError(mlp.ErrInconsistent, err.Error(), "")
	}
	return frac, nil
}

// CardLines returns the lines of the given card, up to the next card or
// blank line, header excluded. Useful for templates whose cards don't have a
// fixed size, such as K_POINTS.
func (D *Deck) CardLines(name string) ([]string, error) {
	i, _, err := D.card(name)
	if err != nil {
		return nil, mlp.MarkerError(name, D.lines.Name)
	}
	var ret []string
	for _, l := range D.lines.All()[i+1:] {
		if l == "" || isCard(l) || strings.HasPrefix(l, "&") {
			break
		}
		ret = append(ret, l)
	}
	return ret, nil
}
