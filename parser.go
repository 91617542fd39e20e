/*
 * parser.go, part of gomlp.
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

package mlp

import (
	"fmt"

	"github.com/cockroachdb/errors"
	v3 "github.com/gomlp/gomlp/v3"
)

// FromParser builds an Atoms record from the fields P reports. Missing
// optional fields (ErrAbsent) are left unset, any other error is returned.
func FromParser(P Parser) (*Atoms, error) {
	cell, err := P.Cell()
	if err != nil {
		return nil, errDecorate(err, "FromParser")
	}
	coords, err := P.Coords()
	if err != nil {
		return nil, errDecorate(err, "FromParser")
	}
	n, err := P.NAtoms()
	if err != nil {
		return nil, errDecorate(err, "FromParser")
	}
	if coords.NVecs() != n {
		return nil, NewError(ErrInconsistent, fmt.Sprintf("%d atoms declared, %d coordinates read", n, coords.NVecs()), "")
	}
	symbols, err := P.Symbols()
	if err != nil && !errors.Is(err, ErrAbsent) {
		return nil, errDecorate(err, "FromParser")
	}
	A, err := NewAtoms(cell, coords, symbols...)
	if err != nil {
		return nil, errDecorate(err, "FromParser")
	}
	e, err := P.Energy()
	switch {
	case err == nil:
		A.SetEnergy(e)
	case !errors.Is(err, ErrAbsent):
		return nil, errDecorate(err, "FromParser")
	}
	f, err := P.Forces()
	switch {
	case err == nil:
		if err := A.SetForces(f); err != nil {
			return nil, errDecorate(err, "FromParser")
		}
	case !errors.Is(err, ErrAbsent):
		return nil, errDecorate(err, "FromParser")
	}
	m, err := P.TotalMagnetization()
	switch {
	case err == nil:
		A.SetTotalMagnetization(m)
	case !errors.Is(err, ErrAbsent):
		return nil, errDecorate(err, "FromParser")
	}
	id, err := P.StructureID()
	if err != nil && !errors.Is(err, ErrAbsent) {
		return nil, errDecorate(err, "FromParser")
	}
	A.StructureID = id
	return A, nil
}

// FromToolkit builds an Atoms record from an in-memory atomistic object.
// obj must implement Structure, otherwise an ErrUnsupportedFormat error is returned.
// If obj doesn't implement Calculated, or has no results attached, the record
// gets zero energy and zero forces.
func FromToolkit(obj any) (*Atoms, error) {
	S, ok := obj.(Structure)
	if !ok {
		return nil, NewError(ErrUnsupportedFormat, fmt.Sprintf("%T does not provide a cell, positions and chemical symbols", obj), "")
	}
	cell := S.Cell()
	pos := S.Positions()
	if cell == nil || pos == nil {
		return nil, NewError(ErrInconsistent, "structure without cell or positions", "")
	}
	A, err := NewAtoms(cell.Clone(), pos.Clone(), S.ChemicalSymbols()...)
	if err != nil {
		return nil, errDecorate(err, "FromToolkit")
	}
	energy := 0.0
	forces := v3.Zeros(A.NAtoms())
	if C, ok := obj.(Calculated); ok {
		if e, ok := C.PotentialEnergy(); ok {
			energy = e
		}
		if f := C.CalculatedForces(); f != nil {
			forces = f.Clone()
		}
	}
	A.SetEnergy(energy)
	if err := A.SetForces(forces); err != nil {
		return nil, errDecorate(err, "FromToolkit")
	}
	return A, nil
}
