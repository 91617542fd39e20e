/*
 * eval.go, part of gomlp.
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

package deepmd

import (
	"fmt"

	mlp "github.com/gomlp/gomlp"
	v3 "github.com/gomlp/gomlp/v3"
	"gonum.org/v1/gonum/mat"
)

// Evaluator is a trained DeePMD model. Coordinates and cells are flat
// row-major arrays of one frame, types index the model's type map.
// An implementation typically wraps the DeePMD C library or a remote inference
// service; gomlp only defines the contract.
type Evaluator interface {
	// EvalDescriptor returns the descriptor of each atom, natoms*ndescriptor values.
	EvalDescriptor(coord, cell []float64, atype []int) ([]float64, error)
	// Eval returns the energy, the forces (natoms*3) and the virial (9).
	Eval(coord, cell []float64, atype []int) (float64, []float64, []float64, error)
}

// Flatten returns the coordinates, cell and atom types of A as the flat arrays
// an Evaluator takes. Types are the indexes of the symbols in typeMap; if typeMap
// is empty, all atoms get type 0.
func Flatten(A *mlp.Atoms, typeMap []string) ([]float64, []float64, []int, error) {
	atype := make([]int, A.NAtoms())
	if len(typeMap) > 0 {
		if A.Symbols() == nil {
			return nil, nil, nil, mlp.NewError(mlp.ErrMissingSymbols, "a type map was given but the structure has no symbols", A.Path)
		}
		index := make(map[string]int, len(typeMap))
		for i, v := range typeMap {
			index[v] = i
		}
		for i, s := range A.Symbols() {
			t, ok := index[s]
			if !ok {
				return nil, nil, nil, mlp.NewError(mlp.ErrUnknownSpecies, fmt.Sprintf("%s not in the type map %v", s, typeMap), A.Path)
			}
			atype[i] = t
		}
	}
	return A.Coords().Data(), A.Cell().Data(), atype, nil
}

// Descriptors returns the descriptors of the atoms of A, one row per atom.
func Descriptors(E Evaluator, A *mlp.Atoms, typeMap []string) (*mat.Dense, error) {
	coord, cell, atype, err := Flatten(A, typeMap)
	if err != nil {
		return nil, mlp.Decorate(err, "Descriptors")
	}
	d, err := E.EvalDescriptor(coord, cell, atype)
	if err != nil {
		return nil, mlp.Decorate(err, "Descriptors")
	}
	n := A.NAtoms()
	if len(d) == 0 || len(d)%n != 0 {
		return nil, mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("%d descriptor values for %d atoms", len(d), n), A.Path)
	}
	return mat.NewDense(n, len(d)/n, d), nil
}

// Predict returns a copy of A with the energy and forces predicted by E,
// and the virial, row-major.
func Predict(E Evaluator, A *mlp.Atoms, typeMap []string) (*mlp.Atoms, []float64, error) {
	coord, cell, atype, err := Flatten(A, typeMap)
	if err != nil {
		return nil, nil, mlp.Decorate(err, "Predict")
	}
	e, f, virial, err := E.Eval(coord, cell, atype)
	if err != nil {
		return nil, nil, mlp.Decorate(err, "Predict")
	}
	forces, err := v3.NewMatrix(f)
	if err != nil {
		return nil, nil, mlp.Decorate(err, "Predict")
	}
	ret := A.Copy()
	ret.SetEnergy(e)
	if err := ret.SetForces(forces); err != nil {
		return nil, nil, mlp.Decorate(err, "Predict")
	}
	return ret, virial, nil
}
