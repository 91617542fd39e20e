/*
 * build.go, part of gomlp.
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

package toolkit

import (
	"fmt"
	"math/rand/v2"

	mlp "github.com/gomlp/gomlp"
	v3 "github.com/gomlp/gomlp/v3"
)

// The functions in this file build new structures from the current frame of a
// molecule. The returned molecules have one frame and no calculation results,
// as the geometry changed. The original molecule is not modified.

// geometry returns a one-frame copy of the current frame of M, without results.
func geometry(M *Molecule) *Molecule {
	F := M.Frame().Copy()
	F.Forces = nil
	F.Energy, F.HasEnergy = 0, false
	ret := &Molecule{Topology: &Topology{Atoms: make([]*Atom, M.Len())}, Frames: []*Frame{F}}
	for i, v := range M.Atoms {
		ret.Atoms[i] = v.Copy()
	}
	return ret
}

// Rattle displaces every coordinate of every atom by a normally distributed
// amount with standard deviation stdev (A). The same seed gives the same structure.
func Rattle(M *Molecule, stdev float64, seed uint64) (*Molecule, error) {
	if stdev < 0 {
		return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("negative standard deviation %g", stdev), "")
	}
	ret := geometry(M)
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	c := ret.Frames[0].Coords
	for i := 0; i < c.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			c.Set(i, j, c.At(i, j)+r.NormFloat64()*stdev)
		}
	}
	return ret, nil
}

// ScaleCell multiplies the lattice vectors by factor, moving the atoms with the
// cell so their fractional coordinates don't change.
func ScaleCell(M *Molecule, factor float64) (*Molecule, error) {
	if factor <= 0 {
		return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("scale factor must be positive, got %g", factor), "")
	}
	ret := geometry(M)
	F := ret.Frames[0]
	F.Cell.Dense.Scale(factor, F.Cell.Dense)
	F.Coords.Dense.Scale(factor, F.Coords.Dense)
	return ret, nil
}

// MakeSupercell repeats the structure n[i] times along the ith lattice vector.
// The atoms of each image follow those of the previous one.
func MakeSupercell(M *Molecule, n [3]int) (*Molecule, error) {
	if n[0] < 1 || n[1] < 1 || n[2] < 1 {
		return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("invalid repetitions %v", n), "")
	}
	F := M.Frame()
	if !mlp.Periodic(F.Cell) {
		return nil, mlp.NewError(mlp.ErrInconsistent, "a supercell needs a periodic structure", "")
	}
	nat := M.Len()
	images := n[0] * n[1] * n[2]
	atoms := make([]*Atom, 0, images*nat)
	coords := v3.Zeros(images * nat)
	a, b, c := F.Cell.Vec(0), F.Cell.Vec(1), F.Cell.Vec(2)
	shift := v3.Zeros(1)
	k := 0
	for ix := 0; ix < n[0]; ix++ {
		for iy := 0; iy < n[1]; iy++ {
			for iz := 0; iz < n[2]; iz++ {
				for j := 0; j < 3; j++ {
					shift.Set(0, j, float64(ix)*a[j]+float64(iy)*b[j]+float64(iz)*c[j])
				}
				coords.View(k, 0, nat, 3).AddVec(F.Coords, shift)
				for _, at := range M.Atoms {
					atoms = append(atoms, at.Copy())
				}
				k += nat
			}
		}
	}
	cell := F.Cell.Clone()
	for i := 0; i < 3; i++ {
		r := cell.VecView(i)
		r.Dense.Scale(float64(n[i]), r.Dense)
	}
	ret, err := NewMolecule(atoms, coords, cell)
	if err != nil {
		return nil, mlp.Decorate(err, "MakeSupercell")
	}
	for k, v := range F.Info {
		ret.Frames[0].Info[k] = v
	}
	return ret, nil
}

// Extract returns the atoms strictly inside the box given by the x, y and z
// ranges (A), shifted so the lower corner of the box is the origin, in an
// orthorhombic cell of the box size. The ranges must be increasing and lie within
// the diagonal of the cell of M.
func Extract(M *Molecule, x, y, z [2]float64) (*Molecule, error) {
	F := M.Frame()
	ranges := [3][2]float64{x, y, z}
	for i, r := range ranges {
		if r[0] >= r[1] {
			return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("range %d: minimum %g is not below maximum %g", i, r[0], r[1]), "")
		}
		if r[0] < 0 || r[1] > F.Cell.At(i, i) {
			return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("range %d [%g, %g] is outside the cell (0, %g)", i, r[0], r[1], F.Cell.At(i, i)), "")
		}
	}
	var atoms []*Atom
	var data []float64
	for i, at := range M.Atoms {
		p := F.Coords.Vec(i)
		if !inside(p, ranges) {
			continue
		}
		atoms = append(atoms, at.Copy())
		data = append(data, p[:]...)
	}
	if len(atoms) == 0 {
		return nil, mlp.NewError(mlp.ErrBadValue, "no atoms inside the given box", "")
	}
	selected, _ := v3.NewMatrix(data)
	corner, _ := v3.NewMatrix([]float64{x[0], y[0], z[0]})
	coords := v3.Zeros(len(atoms))
	coords.SubVec(selected, corner)
	cell := v3.Zeros(3)
	for i, r := range ranges {
		cell.Set(i, i, r[1]-r[0])
	}
	if err := mlp.Wrap(cell, coords); err != nil {
		return nil, mlp.Decorate(err, "Extract")
	}
	ret, err := NewMolecule(atoms, coords, cell)
	return ret, mlp.Decorate(err, "Extract")
}

func inside(p [3]float64, ranges [3][2]float64) bool {
	for i, r := range ranges {
		if p[i] <= r[0] || p[i] >= r[1] {
			return false
		}
	}
	return true
}
