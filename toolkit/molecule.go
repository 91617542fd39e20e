/*
 * molecule.go, part of gomlp.
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

	mlp "github.com/gomlp/gomlp"
	v3 "github.com/gomlp/gomlp/v3"
)

// Atom contains the information of an atom that doesn't change between
// frames. Coordinates are kept in the frames of a Molecule.
type Atom struct {
	Symbol string
	Mass   float64
	Tag    int //free use
}

// NewAtom returns an atom of the given element, with its standard mass.
// Unknown symbols get mass 0.
func NewAtom(symbol string) *Atom {
	m, _ := mlp.Mass(symbol)
	return &Atom{Symbol: symbol, Mass: m}
}

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	ret := *A
	return &ret
}

// Topology contains the atoms of a molecule, the information
// that is not expected to change in time.
type Topology struct {
	Atoms []*Atom
}

// Len returns the number of atoms.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

// Symbols returns the chemical symbol of each atom.
func (T *Topology) Symbols() []string {
	ret := make([]string, len(T.Atoms))
	for i, v := range T.Atoms {
		ret[i] = v.Symbol
	}
	return ret
}

// Frame is one state of a Molecule: coordinates and cell, plus the
// energy and forces of a calculation if one was attached.
type Frame struct {
	Coords    *v3.Matrix
	Cell      *v3.Matrix
	Forces    *v3.Matrix
	Energy    float64
	HasEnergy bool
	Info      map[string]string
}

// Copy returns a deep copy of the frame.
func (F *Frame) Copy() *Frame {
	ret := &Frame{Coords: F.Coords.Clone(), Energy: F.Energy, HasEnergy: F.HasEnergy, Info: make(map[string]string, len(F.Info))}
	if F.Cell != nil {
		ret.Cell = F.Cell.Clone()
	}
	if F.Forces != nil {
		ret.Forces = F.Forces.Clone()
	}
	for k, v := range F.Info {
		ret.Info[k] = v
	}
	return ret
}

// Molecule is a set of atoms in one or more frames. The accessors of the
// mlp.Structure and mlp.Calculated interfaces refer to the current frame,
// so a Molecule can be given to mlp.FromToolkit.
type Molecule struct {
	*Topology
	Frames  []*Frame
	current int
}

// NewMolecule returns a molecule with the given atoms and one frame with
// coords and cell. A nil cell means a non-periodic structure, which gets a zero cell.
func NewMolecule(atoms []*Atom, coords, cell *v3.Matrix) (*Molecule, error) {
	if atoms == nil || coords == nil {
		return nil, mlp.NewError(mlp.ErrInconsistent, "atoms and coordinates must be given", "")
	}
	M := &Molecule{Topology: &Topology{Atoms: atoms}}
	if err := M.AddFrame(&Frame{Coords: coords, Cell: cell}); err != nil {
		return nil, err
	}
	return M, nil
}

// FromAtoms returns a one-frame molecule with the data of A.
// A must have chemical symbols.
func FromAtoms(A *mlp.Atoms) (*Molecule, error) {
	if A.Symbols() == nil {
		return nil, mlp.NewError(mlp.ErrMissingSymbols, "the structure has no chemical symbols", A.Path)
	}
	atoms := make([]*Atom, A.NAtoms())
	for i, s := range A.Symbols() {
		atoms[i] = NewAtom(s)
	}
	M, err := NewMolecule(atoms, A.Coords().Clone(), A.Cell().Clone())
	if err != nil {
		return nil, err
	}
	F := M.Frames[0]
	F.Energy, F.HasEnergy = A.Energy()
	if f := A.Forces(); f != nil {
		F.Forces = f.Clone()
	}
	for k, v := range A.Info {
		F.Info[k] = v
	}
	return M, nil
}

// AddFrame appends a frame, checking that it matches the number of atoms.
func (M *Molecule) AddFrame(F *Frame) error {
	if F == nil || F.Coords == nil {
		return mlp.NewError(mlp.ErrInconsistent, "attempted to add a frame without coordinates", "")
	}
	if F.Cell == nil {
		F.Cell = v3.Zeros(3)
	}
	if F.Info == nil {
		F.Info = make(map[string]string)
	}
	M.Frames = append(M.Frames, F)
	if err := M.Corrupted(); err != nil {
		M.Frames = M.Frames[:len(M.Frames)-1]
		return err
	}
	return nil
}

// Corrupted checks that every frame has as many coordinates (and forces)
// as atoms, and a 3x3 cell.
func (M *Molecule) Corrupted() error {
	for i, F := range M.Frames {
		if F.Coords.NVecs() != M.Len() {
			return mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("inconsistent coordinates/atoms in frame %d: atoms %d, coords %d", i, M.Len(), F.Coords.NVecs()), "")
		}
		if F.Forces != nil && F.Forces.NVecs() != M.Len() {
			return mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("inconsistent forces/atoms in frame %d: atoms %d, forces %d", i, M.Len(), F.Forces.NVecs()), "")
		}
		if r, c := F.Cell.Dims(); r != 3 || c != 3 {
			return mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("cell of frame %d is not 3x3", i), "")
		}
	}
	return nil
}

// Copy returns a deep copy of the molecule.
func (M *Molecule) Copy() *Molecule {
	ret := &Molecule{Topology: &Topology{Atoms: make([]*Atom, M.Len())}, current: M.current}
	for i, v := range M.Atoms {
		ret.Atoms[i] = v.Copy()
	}
	for _, F := range M.Frames {
		ret.Frames = append(ret.Frames, F.Copy())
	}
	return ret
}

// LenFrames returns the number of frames in the molecule.
func (M *Molecule) LenFrames() int {
	return len(M.Frames)
}

// Current returns the index of the frame the accessors refer to.
func (M *Molecule) Current() int {
	return M.current
}

// SetCurrent sets the frame the accessors refer to. Panics if out of range.
func (M *Molecule) SetCurrent(i int) {
	if i < 0 || i >= len(M.Frames) {
		panic(mlp.ErrIndexOutOfRange)
	}
	M.current = i
}

// Frame returns the current frame.
func (M *Molecule) Frame() *Frame {
	return M.Frames[M.current]
}

func (M *Molecule) Cell() *v3.Matrix { return M.Frame().Cell }

func (M *Molecule) Positions() *v3.Matrix { return M.Frame().Coords }

func (M *Molecule) ChemicalSymbols() []string { return M.Symbols() }

func (M *Molecule) PotentialEnergy() (float64, bool) {
	F := M.Frame()
	return F.Energy, F.HasEnergy
}

func (M *Molecule) CalculatedForces() *v3.Matrix { return M.Frame().Forces }

// Records returns one structure record per frame of M.
func (M *Molecule) Records() ([]*mlp.Atoms, error) {
	cur := M.current
	defer func() { M.current = cur }()
	ret := make([]*mlp.Atoms, 0, len(M.Frames))
	for i := range M.Frames {
		M.current = i
		A, err := mlp.FromToolkit(M)
		if err != nil {
			return nil, mlp.Decorate(err, "Molecule.Records")
		}
		A.Frame = i
		for k, v := range M.Frames[i].Info {
			A.Info[k] = v
		}
		ret = append(ret, A)
	}
	return ret, nil
}
