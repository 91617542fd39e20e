/*
 * atoms.go, part of gomlp.
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
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	v3 "github.com/gomlp/gomlp/v3"
	"gonum.org/v1/gonum/mat"
)

// Atoms is one atomic configuration: a periodic cell, the cartesian coordinates
// of N atoms, and optionally the energy and forces of a calculation on it.
// Lengths are in A, energies in eV and forces in eV/A.
// An Atoms is built by a parser and is not modified afterwards, except for the
// nearest-neighbor distance, which is computed on first use.
type Atoms struct {
	cell   *v3.Matrix
	coords *v3.Matrix
	forces *v3.Matrix

	energy           float64
	hasEnergy        bool
	magnetization    float64
	hasMagnetization bool

	symbols []string

	//Provenance. Frame is -1 for records that don't come from a multi-frame source.
	StructureID string
	Path        string
	Frame       int
	Info        map[string]string

	nnDist    float64
	hasNNDist bool
}

// NewAtoms returns an Atoms with the given cell and coordinates. The cell must be
// 3x3, with the lattice vectors as rows. symbols can be empty, one symbol per atom,
// or a single formula-like shorthand such as "Si8" or "Si", which is expanded.
// The coordinates are not copied.
func NewAtoms(cell, coords *v3.Matrix, symbols ...string) (*Atoms, error) {
	if cell == nil || coords == nil {
		return nil, NewError(ErrInconsistent, "cell and coordinates must be given", "")
	}
	if r, c := cell.Dims(); r != 3 || c != 3 {
		return nil, NewError(ErrInconsistent, fmt.Sprintf("cell must be 3x3, got %dx%d", r, c), "")
	}
	if _, c := coords.Dims(); c != 3 {
		return nil, NewError(ErrInconsistent, fmt.Sprintf("coordinates must have 3 columns, got %d", c), "")
	}
	A := &Atoms{cell: cell, coords: coords, Frame: -1, Info: map[string]string{}}
	if err := A.SetSymbols(symbols...); err != nil {
		return nil, errDecorate(err, "NewAtoms")
	}
	return A, nil
}

// SetSymbols sets the chemical symbols of the atoms. See NewAtoms.
func (A *Atoms) SetSymbols(symbols ...string) error {
	s, err := ExpandSymbols(symbols, A.NAtoms())
	if err != nil {
		return errDecorate(err, "SetSymbols")
	}
	A.symbols = s
	return nil
}

// SetEnergy sets the total energy, in eV.
func (A *Atoms) SetEnergy(e float64) {
	A.energy = e
	A.hasEnergy = true
}

// SetForces sets the forces, in eV/A. nil removes them.
func (A *Atoms) SetForces(f *v3.Matrix) error {
	if f == nil {
		A.forces = nil
		return nil
	}
	if r, c := f.Dims(); r != A.NAtoms() || c != 3 {
		return NewError(ErrInconsistent, fmt.Sprintf("forces must be %dx3, got %dx%d", A.NAtoms(), r, c), A.Path)
	}
	A.forces = f
	return nil
}

// SetTotalMagnetization sets the total magnetization, in Bohr magnetons per cell.
func (A *Atoms) SetTotalMagnetization(m float64) {
	A.magnetization = m
	A.hasMagnetization = true
}

func (A *Atoms) Cell() *v3.Matrix { return A.cell }

func (A *Atoms) Coords() *v3.Matrix { return A.coords }

// Forces returns the forces, or nil if the record has none.
func (A *Atoms) Forces() *v3.Matrix { return A.forces }

// Energy returns the total energy and whether it is present.
func (A *Atoms) Energy() (float64, bool) { return A.energy, A.hasEnergy }

// TotalMagnetization returns the magnetization and whether it is present.
func (A *Atoms) TotalMagnetization() (float64, bool) {
	return A.magnetization, A.hasMagnetization
}

func (A *Atoms) NAtoms() int { return A.coords.NVecs() }

// Len is the same as NAtoms
func (A *Atoms) Len() int { return A.NAtoms() }

// Symbols returns the chemical symbols, or nil if they were not set.
func (A *Atoms) Symbols() []string { return A.symbols }

// Symbol returns the symbol of the ith atom, or an empty string if symbols are not set.
func (A *Atoms) Symbol(i int) string {
	if A.symbols == nil {
		return ""
	}
	return A.symbols[i]
}

// Volume returns the cell volume a.(bxc), rounded to 3 decimals.
func (A *Atoms) Volume() float64 {
	return CellVolume(A.cell)
}

// AtomicVolume returns the volume per atom.
func (A *Atoms) AtomicVolume() float64 {
	return A.Volume() / float64(A.NAtoms())
}

// AtomicEnergy returns the energy per atom.
func (A *Atoms) AtomicEnergy() (float64, error) {
	if !A.hasEnergy {
		return 0, NewError(ErrAbsent, "record has no energy", A.Path)
	}
	return A.energy / float64(A.NAtoms()), nil
}

// AtomicDistance returns the distance between the two atoms of a dimer.
// Records with other than 2 atoms give an ErrNotDimer error.
func (A *Atoms) AtomicDistance() (float64, error) {
	if A.NAtoms() != 2 {
		return 0, NewError(ErrNotDimer, fmt.Sprintf("record has %d atoms", A.NAtoms()), A.Path)
	}
	a := A.coords.Vec(0)
	b := A.coords.Vec(1)
	return norm3(sub3(a, b)), nil
}

// Distances returns the matrix of minimum-image distances between all the atoms.
func (A *Atoms) Distances() *mat.SymDense {
	return DistanceMatrix(A.cell, A.coords)
}

// NearestNeighborDistance returns the shortest non-zero minimum-image distance
// between two atoms. The value is computed once and cached.
func (A *Atoms) NearestNeighborDistance() (float64, error) {
	if A.hasNNDist {
		return A.nnDist, nil
	}
	d := A.Distances()
	n := A.NAtoms()
	min := math.Inf(1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := d.At(i, j)
			if v != 0 && v < min {
				min = v
			}
		}
	}
	if math.IsInf(min, 1) {
		return 0, NewError(ErrNoNeighbors, "", A.Path)
	}
	A.nnDist = min
	A.hasNNDist = true
	return min, nil
}

// UniqueSymbols returns the different species in the record, sorted.
func (A *Atoms) UniqueSymbols() []string {
	c := A.SpeciesCounts()
	ret := make([]string, 0, len(c))
	for k := range c {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// SpeciesCounts returns the number of atoms of each species.
func (A *Atoms) SpeciesCounts() map[string]int {
	ret := make(map[string]int)
	for _, v := range A.symbols {
		ret[v]++
	}
	return ret
}

// Formula returns a compact formula with the species in order of appearance, e.g. "Si8O16".
func (A *Atoms) Formula() string {
	counts := A.SpeciesCounts()
	var b strings.Builder
	seen := make(map[string]bool)
	for _, v := range A.symbols {
		if seen[v] {
			continue
		}
		seen[v] = true
		b.WriteString(v)
		if counts[v] > 1 {
			b.WriteString(strconv.Itoa(counts[v]))
		}
	}
	return b.String()
}

// Copy returns a deep copy of the record, without the cached values.
func (A *Atoms) Copy() *Atoms {
	ret := &Atoms{
		cell:             A.cell.Clone(),
		coords:           A.coords.Clone(),
		energy:           A.energy,
		hasEnergy:        A.hasEnergy,
		magnetization:    A.magnetization,
		hasMagnetization: A.hasMagnetization,
		StructureID:      A.StructureID,
		Path:             A.Path,
		Frame:            A.Frame,
		Info:             make(map[string]string, len(A.Info)),
	}
	if A.forces != nil {
		ret.forces = A.forces.Clone()
	}
	if A.symbols != nil {
		ret.symbols = append([]string(nil), A.symbols...)
	}
	for k, v := range A.Info {
		ret.Info[k] = v
	}
	return ret
}

// Corrupted checks that the record is self-consistent, returning an error if it isn't.
func (A *Atoms) Corrupted() error {
	n := A.NAtoms()
	if r, c := A.cell.Dims(); r != 3 || c != 3 {
		return NewError(ErrInconsistent, "cell is not 3x3", A.Path)
	}
	if A.forces != nil && A.forces.NVecs() != n {
		return NewError(ErrInconsistent, fmt.Sprintf("inconsistent forces/atoms: atoms %d, forces %d", n, A.forces.NVecs()), A.Path)
	}
	if A.symbols != nil && len(A.symbols) != n {
		return NewError(ErrInconsistent, fmt.Sprintf("inconsistent symbols/atoms: atoms %d, symbols %d", n, len(A.symbols)), A.Path)
	}
	return nil
}

func (A *Atoms) String() string {
	e := "none"
	if A.hasEnergy {
		e = strconv.FormatFloat(A.energy, 'f', 6, 64)
	}
	return fmt.Sprintf("Atoms(%s, id=%q, natoms=%d, energy=%s, volume=%.3f)", A.Formula(), A.StructureID, A.NAtoms(), e, A.Volume())
}

var formulaPart = regexp.MustCompile(`([A-Z][a-z]?)(\d*)`)

// ExpandSymbols returns one symbol per atom for n atoms. symbols can be
// empty (nil is returned), have exactly n elements, or be a single formula
// ("Si8", "SiO2") or species ("Si") that is expanded to n atoms.
func ExpandSymbols(symbols []string, n int) ([]string, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	if len(symbols) == n && (n != 1 || !strings.ContainsAny(symbols[0], "0123456789")) {
		return append([]string(nil), symbols...), nil
	}
	if len(symbols) != 1 {
		return nil, NewError(ErrInconsistent, fmt.Sprintf("%d symbols given for %d atoms", len(symbols), n), "")
	}
	f := symbols[0]
	parts := formulaPart.FindAllStringSubmatch(f, -1)
	if len(parts) == 0 || strings.Join(flattenMatches(parts), "") != f {
		return nil, NewError(ErrUnknownSpecies, fmt.Sprintf("can't interpret %q as a formula", f), "")
	}
	ret := make([]string, 0, n)
	for _, v := range parts {
		if _, err := AtomicNumber(v[1]); err != nil {
			return nil, errDecorate(err, "ExpandSymbols")
		}
		c := 1
		if v[2] != "" {
			c, _ = strconv.Atoi(v[2])
		}
		for i := 0; i < c; i++ {
			ret = append(ret, v[1])
		}
	}
	if len(ret) == 1 && n > 1 {
		for len(ret) < n {
			ret = append(ret, ret[0])
		}
	}
	if len(ret) != n {
		return nil, NewError(ErrInconsistent, fmt.Sprintf("formula %q has %d atoms, the structure has %d", f, len(ret), n), "")
	}
	return ret, nil
}

func flattenMatches(m [][]string) []string {
	ret := make([]string, len(m))
	for i, v := range m {
		ret[i] = v[0]
	}
	return ret
}
