/*
 * interfaces.go, part of gomlp.
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
	"strings"

	v3 "github.com/gomlp/gomlp/v3"
)

// Parser is implemented by every format reader that produces one structure.
// Optional fields that the source does not carry are reported with an
// error wrapping ErrAbsent.
type Parser interface {
	Cell() (*v3.Matrix, error)

	Coords() (*v3.Matrix, error)

	//Energy in eV
	Energy() (float64, error)

	//Forces in eV/A
	Forces() (*v3.Matrix, error)

	NAtoms() (int, error)

	StructureID() (string, error)

	TotalMagnetization() (float64, error)

	Symbols() ([]string, error)
}

// Structure is the capability set an in-memory atomistic object must
// offer to be converted into an Atoms record.
type Structure interface {
	//Lattice vectors as the rows of a 3x3 matrix
	Cell() *v3.Matrix

	//Cartesian positions, Nx3
	Positions() *v3.Matrix

	ChemicalSymbols() []string
}

// Calculated is an optional capability for Structures that carry the results
// of a calculation.
type Calculated interface {
	//The second value is false if no calculation results are attached.
	PotentialEnergy() (float64, bool)

	//nil if no calculation results are attached.
	CalculatedForces() *v3.Matrix
}

// Format is a tag for the external formats gomlp can read.
type Format int

const (
	FormatUnknown  Format = iota
	FormatEspresso        //Quantum ESPRESSO pw.x input/output directory
	FormatToolkit         //in-memory Structure object
	FormatDeepMD          //DeePMD-kit training set directory
	FormatN2P2            //n2p2 input.data
	FormatXYZ             //extended xyz
)

var formatNames = map[Format]string{
	FormatEspresso: "espresso",
	FormatToolkit:  "toolkit",
	FormatDeepMD:   "deepmd",
	FormatN2P2:     "n2p2",
	FormatXYZ:      "xyz",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return "unknown"
}

// ParseFormat returns the Format with the given name. "espresso-in" and
// "espresso-out" are accepted as aliases of "espresso".
func ParseFormat(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "espresso-in", "espresso-out", "qe", "pwscf":
		return FormatEspresso, nil
	case "ase":
		return FormatToolkit, nil
	case "extxyz":
		return FormatXYZ, nil
	}
	for k, v := range formatNames {
		if v == n {
			return k, nil
		}
	}
	return FormatUnknown, NewError(ErrUnsupportedFormat, fmt.Sprintf("%s is not supported", name), "")
}
