/*
 * atomicdata.go, part of gomlp.
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
)

//Element symbols ordered by atomic number, starting with H at index 0.
var elementSymbols = []string{
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm",
	"Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

//Standard atomic masses, in the same order as elementSymbols.
var elementMasses = []float64{
	1.008, 4.003, 6.941, 9.012, 10.811, 12.011, 14.007, 15.999, 18.998, 20.180,
	22.990, 24.305, 26.982, 28.086, 30.974, 32.066, 35.453, 39.948, 39.098, 40.078,
	44.956, 47.867, 50.942, 51.996, 54.938, 55.845, 58.933, 58.693, 63.546, 65.38,
	69.723, 72.631, 74.922, 78.971, 79.904, 83.798, 85.468, 87.62, 88.906, 91.224,
	92.906, 95.95, 98.907, 101.07, 102.906, 106.42, 107.868, 112.414, 114.818, 118.711,
	121.760, 126.7, 126.904, 131.294, 132.905, 137.328, 138.905, 140.116, 140.908, 144.243,
	144.913, 150.36, 151.964, 157.25, 158.925, 162.500, 164.930, 167.259, 168.934, 173.055,
	174.967, 178.49, 180.948, 183.84, 186.207, 190.23, 192.217, 195.085, 196.967, 200.592,
	204.383, 207.2, 208.980, 208.982, 209.987, 222.081, 223.020, 226.025, 227.028, 232.038,
	231.036, 238.029, 237, 244, 243, 247, 247, 251, 252, 257,
	258, 259, 262, 261, 262, 266, 264, 269, 268, 271,
	272, 285, 284, 289, 288, 292, 294, 294,
}

var symbolIndex map[string]int

func init() {
	symbolIndex = make(map[string]int, len(elementSymbols))
	for i, v := range elementSymbols {
		symbolIndex[strings.ToUpper(v)] = i
	}
}

// AtomicNumber returns the atomic number of the element with the given symbol.
// The lookup is case-insensitive.
func AtomicNumber(symbol string) (int, error) {
	i, ok := symbolIndex[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return 0, NewError(ErrUnknownSpecies, fmt.Sprintf("unknown element symbol %q", symbol), "")
	}
	return i + 1, nil
}

// Mass returns the standard atomic mass of the element with the given symbol.
func Mass(symbol string) (float64, error) {
	z, err := AtomicNumber(symbol)
	if err != nil {
		return 0, errDecorate(err, "Mass")
	}
	return elementMasses[z-1], nil
}

// Symbol returns the element symbol for the atomic number z.
func Symbol(z int) (string, error) {
	if z < 1 || z > len(elementSymbols) {
		return "", NewError(ErrUnknownSpecies, fmt.Sprintf("no element with atomic number %d", z), "")
	}
	return elementSymbols[z-1], nil
}
