/*
 * dimer.go, part of gomlp.
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

import v3 "github.com/gomlp/gomlp/v3"

//Reference energy of the Si dimer at 6 A, in eV.
const dimerZeroPoint = -1260.14108

//Separations (A), energy offsets below dimerZeroPoint (eV) and force on the first atom (eV/A).
var artificialDimers = []struct {
	r, de, f float64
}{
	{5.0, 0.45, 0.76309001},
	{5.25, 0.27, 0.61191261},
	{5.5, 0.15, 0.38925955},
	{5.8, 0.05, 0.28096285},
	{6.0, 0.0, 0.22061748},
}

// ArtificialDimers returns a set of Si2 dimers, in a 15 A cubic box, with long
// separations and hand-set energies and forces. They are added to training sets
// to keep the fitted potential attractive at the edge of the cutoff.
func ArtificialDimers() []*Atoms {
	ret := make([]*Atoms, 0, len(artificialDimers))
	for _, d := range artificialDimers {
		cell, _ := v3.NewMatrix([]float64{15, 0, 0, 0, 15, 0, 0, 0, 15})
		coords, _ := v3.NewMatrix([]float64{7.5, 7.5, 7.5, 7.5 + d.r, 7.5, 7.5})
		forces, _ := v3.NewMatrix([]float64{d.f, 0, 0, -d.f, 0, 0})
		A, err := NewAtoms(cell, coords, "Si2")
		if err != nil {
			panic(err) //can't happen with the fixed data above
		}
		A.SetEnergy(dimerZeroPoint - d.de)
		A.SetForces(forces)
		A.StructureID = "mp-149_dimer"
		ret = append(ret, A)
	}
	return ret
}
