/*
 * conversion.go, part of gomlp.
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

//This provides useful conversion factors and other constants

//Conversions
const (
	Ry2EV   = 13.605703976 //Rydberg to eV
	EV2Ry   = 1 / Ry2EV
	Bohr2A  = 0.529177211 //Bohr to Angstrom
	A2Bohr  = 1 / Bohr2A
	Deg2Rad = 0.0174533
	Rad2Deg = 1 / 0.0174533

	//RyBohr2EVA converts forces from Ry/Bohr to eV/A
	RyBohr2EVA = Ry2EV / Bohr2A

	//A3ToCm3 converts a number density in 1/A^3 to 1/cm^3
	A3ToCm3 = 1e24
)

//Isolated atom reference energies, in eV.
const (
	ZeroPointEnergySiEspresso = -630.972
	ZeroPointEnergyOEspresso  = -41.27490801 * Ry2EV
	ZeroPointEnergySiGaussian = -7870.196848
	ZeroPointEnergyOGaussian  = -2040.800339
)
