/*
 * doc.go, part of gomlp.
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

/*
Package mlp is the main package of the gomlp library. It provides the Atoms
structure record shared by all the readers, writers and analyzers used to
build and check machine-learned interatomic potentials, plus element data,
unit conversions, minimum-image geometry and the error kinds used across
the library.

	**gomlp Capabilities**

	Reads Quantum ESPRESSO pw.x calculations (package qe), n2p2 training
	data and descriptor dumps (package n2p2), DeePMD-kit training sets
	(package deepmd) and extended XYZ files (package toolkit).

	Writes n2p2 training blocks and pw.x input decks from templates.

	Computes cohesive energies and elastic constants from LAMMPS runs
	(packages cohesive and elastic), sputtering yields from LAMMPS dumps
	and from the Yamamura-Tawara formula (package sputter), nearest
	neighbor distances and radial distribution functions (package neighbor),
	depth profiles (package depth), pair potentials from dimer calculations
	(package pairpot) and learning curves of n2p2 trainings (package metrics).

	Keeps a catalog of computed structures in SQLite (package catalog) and a
	compressed binary cache of parsed records (package mlpio).

Text files are scanned line by line for marker strings. When a marker can
appear more than once, the reader states which occurrence it uses with a
ScanPolicy.
*/
package mlp
