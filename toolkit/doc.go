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

// Package toolkit is a small in-memory atomistic toolkit. A Molecule holds
// a list of atoms and one or more frames (coordinates, cell and, optionally,
// the energy and forces of a calculation). Molecules are read from and
// written to extended xyz files, and can be turned into mlp.Atoms records
// with mlp.FromToolkit or Molecule.Records.
//
// The package also builds new structures for training sets: rattled,
// scaled, repeated or cut out of a larger one.
package toolkit
