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

// Package n2p2 reads and writes the files of the n2p2 neural network potential
// package: the input.data training set, the input.nn settings file (symmetry
// functions and normalization factors), the nnp-scaling log, the symmetry
// function dumps (function.data and atomic-env.G), the weights files written
// at each training epoch and the learning-curve files.
package n2p2
