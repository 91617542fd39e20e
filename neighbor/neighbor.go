/*
 * neighbor.go, part of gomlp.
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

// Package neighbor computes nearest-neighbor distances per bond and
// partial radial distribution functions of periodic structures.
package neighbor

import (
	"fmt"
	"math"
	"sort"
	"strings"

	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/logger"
)

// Bond is a pair of chemical species.
type Bond struct {
	First  string `yaml:"first" json:"first"`
	Second string `yaml:"second" json:"second"`
}

// String returns the canonical key of the bond, "Si-O".
func (B Bond) String() string {
	return B.First + "-" + B.Second
}

// ParseBond reads a bond from its key.
func ParseBond(key string) (Bond, error) {
	f := strings.Split(key, "-")
	if len(f) != 2 || f[0] == "" || f[1] == "" {
		return Bond{}, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("invalid bond %q", key), "")
	}
	return Bond{First: f[0], Second: f[1]}, nil
}

// PossibleBonds returns all the pairs, with replacement, of the different
// species in symbols. The species are sorted, and so are the bonds.
func PossibleBonds(symbols []string) []Bond {
	set := make(map[string]bool)
	for _, v := range symbols {
		set[v] = true
	}
	unique := make([]string, 0, len(set))
	for k := range set {
		unique = append(unique, k)
	}
	sort.Strings(unique)
	var ret []Bond
	for i, a := range unique {
		for _, b := range unique[i:] {
			ret = append(ret, Bond{First: a, Second: b})
		}
	}
	return ret
}

// NearestNeighbor returns the shortest minimum-image distance between an atom of
// the first species of the bond and a different atom of the second one.
// If there is no such pair, an mlp.ErrNoNeighbors error is returned.
func NearestNeighbor(A *mlp.Atoms, bond Bond) (float64, error) {
	if A.Symbols() == nil {
		return 0, mlp.NewError(mlp.ErrMissingSymbols, "nearest neighbors need chemical symbols", A.Path)
	}
	return nearest(A, A.Distances(), bond)
}

type distancer interface {
	At(i, j int) float64
}

func nearest(A *mlp.Atoms, d distancer, bond Bond) (float64, error) {
	s := A.Symbols()
	min := math.Inf(1)
	for i := range s {
		if s[i] != bond.First {
			continue
		}
		for j := range s {
			if j == i || s[j] != bond.Second {
				continue
			}
			if v := d.At(i, j); v < min {
				min = v
			}
		}
	}
	if math.IsInf(min, 1) {
		return 0, mlp.NewError(mlp.ErrNoNeighbors, "no pair of atoms for bond "+bond.String(), A.Path)
	}
	return min, nil
}

// Table maps bond keys to nearest-neighbor distances.
type Table map[string]float64

// Bonds returns the keys of the table, sorted.
func (T Table) Bonds() []string {
	ret := make([]string, 0, len(T))
	for k := range T {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// NearestNeighbors returns the nearest-neighbor distance for each possible bond
// in A. The distance matrix is computed once. Bonds without pairs of atoms,
// such as Si-Si in a structure with one Si, are left out of the table.
func NearestNeighbors(A *mlp.Atoms) (Table, error) {
	if A.Symbols() == nil {
		return nil, mlp.NewError(mlp.ErrMissingSymbols, "nearest neighbors need chemical symbols", A.Path)
	}
	d := A.Distances()
	ret := make(Table)
	for _, b := range PossibleBonds(A.Symbols()) {
		v, err := nearest(A, d, b)
		if err != nil {
			logger.Logger.Debugw("bond without neighbors", "bond", b.String(), "path", A.Path)
			continue
		}
		ret[b.String()] = v
		logger.Logger.Debugw("nearest neighbor", "bond", b.String(), "distance", v)
	}
	if len(ret) == 0 {
		return nil, mlp.NewError(mlp.ErrNoNeighbors, "", A.Path)
	}
	return ret, nil
}
