/*
 * dump.go, part of gomlp.
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

// Package sputter counts the atoms removed from a surface in LAMMPS ion
// irradiation runs, and gives the Yamamura-Tawara estimate of the sputtering
// yield to compare with.
package sputter

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/logger"
)

// TimestepMarker starts every frame of a LAMMPS dump.
const TimestepMarker = "ITEM: TIMESTEP"

// Line positions inside a dump block, counting the marker as 0.
const (
	timestepLine = 1
	countLine    = 3
	atomsLine    = 9
	typeColumn   = 1
)

// BuildTimestepBlocks splits lines at every TimestepMarker. Each block starts
// with its marker and ends right before the next one, so k markers give
// k blocks. The lines before the first marker are returned as the preamble.
// Together, preamble and blocks are the original lines, in order.
func BuildTimestepBlocks(lines []string) (preamble []string, blocks [][]string) {
	var starts []int
	for i, l := range lines {
		if strings.Contains(l, TimestepMarker) {
			starts = append(starts, i)
		}
	}
	if len(starts) == 0 {
		return lines, nil
	}
	preamble = lines[:starts[0]]
	blocks = make([][]string, len(starts))
	for i, s := range starts {
		end := len(lines)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		blocks[i] = lines[s:end]
	}
	return preamble, blocks
}

// Step is the number of sputtered atoms reported at one timestep.
type Step struct {
	Timestep  int
	Sputtered int
}

// ParseBlock reads the timestep and the number of atoms of the given types in
// a dump block. With no types, every atom is counted.
func ParseBlock(block []string, types ...int) (Step, error) {
	if len(block) <= countLine {
		return Step{}, mlp.NewError(mlp.ErrBadValue, "dump block too short", "")
	}
	var S Step
	var err error
	if S.Timestep, err = strconv.Atoi(strings.TrimSpace(block[timestepLine])); err != nil {
		return S, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("bad timestep %q", block[timestepLine]), "")
	}
	n, err := strconv.Atoi(strings.TrimSpace(block[countLine]))
	if err != nil {
		return S, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("bad atom count %q", block[countLine]), "")
	}
	if n <= 0 {
		return S, nil
	}
	if len(block) < atomsLine+n {
		return S, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("timestep %d reports %d atoms but has %d rows", S.Timestep, n, len(block)-atomsLine), "")
	}
	if len(types) == 0 {
		S.Sputtered = n
		return S, nil
	}
	for _, l := range block[atomsLine : atomsLine+n] {
		f := strings.Fields(l)
		if len(f) <= typeColumn {
			return S, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("short atom line %q", l), "")
		}
		t, err := strconv.Atoi(f[typeColumn])
		if err != nil {
			return S, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("bad atom type in line %q", l), "")
		}
		if containsInt(types, t) {
			S.Sputtered++
		}
	}
	return S, nil
}

func containsInt(s []int, v int) bool {
	for _, i := range s {
		if i == v {
			return true
		}
	}
	return false
}

// Calculator reads the dump of the atoms that left the surface during an
// irradiation run.
type Calculator struct {
	path string
}

// NewCalculator returns a Calculator for the dump file name in dir. The file
// must exist.
func NewCalculator(dir, name string) (*Calculator, error) {
	path := filepath.Join(dir, name)
	if err := mlp.Exists(path); err != nil {
		return nil, mlp.Decorate(err, "sputter.NewCalculator")
	}
	return &Calculator{path: path}, nil
}

// Path returns the dump file read by C.
func (C *Calculator) Path() string { return C.path }

// Blocks reads the dump and splits it in timestep blocks.
func (C *Calculator) Blocks() ([][]string, error) {
	L, err := mlp.ReadLines(C.path)
	if err != nil {
		return nil, mlp.Decorate(err, "Calculator.Blocks")
	}
	_, blocks := BuildTimestepBlocks(L.All())
	return blocks, nil
}

// Sputtered returns the number of sputtered atoms of the given types at each
// timestep of the dump.
func (C *Calculator) Sputtered(types ...int) ([]Step, error) {
	blocks, err := C.Blocks()
	if err != nil {
		return nil, mlp.Decorate(err, "Calculator.Sputtered")
	}
	ret := make([]Step, 0, len(blocks))
	for _, b := range blocks {
		S, err := ParseBlock(b, types...)
		if err != nil {
			return nil, mlp.Decorate(mlp.NewError(mlp.ErrBadValue, err.Error(), C.path), "Calculator.Sputtered")
		}
		if S.Sputtered > 0 {
			logger.Logger.Debugw("sputtered atoms", "timestep", S.Timestep, "count", S.Sputtered)
		}
		ret = append(ret, S)
	}
	return ret, nil
}
