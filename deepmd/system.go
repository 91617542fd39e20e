/*
 * system.go, part of gomlp.
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

package deepmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/logger"
	v3 "github.com/gomlp/gomlp/v3"
)

// Arrays of a DeePMD system. Each has one row per frame.
const (
	Box    = "box"
	Coord  = "coord"
	Force  = "force"
	Energy = "energy"
)

// System is a DeePMD training system: a directory with type.raw and
// type_map.raw, and the frames either in set.* directories (.npy files) or
// directly in the directory (.raw files).
type System struct {
	Dir     string
	Types   []int
	TypeMap []string
}

// OpenSystem reads the atom types of the system in dir. Both type files are optional.
func OpenSystem(dir string) (*System, error) {
	if err := mlp.Exists(dir); err != nil {
		return nil, mlp.Decorate(err, "OpenSystem")
	}
	S := &System{Dir: dir}
	if L, err := mlp.ReadLines(filepath.Join(dir, "type.raw")); err == nil {
		for _, l := range L.All() {
			for _, v := range strings.Fields(l) {
				t, err := strconv.Atoi(v)
				if err != nil {
					return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("bad atom type %q", v), L.Name)
				}
				S.Types = append(S.Types, t)
			}
		}
	}
	if L, err := mlp.ReadLines(filepath.Join(dir, "type_map.raw")); err == nil {
		for _, l := range L.All() {
			S.TypeMap = append(S.TypeMap, strings.Fields(l)...)
		}
	}
	return S, nil
}

// Symbols returns one chemical symbol per atom, or nil if the system has no
// type.raw or no type_map.raw.
func (S *System) Symbols() ([]string, error) {
	if S.Types == nil || S.TypeMap == nil {
		return nil, nil
	}
	ret := make([]string, len(S.Types))
	for i, t := range S.Types {
		if t < 0 || t >= len(S.TypeMap) {
			return nil, mlp.NewError(mlp.ErrUnknownSpecies, fmt.Sprintf("atom type %d not in type_map.raw", t), S.Dir)
		}
		ret[i] = S.TypeMap[t]
	}
	return ret, nil
}

// Sets returns the set.* directories of the system, sorted. A system with the
// frames in .raw files has none.
func (S *System) Sets() []string {
	sets, _ := filepath.Glob(filepath.Join(S.Dir, "set.*"))
	ret := sets[:0]
	for _, v := range sets {
		if fi, err := os.Stat(v); err == nil && fi.IsDir() {
			ret = append(ret, v)
		}
	}
	sort.Strings(ret)
	return ret
}

// array reads one array from a set directory (.npy) or, if set is empty,
// from the .raw file in the system directory. It returns the data and the
// number of frames.
func (S *System) array(set, name string) ([]float64, int, error) {
	if set != "" {
		data, shape, err := ReadNpy(filepath.Join(set, name+".npy"))
		if err != nil {
			return nil, 0, err
		}
		frames := 1
		if len(shape) > 0 {
			frames = shape[0]
		}
		return data, frames, nil
	}
	L, err := mlp.ReadLines(filepath.Join(S.Dir, name+".raw"))
	if err != nil {
		return nil, 0, err
	}
	var data []float64
	frames := 0
	for _, l := range L.All() {
		if l == "" {
			continue
		}
		v, err := mlp.ParseFloats(strings.Fields(l))
		if err != nil {
			return nil, 0, mlp.Decorate(err, L.Name)
		}
		data = append(data, v...)
		frames++
	}
	return data, frames, nil
}

// Read returns one record per frame of the system. Frames are numbered
// across sets. Systems without box get a zero cell, systems without forces
// give records without forces.
func (S *System) Read() ([]*mlp.Atoms, error) {
	symbols, err := S.Symbols()
	if err != nil {
		return nil, mlp.Decorate(err, "System.Read")
	}
	sets := S.Sets()
	if len(sets) == 0 {
		sets = []string{""}
	}
	var ret []*mlp.Atoms
	for _, set := range sets {
		atoms, err := S.readSet(set, symbols, len(ret))
		if err != nil {
			return nil, mlp.Decorate(err, "System.Read")
		}
		ret = append(ret, atoms...)
	}
	logger.Logger.Debugw("read deepmd system", "dir", S.Dir, "sets", len(sets), "frames", len(ret))
	return ret, nil
}

func (S *System) readSet(set string, symbols []string, first int) ([]*mlp.Atoms, error) {
	energy, frames, err := S.array(set, Energy)
	if err != nil {
		return nil, err
	}
	coord, cframes, err := S.array(set, Coord)
	if err != nil {
		return nil, err
	}
	if frames == 0 || cframes != frames {
		return nil, mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("%d energies and %d coordinate frames", frames, cframes), S.path(set, Coord))
	}
	nat := len(S.Types)
	if nat == 0 {
		nat = len(coord) / frames / 3
	}
	if nat == 0 || len(coord) != frames*nat*3 {
		return nil, mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("%d coordinates for %d frames of %d atoms", len(coord), frames, nat), S.path(set, Coord))
	}
	box, _, err := S.array(set, Box)
	switch {
	case mlp.Exists(S.path(set, Box)) != nil:
		box = nil
	case err != nil:
		return nil, err
	case len(box) != frames*9:
		return nil, mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("%d box values for %d frames", len(box), frames), S.path(set, Box))
	}
	force, _, err := S.array(set, Force)
	switch {
	case mlp.Exists(S.path(set, Force)) != nil:
		force = nil
	case err != nil:
		return nil, err
	case len(force) != len(coord):
		return nil, mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("%d forces for %d coordinates", len(force), len(coord)), S.path(set, Force))
	}
	ret := make([]*mlp.Atoms, frames)
	for i := 0; i < frames; i++ {
		cell := v3.Zeros(3)
		if box != nil {
			if cell, err = v3.NewMatrix(append([]float64(nil), box[9*i:9*i+9]...)); err != nil {
				return nil, err
			}
		}
		c, err := v3.NewMatrix(append([]float64(nil), coord[3*nat*i:3*nat*(i+1)]...))
		if err != nil {
			return nil, err
		}
		A, err := mlp.NewAtoms(cell, c, symbols...)
		if err != nil {
			return nil, err
		}
		A.SetEnergy(energy[i])
		if force != nil {
			f, err := v3.NewMatrix(append([]float64(nil), force[3*nat*i:3*nat*(i+1)]...))
			if err != nil {
				return nil, err
			}
			if err := A.SetForces(f); err != nil {
				return nil, err
			}
		}
		A.StructureID = filepath.Base(filepath.Clean(S.Dir))
		A.Path = S.Dir
		A.Frame = first + i
		if set != "" {
			A.Info["set"] = filepath.Base(set)
		}
		ret[i] = A
	}
	return ret, nil
}

func (S *System) path(set, name string) string {
	if set != "" {
		return filepath.Join(set, name+".npy")
	}
	return filepath.Join(S.Dir, name+".raw")
}

// ReadSystem reads all the frames of the DeePMD system in dir.
func ReadSystem(dir string) ([]*mlp.Atoms, error) {
	S, err := OpenSystem(dir)
	if err != nil {
		return nil, mlp.Decorate(err, "ReadSystem")
	}
	return S.Read()
}

// WriteSystem writes atoms as a DeePMD system in dir, in one set.000 directory
// of .npy files, or as .raw files if raw is true. All the records must have the
// same atoms in the same order, and an energy. Records without forces get zero forces.
func WriteSystem(dir string, atoms []*mlp.Atoms, raw bool) error {
	if len(atoms) == 0 {
		return mlp.NewError(mlp.ErrInconsistent, "no structures to write", dir)
	}
	first := atoms[0]
	symbols := first.Symbols()
	if symbols == nil {
		return mlp.NewError(mlp.ErrMissingSymbols, "the first structure has no chemical symbols", dir)
	}
	typeMap := first.UniqueSymbols()
	index := make(map[string]int, len(typeMap))
	for i, v := range typeMap {
		index[v] = i
	}
	types := make([]string, len(symbols))
	for i, v := range symbols {
		types[i] = strconv.Itoa(index[v])
	}
	nat := first.NAtoms()
	var box, coord, force, energy []float64
	for i, A := range atoms {
		if A.NAtoms() != nat || strings.Join(A.Symbols(), " ") != strings.Join(symbols, " ") {
			return mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("structure %d has different atoms than the first one", i), dir)
		}
		e, ok := A.Energy()
		if !ok {
			return mlp.NewError(mlp.ErrAbsent, fmt.Sprintf("structure %d has no energy", i), dir)
		}
		energy = append(energy, e)
		box = append(box, A.Cell().Data()...)
		coord = append(coord, A.Coords().Data()...)
		f := A.Forces()
		if f == nil {
			f = v3.Zeros(nat)
		}
		force = append(force, f.Data()...)
	}
	if err := mlp.WriteLines(filepath.Join(dir, "type.raw"), types); err != nil {
		return mlp.Decorate(err, "WriteSystem")
	}
	if err := mlp.WriteLines(filepath.Join(dir, "type_map.raw"), typeMap); err != nil {
		return mlp.Decorate(err, "WriteSystem")
	}
	frames := len(atoms)
	arrays := []struct {
		name string
		data []float64
		cols int
	}{{Box, box, 9}, {Coord, coord, 3 * nat}, {Force, force, 3 * nat}, {Energy, energy, 1}}
	for _, a := range arrays {
		var err error
		if raw {
			err = writeRaw(filepath.Join(dir, a.name+".raw"), a.data, a.cols)
		} else if a.cols == 1 {
			err = WriteNpy(filepath.Join(dir, "set.000", a.name+".npy"), a.data, frames)
		} else {
			err = WriteNpy(filepath.Join(dir, "set.000", a.name+".npy"), a.data, frames, a.cols)
		}
		if err != nil {
			return mlp.Decorate(err, "WriteSystem")
		}
	}
	return nil
}

func writeRaw(path string, data []float64, cols int) error {
	lines := make([]string, 0, len(data)/cols)
	for i := 0; i < len(data); i += cols {
		f := make([]string, cols)
		for j, v := range data[i : i+cols] {
			f[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		lines = append(lines, strings.Join(f, " "))
	}
	return mlp.WriteLines(path, lines)
}
