/*
 * data.go, part of gomlp.
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

package n2p2

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	mlp "github.com/gomlp/gomlp"
	v3 "github.com/gomlp/gomlp/v3"
)

// Options for writing input.data blocks.
type Options struct {
	comment bool
	species string
}

// DefaultOptions returns options that write the comment line and use Si for
// records without chemical symbols.
func DefaultOptions() *Options {
	return &Options{comment: true, species: "Si"}
}

// Comment returns whether the comment line is written, and sets it if a value is given.
func (O *Options) Comment(c ...bool) bool {
	ret := O.comment
	if len(c) > 0 {
		O.comment = c[0]
	}
	return ret
}

// Species returns the species used for atoms without a symbol, and sets it
// if a non-empty one is given.
func (O *Options) Species(s ...string) string {
	ret := O.species
	if len(s) > 0 && s[0] != "" {
		O.species = s[0]
	}
	return ret
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Block returns the input.data lines for A, from "begin" to "end".
// Records without energy get 0.0, records without forces get zero forces.
func Block(A *mlp.Atoms, options ...*Options) []string {
	O := DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		O = options[0]
	}
	n := A.NAtoms()
	ret := make([]string, 0, n+8)
	ret = append(ret, "begin")
	if O.comment {
		id := A.StructureID
		if id == "" {
			id = A.Path
		}
		ret = append(ret, fmt.Sprintf("comment %s .", id))
	}
	cell := A.Cell()
	for i := 0; i < 3; i++ {
		v := cell.Vec(i)
		ret = append(ret, fmt.Sprintf("lattice %s %s %s", ftoa(v[0]), ftoa(v[1]), ftoa(v[2])))
	}
	forces := A.Forces()
	if forces == nil {
		forces = v3.Zeros(n)
	}
	coords := A.Coords()
	for i := 0; i < n; i++ {
		c := coords.Vec(i)
		f := forces.Vec(i)
		s := A.Symbol(i)
		if s == "" {
			s = O.species
		}
		ret = append(ret, fmt.Sprintf("atom %s %s %s %s 0.0 0.0 %s %s %s", ftoa(c[0]), ftoa(c[1]), ftoa(c[2]), s, ftoa(f[0]), ftoa(f[1]), ftoa(f[2])))
	}
	e, _ := A.Energy()
	ret = append(ret, "energy "+ftoa(e), "charge 0.0", "end")
	return ret
}

// WriteData writes one block per record to w.
func WriteData(w io.Writer, atoms []*mlp.Atoms, options ...*Options) error {
	bw := bufio.NewWriter(w)
	for i, A := range atoms {
		for _, l := range Block(A, options...) {
			if _, err := bw.WriteString(l + "\n"); err != nil {
				return errors.Wrapf(err, "writing structure %d", i)
			}
		}
	}
	return bw.Flush()
}

// WriteDataFile writes atoms to the input.data file at path, creating its directory.
func WriteDataFile(path string, atoms []*mlp.Atoms, options ...*Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := WriteData(f, atoms, options...); err != nil {
		f.Close()
		return mlp.Decorate(err, "WriteDataFile")
	}
	return f.Close()
}

// ReadDataFile reads all the structures in the input.data file at path.
func ReadDataFile(path string) ([]*mlp.Atoms, error) {
	L, err := mlp.ReadLines(path)
	if err != nil {
		return nil, mlp.Decorate(err, "ReadDataFile")
	}
	ret, err := ParseData(L)
	if err != nil {
		return nil, mlp.Decorate(err, "ReadDataFile")
	}
	for _, A := range ret {
		A.Path = path
	}
	return ret, nil
}

// ReadData reads all the structures in r, in input.data format.
func ReadData(r io.Reader) ([]*mlp.Atoms, error) {
	L, err := mlp.NewLines("input.data", r)
	if err != nil {
		return nil, mlp.Decorate(err, "ReadData")
	}
	return ParseData(L)
}

// block collects the lines of one structure.
type block struct {
	comment string
	lattice []float64
	coords  []float64
	forces  []float64
	symbols []string
	energy  float64
	hasE    bool
	start   int
}

// ParseData builds one record per begin/end block of L. Each record gets its
// position in the file as Frame, and the whole comment line, minus the
// trailing ".", as StructureID. A block without "end" gives an
// mlp.ErrMarkerNotFound error.
func ParseData(L *mlp.Lines) ([]*mlp.Atoms, error) {
	var ret []*mlp.Atoms
	var b *block
	for i, l := range L.All() {
		f := strings.Fields(l)
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "begin":
			if b != nil {
				return nil, mlp.NewError(mlp.ErrMarkerNotFound, fmt.Sprintf("marker \"end\" not found for the block starting at line %d", b.start+1), L.Name)
			}
			b = &block{start: i}
			continue
		case "end":
			if b == nil {
				return nil, mlp.NewError(mlp.ErrMarkerNotFound, fmt.Sprintf("marker \"begin\" not found before line %d", i+1), L.Name)
			}
			A, err := b.atoms()
			if err != nil {
				return nil, mlp.Decorate(err, fmt.Sprintf("ParseData: block at line %d", b.start+1))
			}
			A.Frame = len(ret)
			ret = append(ret, A)
			b = nil
			continue
		}
		if b == nil {
			continue
		}
		var err error
		switch f[0] {
		case "comment":
			b.comment = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(l, "comment")), "."))
		case "lattice":
			err = b.add(&b.lattice, f[1:], 3)
		case "atom":
			if len(f) < 10 {
				err = mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("short atom line %q", l), "")
				break
			}
			b.symbols = append(b.symbols, f[4])
			if err = b.add(&b.coords, f[1:4], 3); err == nil {
				err = b.add(&b.forces, f[7:10], 3)
			}
		case "energy":
			if len(f) < 2 {
				err = mlp.NewError(mlp.ErrBadValue, "energy line without value", "")
				break
			}
			b.energy, err = mlp.ParseFloat(f[1])
			b.hasE = err == nil
		}
		if err != nil {
			if e, ok := err.(*mlp.Error); ok && e.FileName() == "" {
				return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("line %d: %s", i+1, e.Error()), L.Name)
			}
			return nil, mlp.Decorate(err, "ParseData")
		}
	}
	if b != nil {
		return nil, mlp.NewError(mlp.ErrMarkerNotFound, fmt.Sprintf("marker \"end\" not found for the block starting at line %d", b.start+1), L.Name)
	}
	return ret, nil
}

func (b *block) add(dst *[]float64, fields []string, n int) error {
	if len(fields) < n {
		return mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("expected %d values, got %d", n, len(fields)), "")
	}
	v, err := mlp.ParseFloats(fields[:n])
	if err != nil {
		return err
	}
	*dst = append(*dst, v...)
	return nil
}

func (b *block) atoms() (*mlp.Atoms, error) {
	if len(b.coords) == 0 {
		return nil, mlp.NewError(mlp.ErrMarkerNotFound, "marker \"atom\" not found", "")
	}
	var cell *v3.Matrix
	var err error
	switch len(b.lattice) {
	case 0:
		cell = v3.Zeros(3)
	case 9:
		if cell, err = v3.NewMatrix(b.lattice); err != nil {
			return nil, err
		}
	default:
		return nil, mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("%d lattice lines, expected 3", len(b.lattice)/3), "")
	}
	coords, err := v3.NewMatrix(b.coords)
	if err != nil {
		return nil, err
	}
	A, err := mlp.NewAtoms(cell, coords, b.symbols...)
	if err != nil {
		return nil, err
	}
	forces, err := v3.NewMatrix(b.forces)
	if err != nil {
		return nil, err
	}
	if err := A.SetForces(forces); err != nil {
		return nil, err
	}
	if b.hasE {
		A.SetEnergy(b.energy)
	}
	if b.comment != "" {
		A.StructureID = b.comment
		A.Info["comment"] = b.comment
	}
	return A, nil
}
