/*
 * xyz.go, part of gomlp.
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

package toolkit

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	mlp "github.com/gomlp/gomlp"
	v3 "github.com/gomlp/gomlp/v3"
)

const defaultProperties = "species:S:1:pos:R:3"

// column is one entry of the Properties key of an extended xyz comment line.
type column struct {
	name  string
	kind  string
	n     int
	start int
}

// ReadXYZ reads all the frames in an (extended) xyz file. Plain xyz files
// give frames with a zero cell. The lattice, energy and forces are taken from
// the Lattice and energy keys, and the forces property, when present. Other keys
// are kept in the Info map of the frame.
// Files ending in .gz or .zst are decompressed.
func ReadXYZ(path string) (*Molecule, error) {
	L, err := mlp.ReadLines(path)
	if err != nil {
		return nil, mlp.Decorate(err, "ReadXYZ")
	}
	M, err := ParseXYZ(L)
	return M, mlp.Decorate(err, "ReadXYZ")
}

// ParseXYZ reads the frames in L. All frames must have the same atoms.
func ParseXYZ(L *mlp.Lines) (*Molecule, error) {
	var M *Molecule
	for i := 0; i < L.Len(); {
		if L.Line(i) == "" {
			i++
			continue
		}
		natoms, err := strconv.Atoi(L.Line(i))
		if err != nil || natoms <= 0 {
			return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("line %d: expected the number of atoms, got %q", i+1, L.Line(i)), L.Name)
		}
		if i+1+natoms >= L.Len() {
			return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("frame at line %d is truncated", i+1), L.Name)
		}
		keys := parseKeyValues(L.Line(i + 1))
		block, _ := L.Block(i+2, natoms)
		atoms, F, err := xyzFrame(block, keys)
		if err != nil {
			return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("frame at line %d: %s", i+1, err.Error()), L.Name)
		}
		if M == nil {
			M = &Molecule{Topology: &Topology{Atoms: atoms}}
		} else if !sameSymbols(M.Atoms, atoms) {
			return nil, mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("frame at line %d has different atoms", i+1), L.Name)
		}
		if err := M.AddFrame(F); err != nil {
			return nil, mlp.Decorate(err, "ParseXYZ")
		}
		i += 2 + natoms
	}
	if M == nil {
		return nil, mlp.NewError(mlp.ErrBadValue, "no frames found", L.Name)
	}
	return M, nil
}

func sameSymbols(a, b []*Atom) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Symbol != b[i].Symbol {
			return false
		}
	}
	return true
}

func xyzFrame(block []string, keys map[string]string) ([]*Atom, *Frame, error) {
	props := keys["Properties"]
	if props == "" {
		props = defaultProperties
	}
	cols, err := parseProperties(props)
	if err != nil {
		return nil, nil, err
	}
	species, ok1 := cols["species"]
	pos, ok2 := cols["pos"]
	if !ok1 || !ok2 {
		return nil, nil, errors.Newf("properties %q lack species or pos", props)
	}
	forces, hasForces := cols["forces"]
	if !hasForces {
		forces, hasForces = cols["force"]
	}
	n := len(block)
	atoms := make([]*Atom, n)
	coords := make([]float64, 0, 3*n)
	var fdata []float64
	for i, l := range block {
		f := strings.Fields(l)
		if len(f) < pos.start+3 || len(f) <= species.start {
			return nil, nil, errors.Newf("atom line %q has too few fields", l)
		}
		atoms[i] = NewAtom(f[species.start])
		c, err := mlp.ParseFloats(f[pos.start : pos.start+3])
		if err != nil {
			return nil, nil, err
		}
		coords = append(coords, c...)
		if hasForces {
			if len(f) < forces.start+3 {
				return nil, nil, errors.Newf("atom line %q has no forces", l)
			}
			v, err := mlp.ParseFloats(f[forces.start : forces.start+3])
			if err != nil {
				return nil, nil, err
			}
			fdata = append(fdata, v...)
		}
	}
	F := &Frame{Info: make(map[string]string)}
	if F.Coords, err = v3.NewMatrix(coords); err != nil {
		return nil, nil, err
	}
	if hasForces {
		if F.Forces, err = v3.NewMatrix(fdata); err != nil {
			return nil, nil, err
		}
	}
	for k, v := range keys {
		switch strings.ToLower(k) {
		case "lattice":
			c, err := mlp.ParseFloats(strings.Fields(v))
			if err != nil || len(c) != 9 {
				return nil, nil, errors.Newf("malformed Lattice %q", v)
			}
			F.Cell, _ = v3.NewMatrix(c)
		case "energy":
			if F.Energy, err = mlp.ParseFloat(v); err != nil {
				return nil, nil, err
			}
			F.HasEnergy = true
		case "properties":
		default:
			F.Info[k] = v
		}
	}
	return atoms, F, nil
}

// parseProperties turns "species:S:1:pos:R:3" into columns indexed by name.
func parseProperties(props string) (map[string]column, error) {
	f := strings.Split(props, ":")
	if len(f)%3 != 0 {
		return nil, errors.Newf("malformed Properties %q", props)
	}
	ret := make(map[string]column, len(f)/3)
	start := 0
	for i := 0; i < len(f); i += 3 {
		n, err := strconv.Atoi(f[i+2])
		if err != nil || n <= 0 {
			return nil, errors.Newf("malformed Properties %q", props)
		}
		ret[f[i]] = column{name: f[i], kind: f[i+1], n: n, start: start}
		start += n
	}
	return ret, nil
}

// parseKeyValues parses the key=value pairs of an extended xyz comment line.
// Values can be quoted with double quotes. Keys without a value get "T".
func parseKeyValues(l string) map[string]string {
	ret := make(map[string]string)
	for len(l) > 0 {
		l = strings.TrimLeft(l, " \t")
		if l == "" {
			break
		}
		end := strings.IndexAny(l, "= \t")
		if end < 0 {
			ret[l] = "T"
			break
		}
		key := l[:end]
		if l[end] != '=' {
			ret[key] = "T"
			l = l[end:]
			continue
		}
		l = l[end+1:]
		var val string
		if strings.HasPrefix(l, `"`) {
			closing := strings.Index(l[1:], `"`)
			if closing < 0 {
				val, l = l[1:], ""
			} else {
				val, l = l[1:closing+1], l[closing+2:]
			}
		} else {
			sp := strings.IndexAny(l, " \t")
			if sp < 0 {
				val, l = l, ""
			} else {
				val, l = l[:sp], l[sp:]
			}
		}
		if key != "" {
			ret[key] = val
		}
	}
	return ret
}

// WriteXYZ writes all the frames of M to an extended xyz file with name xyzname,
// which will be created for that. If the file exists it will be overwritten.
func WriteXYZ(M *Molecule, xyzname string) error {
	if err := M.Corrupted(); err != nil {
		return mlp.Decorate(err, "WriteXYZ")
	}
	if err := os.MkdirAll(filepath.Dir(xyzname), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", xyzname)
	}
	out, err := os.Create(xyzname)
	if err != nil {
		return errors.Wrapf(err, "creating %s", xyzname)
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	for i := range M.Frames {
		if err := writeXYZFrame(w, M, i); err != nil {
			return errors.Wrapf(err, "writing %s", xyzname)
		}
	}
	return w.Flush()
}

func writeXYZFrame(w *bufio.Writer, M *Molecule, frame int) error {
	F := M.Frames[frame]
	fmt.Fprintf(w, "%d\n", M.Len())
	props := defaultProperties
	if F.Forces != nil {
		props += ":forces:R:3"
	}
	comment := make([]string, 0, 4+len(F.Info))
	if !F.Cell.IsZero() {
		c := F.Cell.Data()
		l := make([]string, 9)
		for i, v := range c {
			l[i] = strconv.FormatFloat(v, 'f', 8, 64)
		}
		comment = append(comment, fmt.Sprintf("Lattice=\"%s\"", strings.Join(l, " ")), `pbc="T T T"`)
	}
	comment = append(comment, "Properties="+props)
	if F.HasEnergy {
		comment = append(comment, "energy="+strconv.FormatFloat(F.Energy, 'f', -1, 64))
	}
	keys := make([]string, 0, len(F.Info))
	for k := range F.Info {
		if k != "pbc" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := F.Info[k]
		if strings.ContainsAny(v, " \t") || v == "" {
			v = `"` + v + `"`
		}
		comment = append(comment, k+"="+v)
	}
	fmt.Fprintln(w, strings.Join(comment, " "))
	for i, at := range M.Atoms {
		c := F.Coords.Vec(i)
		fmt.Fprintf(w, "%-2s  %14.8f %14.8f %14.8f", at.Symbol, c[0], c[1], c[2])
		if F.Forces != nil {
			f := F.Forces.Vec(i)
			fmt.Fprintf(w, " %14.8f %14.8f %14.8f", f[0], f[1], f[2])
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
