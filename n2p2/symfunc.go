/*
 * symfunc.go, part of gomlp.
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
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/logger"
	"gonum.org/v1/gonum/mat"
)

// File names used by the symmetry function reader.
const (
	FunctionData = "function.data"
	AtomicEnvG   = "atomic-env.G"
	InputNN      = "input.nn"
	ScalingLog   = "nnp-scaling.log.0000"
	ScalingData  = "scaling.data"
)

// ScalingSection is the header of the per-element symmetry function table
// in the scaling log.
const ScalingSection = "Short range atomic symmetry functions element"

// Layout is the layout of a symmetry function dump.
type Layout int

const (
	// Legacy is the function.data layout: each structure starts with a line
	// holding only its atom count, followed by one "Z g1 g2 ..." row per atom
	// and a closing line that is not an atom.
	Legacy Layout = iota
	// Flat is the atomic-env.G layout: one "Symbol g1 g2 ..." row per atom.
	Flat
)

func (l Layout) String() string {
	if l == Flat {
		return "flat"
	}
	return "legacy"
}

// SFTable holds the symmetry function values of all the atoms of one element.
type SFTable struct {
	Element string
	Columns []string
	Rows    [][]float64
}

// Dense returns the values as a matrix with one row per atom.
func (T *SFTable) Dense() *mat.Dense {
	if len(T.Rows) == 0 {
		return nil
	}
	ret := mat.NewDense(len(T.Rows), len(T.Rows[0]), nil)
	for i, r := range T.Rows {
		ret.SetRow(i, r)
	}
	return ret
}

// SFReader reads the symmetry function values dumped by nnp-scaling, and
// names each value after its definition in input.nn.
type SFReader struct {
	dir      string
	dump     string
	layout   Layout
	settings *Settings
	scaling  *mlp.Lines
}

// NewSFReader checks that dir contains input.nn, the scaling log and a
// dump (function.data, or atomic-env.G for the flat layout) and returns a reader.
func NewSFReader(dir string) (*SFReader, error) {
	R := &SFReader{dir: dir, dump: filepath.Join(dir, FunctionData)}
	if mlp.Exists(R.dump) != nil {
		flat := filepath.Join(dir, AtomicEnvG)
		if mlp.Exists(flat) != nil {
			return nil, mlp.Decorate(mlp.Exists(R.dump), "NewSFReader")
		}
		R.dump, R.layout = flat, Flat
	}
	var err error
	if R.settings, err = ReadSettings(filepath.Join(dir, InputNN)); err != nil {
		return nil, mlp.Decorate(err, "NewSFReader")
	}
	if R.scaling, err = mlp.ReadLines(filepath.Join(dir, ScalingLog)); err != nil {
		return nil, mlp.Decorate(err, "NewSFReader")
	}
	logger.Logger.Debugw("symmetry function files found", "dir", dir, "layout", R.layout.String())
	return R, nil
}

// Layout returns the layout of the dump being read.
func (R *SFReader) Layout() Layout { return R.layout }

// Settings returns the parsed input.nn.
func (R *SFReader) Settings() *Settings { return R.settings }

// Values reads the dump and groups the rows by element. species maps atomic
// numbers to element symbols; only the elements in it are accepted, any other
// leading token gives an mlp.ErrUnknownSpecies error.
func (R *SFReader) Values(species map[int]string) (map[string][][]float64, error) {
	L, err := mlp.ReadLines(R.dump)
	if err != nil {
		return nil, mlp.Decorate(err, "SFReader.Values")
	}
	var rows []string
	if R.layout == Flat {
		rows = flatRows(L.All())
	} else {
		rows = legacyRows(L.All())
	}
	ret, err := groupRows(rows, species)
	if err != nil {
		return nil, mlp.Decorate(err, "SFReader.Values: "+R.dump)
	}
	return ret, nil
}

func flatRows(lines []string) []string {
	ret := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			ret = append(ret, l)
		}
	}
	return ret
}

// legacyRows returns the atom rows of a function.data dump. Each block goes
// from a one-token line to the line before the next one, minus its last line.
func legacyRows(lines []string) []string {
	var starts []int
	for i, l := range lines {
		if len(strings.Fields(l)) == 1 {
			starts = append(starts, i)
		}
	}
	var ret []string
	for i, s := range starts {
		end := len(lines) - 1
		if i+1 < len(starts) {
			end = starts[i+1] - 1
		}
		if end > s+1 {
			ret = append(ret, lines[s+1:end]...)
		}
	}
	return ret
}

// groupRows splits each row into its leading token, an atomic number or an
// element symbol, and the values.
func groupRows(rows []string, species map[int]string) (map[string][][]float64, error) {
	known := make(map[string]bool, len(species))
	ret := make(map[string][][]float64, len(species))
	for _, s := range species {
		known[s] = true
		ret[s] = nil
	}
	for _, r := range rows {
		f := strings.Fields(r)
		el := f[0]
		if z, err := strconv.ParseFloat(el, 64); err == nil {
			s, ok := species[int(z)]
			if !ok {
				return nil, mlp.NewError(mlp.ErrUnknownSpecies, fmt.Sprintf("unknown atomic number %s, not in the species map", el), "")
			}
			el = s
		} else if !known[el] {
			return nil, mlp.NewError(mlp.ErrUnknownSpecies, fmt.Sprintf("unknown species %s, not in the species map", el), "")
		}
		v, err := mlp.ParseFloats(f[1:])
		if err != nil {
			return nil, err
		}
		ret[el] = append(ret[el], v)
	}
	return ret, nil
}

// Columns returns the names of the first n symmetry functions of element:
// the fields of their input.nn definition after the keyword, joined by "_".
// The definitions are found through the line numbers in the last section of
// the scaling log for element. If n is 0, all the functions in the section are named.
func (R *SFReader) Columns(element string, n int) ([]string, error) {
	idx := -1
	for i, l := range R.scaling.All() {
		if !strings.Contains(l, ScalingSection) {
			continue
		}
		if f := strings.Fields(l); len(f) > 1 && f[len(f)-2] == element {
			idx = i
		}
	}
	if idx < 0 {
		return nil, mlp.NewError(mlp.ErrMarkerNotFound, fmt.Sprintf("marker %q not found for element %s", ScalingSection, element), R.scaling.Name)
	}
	var ret []string
	for i := idx + 4; i < R.scaling.Len() && (n <= 0 || len(ret) < n); i++ {
		f := strings.Fields(R.scaling.Line(i))
		if len(f) == 0 {
			break
		}
		ln, err := strconv.Atoi(f[len(f)-1])
		if err != nil {
			//end of the table
			break
		}
		def, err := R.settings.Line(ln)
		if err != nil {
			return nil, mlp.Decorate(err, "SFReader.Columns")
		}
		ret = append(ret, strings.Join(strings.Fields(stripComment(def))[1:], "_"))
	}
	if n > 0 && len(ret) < n {
		return nil, mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("%d symmetry functions requested for %s, %d found", n, element, len(ret)), R.scaling.Name)
	}
	return ret, nil
}

// Read returns the symmetry function table of each element in species. n is
// the number of symmetry functions per atom, 0 to take it from the scaling log.
func (R *SFReader) Read(species map[int]string, n int) (map[string]*SFTable, error) {
	values, err := R.Values(species)
	if err != nil {
		return nil, mlp.Decorate(err, "SFReader.Read")
	}
	elements := make([]string, 0, len(values))
	for k := range values {
		elements = append(elements, k)
	}
	sort.Strings(elements)
	ret := make(map[string]*SFTable, len(values))
	for _, el := range elements {
		cols, err := R.Columns(el, n)
		if err != nil {
			return nil, mlp.Decorate(err, "SFReader.Read")
		}
		rows := values[el]
		for i, r := range rows {
			if len(r) != len(cols) {
				return nil, mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("%s atom %d has %d values, %d columns", el, i, len(r), len(cols)), R.dump)
			}
		}
		ret[el] = &SFTable{Element: el, Columns: cols, Rows: rows}
		logger.Logger.Debugw("symmetry function table", "element", el, "atoms", len(rows), "columns", len(cols))
	}
	return ret, nil
}
