/*
 * nn.go, part of gomlp.
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
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	mlp "github.com/gomlp/gomlp"
	"gopkg.in/yaml.v3"
)

// Keywords of input.nn
const (
	SymFunctionKey = "symfunction_short"
	ElementsKey    = "elements"
	MeanEnergyKey  = "mean_energy"
	ConvEnergyKey  = "conv_energy"
	ConvLengthKey  = "conv_length"
)

// RadialSF is a radial (type 2) symmetry function centered on the first
// element of Bond.
type RadialSF struct {
	Bond string  `yaml:"bond"`
	Eta  float64 `yaml:"eta"`
	Rs   float64 `yaml:"rs"`
	Rcut float64 `yaml:"rcut"`
	Line int     `yaml:"-"` //1-based line in input.nn, 0 if not read from one
}

// AngularSF is an angular (type 3, or 9 if Wide) symmetry function.
// The central atom is the first element of Bond.
type AngularSF struct {
	Bond   string  `yaml:"bond"`
	Lambda float64 `yaml:"lambda"`
	Zeta   float64 `yaml:"zeta"`
	Eta    float64 `yaml:"eta"`
	Rcut   float64 `yaml:"rcut"`
	Wide   bool    `yaml:"wide,omitempty"`
	Line   int     `yaml:"-"`
}

func (R RadialSF) String() string {
	c, n, _ := strings.Cut(R.Bond, "-")
	return fmt.Sprintf("%s %s 2 %s %s %s %s", SymFunctionKey, c, n, ftoa(R.Eta), ftoa(R.Rs), ftoa(R.Rcut))
}

func (A AngularSF) String() string {
	e := strings.SplitN(A.Bond, "-", 3)
	for len(e) < 3 {
		e = append(e, "")
	}
	t := 3
	if A.Wide {
		t = 9
	}
	return fmt.Sprintf("%s %s %d %s %s %s %s %s %s", SymFunctionKey, e[0], t, e[1], e[2], ftoa(A.Eta), ftoa(A.Lambda), ftoa(A.Zeta), ftoa(A.Rcut))
}

// SFConfig is a set of symmetry function definitions. It can be read from
// input.nn or from a YAML file, and written to either.
type SFConfig struct {
	Radial  []RadialSF  `yaml:"radial"`
	Angular []AngularSF `yaml:"angular"`
}

// Lines returns the symfunction_short lines for the input.nn file.
func (S *SFConfig) Lines() []string {
	ret := make([]string, 0, len(S.Radial)+len(S.Angular))
	for _, v := range S.Radial {
		ret = append(ret, v.String())
	}
	for _, v := range S.Angular {
		ret = append(ret, v.String())
	}
	return ret
}

// Bonds returns the symmetry functions grouped by bond key ("Si-O" or "Si-O-O").
func (S *SFConfig) Bonds() (map[string][]RadialSF, map[string][]AngularSF) {
	r := make(map[string][]RadialSF)
	a := make(map[string][]AngularSF)
	for _, v := range S.Radial {
		r[v.Bond] = append(r[v.Bond], v)
	}
	for _, v := range S.Angular {
		a[v.Bond] = append(a[v.Bond], v)
	}
	return r, a
}

// LoadSFConfig reads symmetry function definitions from a YAML file.
func LoadSFConfig(path string) (*SFConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mlp.FileError(path, err)
	}
	S := new(SFConfig)
	if err := yaml.Unmarshal(data, S); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return S, nil
}

// Save writes S to path as YAML.
func (S *SFConfig) Save(path string) error {
	data, err := yaml.Marshal(S)
	if err != nil {
		return errors.Wrap(err, "encoding symmetry functions")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "writing %s", path)
}

// Settings is an input.nn file.
type Settings struct {
	lines *mlp.Lines
	SF    SFConfig
}

// ReadSettings reads the input.nn file at path.
func ReadSettings(path string) (*Settings, error) {
	L, err := mlp.ReadLines(path)
	if err != nil {
		return nil, mlp.Decorate(err, "ReadSettings")
	}
	S, err := NewSettings(L)
	return S, mlp.Decorate(err, "ReadSettings")
}

// NewSettings parses the symmetry functions in the input.nn lines of L.
func NewSettings(L *mlp.Lines) (*Settings, error) {
	S := &Settings{lines: L}
	for i, l := range L.All() {
		f := strings.Fields(stripComment(l))
		if len(f) == 0 || f[0] != SymFunctionKey {
			continue
		}
		if err := S.addSF(f[1:], i+1); err != nil {
			return nil, mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("line %d: %s", i+1, err.Error()), L.Name)
		}
	}
	return S, nil
}

func (S *Settings) addSF(f []string, line int) error {
	if len(f) < 2 {
		return errors.New("incomplete symmetry function")
	}
	switch f[1] {
	case "2":
		//center 2 neighbor eta rshift rcut
		if len(f) < 6 {
			return errors.Newf("radial symmetry function needs 6 fields, got %d", len(f))
		}
		v, err := mlp.ParseFloats(f[3:6])
		if err != nil {
			return err
		}
		S.SF.Radial = append(S.SF.Radial, RadialSF{Bond: f[0] + "-" + f[2], Eta: v[0], Rs: v[1], Rcut: v[2], Line: line})
	case "3", "9":
		//center 3 neighbor1 neighbor2 eta lambda zeta rcut [rshift]
		if len(f) < 8 {
			return errors.Newf("angular symmetry function needs 8 fields, got %d", len(f))
		}
		v, err := mlp.ParseFloats(f[4:8])
		if err != nil {
			return err
		}
		S.SF.Angular = append(S.SF.Angular, AngularSF{Bond: f[0] + "-" + f[2] + "-" + f[3], Eta: v[0], Lambda: v[1], Zeta: v[2], Rcut: v[3], Wide: f[1] == "9", Line: line})
	}
	//other types are accepted by n2p2 but not described here
	return nil
}

func stripComment(l string) string {
	if i := strings.Index(l, "#"); i >= 0 {
		return l[:i]
	}
	return l
}

// Line returns the nth (1-based) line of the file.
func (S *Settings) Line(n int) (string, error) {
	if n < 1 || n > S.lines.Len() {
		return "", mlp.NewError(mlp.ErrBadValue, fmt.Sprintf("line %d requested, the file has %d", n, S.lines.Len()), S.lines.Name)
	}
	return S.lines.Line(n - 1), nil
}

// Value returns the last token of the last line starting with key.
func (S *Settings) Value(key string) (string, error) {
	ret := ""
	for _, l := range S.lines.All() {
		f := strings.Fields(stripComment(l))
		if len(f) > 1 && f[0] == key {
			ret = f[len(f)-1]
		}
	}
	if ret == "" {
		return "", mlp.MarkerError(key, S.lines.Name)
	}
	return ret, nil
}

// Elements returns the elements declared in the file.
func (S *Settings) Elements() ([]string, error) {
	for _, l := range S.lines.All() {
		f := strings.Fields(stripComment(l))
		if len(f) > 1 && f[0] == ElementsKey {
			return f[1:], nil
		}
	}
	return nil, mlp.MarkerError(ElementsKey, S.lines.Name)
}

// Factors are the normalization factors n2p2 writes to input.nn
// after nnp-norm.
type Factors struct {
	MeanEnergy float64
	ConvEnergy float64
	ConvLength float64
}

// ConvertFactors returns the normalization factors. Files without them
// (not normalized) give an mlp.ErrMarkerNotFound error.
func (S *Settings) ConvertFactors() (Factors, error) {
	var F Factors
	for _, v := range []struct {
		key string
		dst *float64
	}{{MeanEnergyKey, &F.MeanEnergy}, {ConvEnergyKey, &F.ConvEnergy}, {ConvLengthKey, &F.ConvLength}} {
		s, err := S.Value(v.key)
		if err != nil {
			return F, mlp.Decorate(err, "ConvertFactors")
		}
		if *v.dst, err = mlp.ParseFloat(s); err != nil {
			return F, mlp.Decorate(err, "ConvertFactors")
		}
	}
	return F, nil
}

// Energy returns the physical energy for the normalized energy e.
func (F Factors) Energy(e float64) float64 {
	return e/F.ConvEnergy + F.MeanEnergy
}

// Force returns the physical force for the normalized force f.
func (F Factors) Force(f float64) float64 {
	return f * F.ConvLength / F.ConvEnergy
}

// zfill returns the atomic number as n2p2 writes it in file names.
func zfill(z int) string {
	return fmt.Sprintf("%03d", z)
}
