/*
 * pwscf.go, part of gomlp.
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

package qe

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/logger"
	v3 "github.com/gomlp/gomlp/v3"
)

//Markers in the pw.x output
const (
	JobDone          = "JOB DONE."
	NotConverged     = "convergence NOT achieved"
	UnreliableSCF    = "SCF correction compared to forces is large"
	EnergyMarker     = "!"
	TotalEnergy      = "!    total energy"
	ForcesMarker     = "Forces acting on atoms (cartesian axes, Ry/au):"
	MagnetizationKey = "total magnetization"
)

// Options for reading pw.x directories.
type Options struct {
	input    string
	output   string
	idMarker string
}

// DefaultOptions returns options for scf.in/scf.out and Materials Project ("mp-") ids.
func DefaultOptions() *Options {
	return &Options{input: "scf.in", output: "scf.out", idMarker: "mp-"}
}

// Input returns the name of the input deck, and sets it if a non-empty name is given.
func (O *Options) Input(name ...string) string {
	ret := O.input
	if len(name) > 0 && name[0] != "" {
		O.input = name[0]
	}
	return ret
}

// Output returns the name of the output log, and sets it if a non-empty name is given.
func (O *Options) Output(name ...string) string {
	ret := O.output
	if len(name) > 0 && name[0] != "" {
		O.output = name[0]
	}
	return ret
}

// IDMarker returns the substring that identifies the path component used as
// structure id, and sets it if a non-empty one is given.
func (O *Options) IDMarker(marker ...string) string {
	ret := O.idMarker
	if len(marker) > 0 && marker[0] != "" {
		O.idMarker = marker[0]
	}
	return ret
}

// PWscf reads one pw.x calculation. It implements mlp.Parser.
type PWscf struct {
	dir  string
	opts *Options
	deck *Deck
	out  *mlp.Lines
	nat  int
}

// NewPWscf reads the input deck and output log in dir and validates the output.
// A missing file gives an mlp.ErrMissingFile error. An output without "JOB DONE."
// gives mlp.ErrJobIncomplete, one with "convergence NOT achieved" gives
// mlp.ErrNotConverged, which takes precedence.
func NewPWscf(dir string, options ...*Options) (*PWscf, error) {
	O := DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		O = options[0]
	}
	P := &PWscf{dir: dir, opts: O}
	var err error
	P.deck, err = ReadDeck(filepath.Join(dir, O.input))
	if err != nil {
		return nil, mlp.Decorate(err, "NewPWscf")
	}
	P.out, err = mlp.ReadLines(filepath.Join(dir, O.output))
	if err != nil {
		return nil, mlp.Decorate(err, "NewPWscf")
	}
	if err := Validate(P.out); err != nil {
		return nil, mlp.Decorate(err, "NewPWscf")
	}
	P.nat, err = P.deck.NAtoms()
	if err != nil {
		return nil, mlp.Decorate(err, "NewPWscf")
	}
	logger.Logger.Debugw("read pw.x calculation", "dir", dir, "nat", P.nat)
	return P, nil
}

// Validate checks a pw.x output log for the failure markers. Non-convergence
// takes precedence over a missing "JOB DONE.", which takes precedence over an
// unreliable SCF correction.
func Validate(out *mlp.Lines) error {
	_, jobErr := out.FindExact(JobDone, mlp.LastMatch)
	if jobErr != nil {
		jobErr = mlp.NewError(mlp.ErrJobIncomplete, "invalid: job did not finish", out.Name)
	}
	if out.Contains(NotConverged) {
		err := mlp.NewError(mlp.ErrNotConverged, "invalid: convergence NOT achieved", out.Name)
		if jobErr != nil {
			return errors.WithSecondaryError(err, jobErr)
		}
		return err
	}
	if jobErr != nil {
		return jobErr
	}
	if out.Contains(UnreliableSCF) {
		return mlp.NewError(mlp.ErrUnreliableSCF, "invalid: unreliable scf result", out.Name)
	}
	return nil
}

// Dir returns the calculation directory.
func (P *PWscf) Dir() string { return P.dir }

// Deck returns the input deck.
func (P *PWscf) Deck() *Deck { return P.deck }

func (P *PWscf) NAtoms() (int, error) { return P.nat, nil }

func (P *PWscf) Cell() (*v3.Matrix, error) {
	c, err := P.deck.Cell()
	return c, mlp.Decorate(err, "PWscf.Cell")
}

func (P *PWscf) Coords() (*v3.Matrix, error) {
	c, _, err := P.deck.Positions()
	return c, mlp.Decorate(err, "PWscf.Coords")
}

func (P *PWscf) Symbols() ([]string, error) {
	_, s, err := P.deck.Positions()
	return s, mlp.Decorate(err, "PWscf.Symbols")
}

// Energy returns the last total energy ("!" line) in eV.
func (P *PWscf) Energy() (float64, error) {
	i, err := P.out.Find(EnergyMarker, mlp.LastMatch)
	if err != nil {
		return 0, mlp.Decorate(err, "PWscf.Energy")
	}
	e, err := mlp.FloatField(P.out.Line(i), -2)
	if err != nil {
		return 0, mlp.Decorate(err, "PWscf.Energy")
	}
	return e * mlp.Ry2EV, nil
}

// Forces returns the last forces block, in eV/A. Calculations without forces
// give an mlp.ErrAbsent error.
func (P *PWscf) Forces() (*v3.Matrix, error) {
	i, err := P.out.Find(ForcesMarker, mlp.LastMatch)
	if err != nil {
		return nil, mlp.NewError(mlp.ErrAbsent, "no forces in output", P.out.Name)
	}
	block, err := P.out.Block(i+2, P.nat)
	if err != nil {
		return nil, mlp.Decorate(err, "PWscf.Forces")
	}
	data := make([]float64, 0, 3*P.nat)
	for _, l := range block {
		f := strings.Fields(l)
		if len(f) < 3 {
			return nil, mlp.NewError(mlp.ErrBadValue, "short force line "+l, P.out.Name)
		}
		v, err := mlp.ParseFloats(f[len(f)-3:])
		if err != nil {
			return nil, mlp.Decorate(err, "PWscf.Forces")
		}
		data = append(data, v...)
	}
	ret, err := v3.NewMatrix(data)
	if err != nil {
		return nil, mlp.Decorate(err, "PWscf.Forces")
	}
	ret.Dense.Scale(mlp.RyBohr2EVA, ret.Dense)
	return ret, nil
}

// TotalMagnetization returns the last reported total magnetization, or an
// mlp.ErrAbsent error for non spin-polarized runs.
func (P *PWscf) TotalMagnetization() (float64, error) {
	i, err := P.out.Find(MagnetizationKey, mlp.LastMatch)
	if err != nil {
		return 0, mlp.NewError(mlp.ErrAbsent, "no total magnetization in output", P.out.Name)
	}
	m, err := mlp.FloatField(P.out.Line(i), 3)
	return m, mlp.Decorate(err, "PWscf.TotalMagnetization")
}

// StructureID returns the first component of the directory path that contains
// the id marker, or the directory name if none does.
func (P *PWscf) StructureID() (string, error) {
	return structureID(P.dir, P.opts.idMarker), nil
}

func structureID(dir, marker string) string {
	for _, v := range strings.Split(filepath.ToSlash(filepath.Clean(dir)), "/") {
		if marker != "" && strings.Contains(v, marker) {
			return v
		}
	}
	return filepath.Base(dir)
}

// Read reads the pw.x calculation in dir into an Atoms record.
func Read(dir string, options ...*Options) (*mlp.Atoms, error) {
	P, err := NewPWscf(dir, options...)
	if err != nil {
		return nil, mlp.Decorate(err, "qe.Read")
	}
	A, err := mlp.FromParser(P)
	if err != nil {
		return nil, mlp.Decorate(err, "qe.Read")
	}
	A.Path = dir
	A.Info["calculation"], _ = P.deck.Value("calculation")
	return A, nil
}
