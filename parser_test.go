/*
 * parser_test.go, part of gomlp.
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

package mlp

import (
	"testing"

	"github.com/cockroachdb/errors"
	v3 "github.com/gomlp/gomlp/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser struct {
	energyErr error
	forces    bool
}

func (f fakeParser) Cell() (*v3.Matrix, error) { return cubic(5), nil }
func (f fakeParser) Coords() (*v3.Matrix, error) {
	return v3.NewMatrix([]float64{0, 0, 0, 2.5, 2.5, 2.5})
}
func (f fakeParser) Energy() (float64, error) {
	if f.energyErr != nil {
		return 0, f.energyErr
	}
	return -12.5, nil
}
func (f fakeParser) Forces() (*v3.Matrix, error) {
	if !f.forces {
		return nil, NewError(ErrAbsent, "", "")
	}
	return v3.NewMatrix([]float64{0.1, 0, 0, -0.1, 0, 0})
}
func (f fakeParser) NAtoms() (int, error)                 { return 2, nil }
func (f fakeParser) StructureID() (string, error)         { return "mp-149", nil }
func (f fakeParser) TotalMagnetization() (float64, error) { return 0, NewError(ErrAbsent, "", "") }
func (f fakeParser) Symbols() ([]string, error)           { return []string{"Si2"}, nil }

func TestFromParser(Te *testing.T) {
	A, err := FromParser(fakeParser{forces: true})
	require.NoError(Te, err)
	e, ok := A.Energy()
	assert.True(Te, ok)
	assert.Equal(Te, -12.5, e)
	assert.Equal(Te, "mp-149", A.StructureID)
	assert.Equal(Te, []string{"Si", "Si"}, A.Symbols())
	assert.NotNil(Te, A.Forces())
	_, ok = A.TotalMagnetization()
	assert.False(Te, ok)

	B, err := FromParser(fakeParser{})
	require.NoError(Te, err)
	assert.Nil(Te, B.Forces())

	_, err = FromParser(fakeParser{energyErr: NewError(ErrJobIncomplete, "", "scf.out")})
	assert.True(Te, errors.Is(err, ErrJobIncomplete))
}

type bareStructure struct{}

func (b bareStructure) Cell() *v3.Matrix { return cubic(4) }
func (b bareStructure) Positions() *v3.Matrix {
	m, _ := v3.NewMatrix([]float64{0, 0, 0, 1, 1, 1})
	return m
}
func (b bareStructure) ChemicalSymbols() []string { return []string{"Si", "O"} }

type calcStructure struct{ bareStructure }

func (c calcStructure) PotentialEnergy() (float64, bool) { return -3, true }
func (c calcStructure) CalculatedForces() *v3.Matrix {
	m, _ := v3.NewMatrix([]float64{1, 0, 0, -1, 0, 0})
	return m
}

func TestFromToolkit(Te *testing.T) {
	A, err := FromToolkit(bareStructure{})
	require.NoError(Te, err)
	e, ok := A.Energy()
	assert.True(Te, ok)
	assert.Equal(Te, 0.0, e)
	assert.True(Te, A.Forces().IsZero())

	B, err := FromToolkit(calcStructure{})
	require.NoError(Te, err)
	e, _ = B.Energy()
	assert.Equal(Te, -3.0, e)
	assert.Equal(Te, 1.0, B.Forces().At(0, 0))

	_, err = FromToolkit("not a structure")
	assert.True(Te, errors.Is(err, ErrUnsupportedFormat))
}
