/*
 * mlpio_test.go, part of gomlp.
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

package mlpio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/config"
	"github.com/gomlp/gomlp/deepmd"
	"github.com/gomlp/gomlp/n2p2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	espressoDir = "../qe/testdata/mp-149_single"
	n2p2Data    = "../n2p2/testdata/input.data"
	xyzFile     = "../toolkit/testdata/si2.xyz"
)

func TestRead(Te *testing.T) {
	atoms, err := Read(espressoDir, mlp.FormatEspresso, nil)
	require.NoError(Te, err)
	require.Len(Te, atoms, 1)
	assert.Equal(Te, "mp-149_single", atoms[0].StructureID)
	e, ok := atoms[0].Energy()
	assert.True(Te, ok)
	assert.InDelta(Te, -15.8502*mlp.Ry2EV, e, 1e-6)

	atoms, err = Read(n2p2Data, mlp.FormatN2P2, config.Default())
	require.NoError(Te, err)
	require.Len(Te, atoms, 2)
	assert.Equal(Te, "O", atoms[1].Symbol(0))

	atoms, err = Read(xyzFile, mlp.FormatXYZ, nil)
	require.NoError(Te, err)
	require.Len(Te, atoms, 2)
	assert.Equal(Te, xyzFile, atoms[1].Path)
	assert.Equal(Te, 1, atoms[1].Frame)

	_, err = Read(espressoDir, mlp.FormatToolkit, nil)
	assert.True(Te, errors.Is(err, mlp.ErrUnsupportedFormat))
	_, err = Read(espressoDir, mlp.FormatUnknown, nil)
	assert.True(Te, errors.Is(err, mlp.ErrUnsupportedFormat))
	_, err = Read("testdata/nothere", mlp.FormatEspresso, nil)
	assert.True(Te, errors.Is(err, mlp.ErrMissingFile))
}

func TestReadDeepMDFallbackSpecies(Te *testing.T) {
	atoms, err := n2p2.ReadDataFile(n2p2Data)
	require.NoError(Te, err)
	dir := Te.TempDir()
	require.NoError(Te, deepmd.WriteSystem(dir, atoms[:1], false))
	require.NoError(Te, os.Remove(filepath.Join(dir, "type_map.raw")))
	C := config.Default()
	C.Espresso.Species = "Ge"
	read, err := Read(dir, mlp.FormatDeepMD, C)
	require.NoError(Te, err)
	require.Len(Te, read, 1)
	assert.Equal(Te, []string{"Ge", "Ge"}, read[0].Symbols())
}

func TestReadAll(Te *testing.T) {
	bad := filepath.Join(Te.TempDir(), "mp-2_broken")
	require.NoError(Te, mlp.CopyFile(filepath.Join(espressoDir, "scf.in"), filepath.Join(bad, "scf.in")))
	require.NoError(Te, mlp.WriteLines(filepath.Join(bad, "scf.out"), []string{"Program PWSCF", "!    total energy              =     -15.8 Ry"}))
	atoms, skipped, err := ReadAll([]string{espressoDir, bad}, mlp.FormatEspresso, nil)
	require.NoError(Te, err)
	assert.Len(Te, atoms, 1)
	assert.Equal(Te, []string{bad}, skipped)

	_, _, err = ReadAll([]string{espressoDir, "testdata/nothere"}, mlp.FormatEspresso, nil)
	assert.True(Te, errors.Is(err, mlp.ErrMissingFile))
}

func TestFindEspresso(Te *testing.T) {
	dirs, err := FindEspresso("../qe/testdata", nil)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"../qe/testdata/dimer_2.2", "../qe/testdata/mp-149_single"}, dirs)
	_, err = FindEspresso("testdata/nothere", nil)
	assert.True(Te, errors.Is(err, mlp.ErrMissingFile))
}

func TestExportN2P2(Te *testing.T) {
	atoms, err := Read(xyzFile, mlp.FormatXYZ, nil)
	require.NoError(Te, err)
	name := filepath.Join(Te.TempDir(), "n2p2", "input.data")
	require.NoError(Te, ExportN2P2(name, atoms, nil))
	back, err := n2p2.ReadDataFile(name)
	require.NoError(Te, err)
	require.Len(Te, back, 2)
	e, _ := back[0].Energy()
	assert.InDelta(Te, -215.65, e, 1e-9)
	assert.True(Te, back[0].Forces().EqualApprox(atoms[0].Forces(), 1e-9))
}

func TestCache(Te *testing.T) {
	atoms, err := Read(n2p2Data, mlp.FormatN2P2, nil)
	require.NoError(Te, err)
	qa, err := Read(espressoDir, mlp.FormatEspresso, nil)
	require.NoError(Te, err)
	atoms = append(atoms, qa...)
	dir := Te.TempDir()
	name := filepath.Join(dir, "a", CacheName)
	require.NoError(Te, SaveCache(name, atoms))
	back, err := LoadCache(name)
	require.NoError(Te, err)
	require.Len(Te, back, len(atoms))
	for i, A := range atoms {
		B := back[i]
		assert.Equal(Te, A.StructureID, B.StructureID)
		assert.Equal(Te, A.Path, B.Path)
		assert.Equal(Te, A.Frame, B.Frame)
		assert.Equal(Te, A.Symbols(), B.Symbols())
		assert.True(Te, A.Cell().EqualApprox(B.Cell(), 0))
		assert.True(Te, A.Coords().EqualApprox(B.Coords(), 0))
		ea, oka := A.Energy()
		eb, okb := B.Energy()
		assert.Equal(Te, oka, okb)
		assert.Equal(Te, ea, eb)
		_, oka = A.TotalMagnetization()
		_, okb = B.TotalMagnetization()
		assert.Equal(Te, oka, okb)
	}
	require.NoError(Te, SaveCache(filepath.Join(dir, "b", "c", CacheName), atoms[:1]))
	all, err := LoadCacheDir(dir)
	require.NoError(Te, err)
	assert.Len(Te, all, len(atoms)+1)

	require.NoError(Te, os.WriteFile(filepath.Join(dir, "junk.zst"), []byte("not a cache"), 0o644))
	_, err = LoadCache(filepath.Join(dir, "junk.zst"))
	assert.Error(Te, err)
	_, err = LoadCache(filepath.Join(dir, "nothere"))
	assert.True(Te, errors.Is(err, mlp.ErrMissingFile))
}
