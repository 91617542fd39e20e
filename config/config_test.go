/*
 * config_test.go, part of gomlp.
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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(Te *testing.T) {
	C := Default()
	require.NoError(Te, C.Check())
	assert.Equal(Te, "scf.in", C.Espresso.Input)
	assert.Equal(Te, "mp-", C.Espresso.IDMarker)
	assert.Equal(Te, "etch.dat", C.Sputter.Dump)
	assert.Equal(Te, 6.0, C.RDF.Cutoff)
	assert.Equal(Te, 100, C.RDF.Bins)
	assert.NotNil(Te, C.Catalog)
}

func TestLoad(Te *testing.T) {
	C, err := Load("testdata/gomlp.yaml")
	require.NoError(Te, err)
	assert.Equal(Te, "scf.in", C.Espresso.Input)
	assert.Equal(Te, "pw.out", C.Espresso.Output)
	assert.Equal(Te, "O", C.Espresso.Species)
	assert.Equal(Te, 20, C.Sputter.Window)
	assert.Equal(Te, 400.0, C.Sputter.Area)
	assert.Equal(Te, 200, C.RDF.Bins)
	assert.Equal(Te, "debug", C.Log.Level)
	d, err := C.CatalogDir("sio2")
	require.NoError(Te, err)
	assert.Equal(Te, "/data/sio2", d)
	_, err = C.CatalogDir("GaN")
	assert.Error(Te, err)

	_, err = Load("testdata/nothere.yaml")
	assert.Error(Te, err)
}

func TestEnvironment(Te *testing.T) {
	Te.Setenv("GOMLP_SPUTTER_WINDOW", "7")
	C, err := Load("")
	require.NoError(Te, err)
	assert.Equal(Te, 7, C.Sputter.Window)
}

func TestCheck(Te *testing.T) {
	C := Default()
	C.Sputter.Interval = 0
	assert.Error(Te, C.Check())
	C = Default()
	C.RDF.Bins = -1
	assert.Error(Te, C.Check())
	C = Default()
	C.Paths.YamamuraTable = "testdata/nothere.csv"
	assert.Error(Te, C.Check())
	C = Default()
	C.Espresso.Output = ""
	assert.Error(Te, C.Check())
}

func TestWriteYAML(Te *testing.T) {
	C, err := Load("testdata/gomlp.yaml")
	require.NoError(Te, err)
	name := filepath.Join(Te.TempDir(), "cfg", "gomlp.yaml")
	require.NoError(Te, C.WriteYAML(name))
	_, err = os.Stat(name)
	require.NoError(Te, err)
	D, err := Load(name)
	require.NoError(Te, err)
	assert.Equal(Te, C.Espresso, D.Espresso)
	assert.Equal(Te, C.Sputter, D.Sputter)
	assert.Equal(Te, len(C.Catalog), len(D.Catalog))
}
