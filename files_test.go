/*
 * files_test.go, part of gomlp.
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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scanSample = `header
  total magnetization = 1.00 Bohr mag/cell
middle
  total magnetization = 2.00 Bohr mag/cell
JOB DONE.
`

func TestScanPolicy(Te *testing.T) {
	L, err := NewLines("sample", strings.NewReader(scanSample))
	require.NoError(Te, err)
	assert.Equal(Te, 5, L.Len())

	first, err := L.Find("total magnetization", FirstMatch)
	require.NoError(Te, err)
	last, err := L.Find("total magnetization", LastMatch)
	require.NoError(Te, err)
	assert.Equal(Te, 1, first)
	assert.Equal(Te, 3, last)
	v, err := FloatField(L.Line(last), 3)
	require.NoError(Te, err)
	assert.Equal(Te, 2.0, v)

	_, err = L.FindExact("JOB DONE.", LastMatch)
	require.NoError(Te, err)
	_, err = L.FindExact("JOB DONE", LastMatch)
	assert.True(Te, errors.Is(err, ErrMarkerNotFound))
	assert.Contains(Te, err.Error(), "JOB DONE")

	line, err := L.After("header", 2, FirstMatch)
	require.NoError(Te, err)
	assert.Equal(Te, "middle", line)
	_, err = L.Block(4, 2)
	assert.True(Te, errors.Is(err, ErrBadValue))
	assert.Equal(Te, []int{1, 3}, L.FindAll("magnetization"))
}

func TestFields(Te *testing.T) {
	s, err := Field("a b c", -1)
	require.NoError(Te, err)
	assert.Equal(Te, "c", s)
	_, err = Field("a b c", 3)
	require.Error(Te, err)
	f, err := ParseFloat("1.5D-02")
	require.NoError(Te, err)
	assert.InDelta(Te, 0.015, f, 1e-15)
	_, err = ParseFloats([]string{"1", "x"})
	assert.True(Te, errors.Is(err, ErrBadValue))
}

func TestReadLinesCompressed(Te *testing.T) {
	dir := Te.TempDir()
	plain := filepath.Join(dir, "log.txt")
	require.NoError(Te, WriteLines(plain, []string{"  one", "two  "}))
	L, err := ReadLines(plain)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"one", "two"}, L.All())

	zpath := filepath.Join(dir, "log.txt.zst")
	enc, err := zstd.NewWriter(nil)
	require.NoError(Te, err)
	require.NoError(Te, os.WriteFile(zpath, enc.EncodeAll([]byte(scanSample), nil), 0o644))
	enc.Close()
	Z, err := ReadLines(zpath)
	require.NoError(Te, err)
	assert.Equal(Te, 5, Z.Len())

	_, err = ReadLines(filepath.Join(dir, "nothere"))
	assert.True(Te, errors.Is(err, ErrMissingFile))
	var gerr *Error
	require.True(Te, errors.As(err, &gerr))
	assert.Equal(Te, filepath.Join(dir, "nothere"), gerr.FileName())
}

func TestCopyDir(Te *testing.T) {
	dir := Te.TempDir()
	src := filepath.Join(dir, "template")
	require.NoError(Te, WriteLines(filepath.Join(src, "sub", "in.lmp"), []string{"run 0"}))
	dst := filepath.Join(dir, "copy")
	require.NoError(Te, CopyDir(src, dst))
	L, err := ReadLines(filepath.Join(dst, "sub", "in.lmp"))
	require.NoError(Te, err)
	assert.Equal(Te, "run 0", L.Line(0))
	assert.Error(Te, CopyDir(src, dst))
	assert.NoError(Te, Exists(dst))
}

func TestDecorate(Te *testing.T) {
	err := errDecorate(NewError(ErrNotConverged, "", "scf.out"), "Energy")
	err = errDecorate(err, "FromParser")
	var gerr *Error
	require.True(Te, errors.As(err, &gerr))
	assert.Equal(Te, "Energy <- FromParser", gerr.Trace())
	assert.True(Te, errors.Is(err, ErrNotConverged))
	assert.Equal(Te, "scf.out: scf convergence not achieved", err.Error())
	plain := errDecorate(errors.New("boom"), "Caller")
	assert.Equal(Te, "Caller: boom", plain.Error())
}

func TestParseFormat(Te *testing.T) {
	f, err := ParseFormat("espresso-in")
	require.NoError(Te, err)
	assert.Equal(Te, FormatEspresso, f)
	f, err = ParseFormat("n2p2")
	require.NoError(Te, err)
	assert.Equal(Te, "n2p2", f.String())
	_, err = ParseFormat("vasp")
	assert.True(Te, errors.Is(err, ErrUnsupportedFormat))
}
