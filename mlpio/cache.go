/*
 * cache.go, part of gomlp.
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
	"bufio"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/logger"
	v3 "github.com/gomlp/gomlp/v3"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// CacheName is the name of the cache files LoadCacheDir looks for.
const CacheName = "atoms.msgpack.zst"

const cacheVersion = 1

// record is the serialized form of an mlp.Atoms.
type record struct {
	StructureID   string            `msgpack:"id"`
	Path          string            `msgpack:"path"`
	Frame         int               `msgpack:"frame"`
	Cell          []float64         `msgpack:"cell"`
	Coords        []float64         `msgpack:"coords"`
	Forces        []float64         `msgpack:"forces,omitempty"`
	Symbols       []string          `msgpack:"symbols,omitempty"`
	Energy        *float64          `msgpack:"energy,omitempty"`
	Magnetization *float64          `msgpack:"magnetization,omitempty"`
	Info          map[string]string `msgpack:"info,omitempty"`
}

type cacheFile struct {
	Version int      `msgpack:"version"`
	Records []record `msgpack:"records"`
}

func toRecord(A *mlp.Atoms) record {
	r := record{
		StructureID: A.StructureID,
		Path:        A.Path,
		Frame:       A.Frame,
		Cell:        A.Cell().Data(),
		Coords:      A.Coords().Data(),
		Symbols:     A.Symbols(),
		Info:        A.Info,
	}
	if f := A.Forces(); f != nil {
		r.Forces = f.Data()
	}
	if e, ok := A.Energy(); ok {
		r.Energy = &e
	}
	if m, ok := A.TotalMagnetization(); ok {
		r.Magnetization = &m
	}
	return r
}

func (r record) atoms() (*mlp.Atoms, error) {
	cell, err := v3.NewMatrix(r.Cell)
	if err != nil {
		return nil, err
	}
	coords, err := v3.NewMatrix(r.Coords)
	if err != nil {
		return nil, err
	}
	A, err := mlp.NewAtoms(cell, coords, r.Symbols...)
	if err != nil {
		return nil, err
	}
	A.StructureID, A.Path, A.Frame = r.StructureID, r.Path, r.Frame
	for k, v := range r.Info {
		A.Info[k] = v
	}
	if r.Forces != nil {
		f, err := v3.NewMatrix(r.Forces)
		if err != nil {
			return nil, err
		}
		if err := A.SetForces(f); err != nil {
			return nil, err
		}
	}
	if r.Energy != nil {
		A.SetEnergy(*r.Energy)
	}
	if r.Magnetization != nil {
		A.SetTotalMagnetization(*r.Magnetization)
	}
	return A, nil
}

// EncodeCache writes atoms to w as zstd-compressed msgpack.
func EncodeCache(w io.Writer, atoms []*mlp.Atoms) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return errors.Wrap(err, "creating zstd writer")
	}
	C := cacheFile{Version: cacheVersion, Records: make([]record, len(atoms))}
	for i, A := range atoms {
		C.Records[i] = toRecord(A)
	}
	if err := msgpack.NewEncoder(zw).Encode(&C); err != nil {
		zw.Close()
		return errors.Wrap(err, "encoding records")
	}
	return errors.Wrap(zw.Close(), "closing zstd writer")
}

// DecodeCache reads records written by EncodeCache.
func DecodeCache(r io.Reader) ([]*mlp.Atoms, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "creating zstd reader")
	}
	defer zr.Close()
	var C cacheFile
	if err := msgpack.NewDecoder(zr).Decode(&C); err != nil {
		return nil, mlp.NewError(mlp.ErrBadValue, "decoding cache: "+err.Error(), "")
	}
	if C.Version != cacheVersion {
		return nil, mlp.NewError(mlp.ErrUnsupportedFormat, "unknown cache version", "")
	}
	ret := make([]*mlp.Atoms, len(C.Records))
	for i, rec := range C.Records {
		if ret[i], err = rec.atoms(); err != nil {
			return nil, mlp.Decorate(err, "DecodeCache")
		}
	}
	return ret, nil
}

// SaveCache writes atoms to the cache file at path, creating its directory.
func SaveCache(path string, atoms []*mlp.Atoms) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := EncodeCache(w, atoms); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	logger.Logger.Debugw("saved cache", "path", path, "structures", len(atoms))
	return nil
}

// LoadCache reads the cache file at path.
func LoadCache(path string) ([]*mlp.Atoms, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, mlp.FileError(path, err)
	}
	defer f.Close()
	ret, err := DecodeCache(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "reading cache %s", path)
	}
	return ret, nil
}

// LoadCacheDir loads every CacheName file under root, in lexical path order.
func LoadCacheDir(root string) ([]*mlp.Atoms, error) {
	if err := mlp.Exists(root); err != nil {
		return nil, mlp.Decorate(err, "LoadCacheDir")
	}
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == CacheName {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}
	sort.Strings(paths)
	var ret []*mlp.Atoms
	for _, p := range paths {
		atoms, err := LoadCache(p)
		if err != nil {
			return nil, mlp.Decorate(err, "LoadCacheDir")
		}
		ret = append(ret, atoms...)
	}
	return ret, nil
}
