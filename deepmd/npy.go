/*
 * npy.go, part of gomlp.
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

package deepmd

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	mlp "github.com/gomlp/gomlp"
)

var npyMagic = []byte("\x93NUMPY")

var (
	descrRe   = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	fortranRe = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	shapeRe   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// ReadNpy reads a little-endian float32 or float64 C-ordered .npy array.
// It returns the data as float64, and the shape.
func ReadNpy(path string) ([]float64, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, mlp.FileError(path, err)
	}
	defer f.Close()
	data, shape, err := readNpy(bufio.NewReader(f))
	if err != nil {
		return nil, nil, mlp.NewError(mlp.ErrBadValue, err.Error(), path)
	}
	return data, shape, nil
}

func readNpy(r io.Reader) ([]float64, []int, error) {
	head := make([]byte, 8)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, nil, errors.Wrap(err, "reading npy magic")
	}
	if !bytes.Equal(head[:6], npyMagic) {
		return nil, nil, errors.New("not a npy file")
	}
	var hlen int
	switch head[6] {
	case 1:
		var l uint16
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, nil, errors.Wrap(err, "reading npy header length")
		}
		hlen = int(l)
	case 2, 3:
		var l uint32
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, nil, errors.Wrap(err, "reading npy header length")
		}
		hlen = int(l)
	default:
		return nil, nil, errors.Newf("unsupported npy version %d", head[6])
	}
	header := make([]byte, hlen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, nil, errors.Wrap(err, "reading npy header")
	}
	h := string(header)
	descr := descrRe.FindStringSubmatch(h)
	if descr == nil {
		return nil, nil, errors.New("npy header without descr")
	}
	if m := fortranRe.FindStringSubmatch(h); m != nil && m[1] == "True" {
		return nil, nil, errors.New("fortran-ordered arrays are not supported")
	}
	sh := shapeRe.FindStringSubmatch(h)
	if sh == nil {
		return nil, nil, errors.New("npy header without shape")
	}
	shape := []int{}
	n := 1
	for _, v := range strings.Split(sh[1], ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		d, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, errors.Newf("bad npy shape %q", sh[1])
		}
		shape = append(shape, d)
		n *= d
	}
	ret := make([]float64, n)
	switch descr[1] {
	case "<f8":
		if err := binary.Read(r, binary.LittleEndian, ret); err != nil {
			return nil, nil, errors.Wrap(err, "reading npy data")
		}
	case "<f4":
		tmp := make([]float32, n)
		if err := binary.Read(r, binary.LittleEndian, tmp); err != nil {
			return nil, nil, errors.Wrap(err, "reading npy data")
		}
		for i, v := range tmp {
			ret[i] = float64(v)
		}
	default:
		return nil, nil, errors.Newf("unsupported npy dtype %s", descr[1])
	}
	return ret, shape, nil
}

// WriteNpy writes data as a version 1 little-endian float64 .npy array of the given shape.
func WriteNpy(path string, data []float64, shape ...int) error {
	n := 1
	dims := make([]string, len(shape))
	for i, v := range shape {
		n *= v
		dims[i] = strconv.Itoa(v)
	}
	if n != len(data) {
		return mlp.NewError(mlp.ErrInconsistent, fmt.Sprintf("%d values for shape %v", len(data), shape), path)
	}
	s := strings.Join(dims, ", ")
	if len(shape) == 1 {
		s += ","
	}
	header := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%s), }", s)
	//magic(6)+version(2)+length(2)+header+newline must be a multiple of 64
	pad := 64 - (10+len(header)+1)%64
	if pad == 64 {
		pad = 0
	}
	header += strings.Repeat(" ", pad) + "\n"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	w := bufio.NewWriter(f)
	w.Write(npyMagic)
	w.Write([]byte{1, 0})
	binary.Write(w, binary.LittleEndian, uint16(len(header)))
	w.WriteString(header)
	for _, v := range data {
		binary.Write(w, binary.LittleEndian, math.Float64bits(v))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return f.Close()
}
